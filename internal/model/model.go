// Package model defines domain entities shared by the stores, codecs and adapters.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account known to the identity provider.
type User struct {
	ID          uuid.UUID // PK
	Email       string    // unique, used as login
	DisplayName string
	PhotoURL    string // optional, empty when unset
	PwdHash     []byte // Argon2id(password, SaltAuth)
	SaltAuth    []byte // per-user auth salt
	CreatedAt   time.Time
}

// Credential collects issued access/refresh tokens for a signed-in session.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry (for diagnostics)
}

// RefreshToken is the stored side of a refresh credential. Only a digest of
// the opaque token is persisted.
type RefreshToken struct {
	Digest    []byte
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Record is the common surface of both collection record kinds.
type Record interface {
	// RecordID returns the record's stable unique id.
	RecordID() string
	// Created returns the creation timestamp used for display ordering.
	Created() time.Time
}

// NewID returns a fresh record id. UUIDv7 keeps ids time-ordered like the
// wall-clock ids they replace, without the collision risk under rapid adds.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Reminder is a single task record.
type Reminder struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	IsCompleted bool
}

// NewReminder constructs a pending reminder stamped with a fresh id and now.
func NewReminder(title, description string) Reminder {
	return Reminder{
		ID:          NewID(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
		IsCompleted: false,
	}
}

func (r Reminder) RecordID() string   { return r.ID }
func (r Reminder) Created() time.Time { return r.CreatedAt }

// ItemType discriminates the saved-item variants.
type ItemType string

const (
	ItemText ItemType = "text"
	ItemLink ItemType = "link"
	ItemFile ItemType = "file"
)

// ResourceType classifies an uploaded file on the hosting service.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceRaw   ResourceType = "raw"
)

// FileData describes a hosted file attached to a file-type saved item.
type FileData struct {
	URL          string
	PublicID     string
	FileName     string
	FileSize     int64
	FileType     string // MIME type as reported by the client
	ResourceType ResourceType
}

// SavedItem is a single note record. URL is meaningful only for ItemLink and
// File only for ItemFile; constructors keep exactly one variant payload set.
type SavedItem struct {
	ID           string
	Title        string
	Content      string
	Type         ItemType
	URL          string
	File         *FileData
	CreatedAt    time.Time
	LastModified time.Time
	IsFavorite   bool
}

// NewTextItem constructs a plain text item.
func NewTextItem(title, content string) SavedItem {
	return newItem(title, content, ItemText, "", nil)
}

// NewLinkItem constructs a link item pointing at url.
func NewLinkItem(title, content, url string) SavedItem {
	return newItem(title, content, ItemLink, url, nil)
}

// NewFileItem constructs a file item referencing an already uploaded file.
func NewFileItem(title, content string, file FileData) SavedItem {
	return newItem(title, content, ItemFile, "", &file)
}

func newItem(title, content string, typ ItemType, url string, file *FileData) SavedItem {
	now := time.Now()
	return SavedItem{
		ID:           NewID(),
		Title:        title,
		Content:      content,
		Type:         typ,
		URL:          url,
		File:         file,
		CreatedAt:    now,
		LastModified: now,
		IsFavorite:   false,
	}
}

// Normalized returns a copy with variant payloads not matching Type cleared,
// so a caller-supplied update cannot leave both payloads populated.
func (s SavedItem) Normalized() SavedItem {
	if s.Type != ItemLink {
		s.URL = ""
	}
	if s.Type != ItemFile {
		s.File = nil
	}
	return s
}

func (s SavedItem) RecordID() string   { return s.ID }
func (s SavedItem) Created() time.Time { return s.CreatedAt }

// Collection is the full set of one user's records of one kind, persisted
// wholesale as a single remote document.
type Collection[R Record] struct {
	UserID      string
	Records     []R // insertion order, newest first at creation time
	LastUpdated time.Time
}

// NewCollection returns an empty collection owned by userID.
func NewCollection[R Record](userID string) *Collection[R] {
	return &Collection[R]{UserID: userID, Records: []R{}, LastUpdated: time.Now()}
}

// Clone returns a copy with its own records slice, safe to hand to a
// concurrent writer while the original keeps mutating.
func (c *Collection[R]) Clone() *Collection[R] {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Records = append([]R(nil), c.Records...)
	return &cp
}
