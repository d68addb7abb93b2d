package document

import (
	"encoding/json"
	"time"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// Wire shapes. Timestamps travel as Unix milliseconds; optional fields are
// written as explicit JSON null so that clearing a previously set value is
// observable in the stored document, not just omitted from it.

type wireReminder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"createdAt"`
	IsCompleted bool   `json:"isCompleted"`
}

type wireRemindersDoc struct {
	UserID      string         `json:"userId"`
	Reminders   []wireReminder `json:"reminders"`
	LastUpdated int64          `json:"lastUpdated"`
}

type wireFileData struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	FileName     string `json:"fileName"`
	FileSize     int64  `json:"fileSize"`
	FileType     string `json:"fileType"`
	ResourceType string `json:"resourceType"`
}

type wireSavedItem struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Type         string        `json:"type"`
	URL          *string       `json:"url"`
	FileData     *wireFileData `json:"fileData"`
	CreatedAt    int64         `json:"createdAt"`
	LastModified int64         `json:"lastModified"`
	IsFavorite   bool          `json:"isFavorite"`
}

type wireSavedItemsDoc struct {
	UserID      string          `json:"userId"`
	Items       []wireSavedItem `json:"items"`
	LastUpdated int64           `json:"lastUpdated"`
}

// EncodeReminders serializes the collection, restamping lastUpdated to now.
func EncodeReminders(c *model.Collection[model.Reminder]) ([]byte, error) {
	doc := wireRemindersDoc{
		UserID:      c.UserID,
		Reminders:   make([]wireReminder, 0, len(c.Records)),
		LastUpdated: toMillis(time.Now()),
	}
	for _, r := range c.Records {
		doc.Reminders = append(doc.Reminders, wireReminder{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			CreatedAt:   toMillis(r.CreatedAt),
			IsCompleted: r.IsCompleted,
		})
	}
	return json.Marshal(doc)
}

// DecodeReminders parses a stored document back into memory shape.
func DecodeReminders(raw []byte) (*model.Collection[model.Reminder], error) {
	var doc wireRemindersDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	c := &model.Collection[model.Reminder]{
		UserID:      doc.UserID,
		Records:     make([]model.Reminder, 0, len(doc.Reminders)),
		LastUpdated: fromMillis(doc.LastUpdated),
	}
	for _, w := range doc.Reminders {
		c.Records = append(c.Records, model.Reminder{
			ID:          w.ID,
			Title:       w.Title,
			Description: w.Description,
			CreatedAt:   fromMillis(w.CreatedAt),
			IsCompleted: w.IsCompleted,
		})
	}
	return c, nil
}

// EncodeSavedItems serializes the collection, restamping lastUpdated to now.
// Absent url/fileData become explicit nulls.
func EncodeSavedItems(c *model.Collection[model.SavedItem]) ([]byte, error) {
	doc := wireSavedItemsDoc{
		UserID:      c.UserID,
		Items:       make([]wireSavedItem, 0, len(c.Records)),
		LastUpdated: toMillis(time.Now()),
	}
	for _, it := range c.Records {
		w := wireSavedItem{
			ID:           it.ID,
			Title:        it.Title,
			Content:      it.Content,
			Type:         string(it.Type),
			CreatedAt:    toMillis(it.CreatedAt),
			LastModified: toMillis(it.LastModified),
			IsFavorite:   it.IsFavorite,
		}
		if it.URL != "" {
			u := it.URL
			w.URL = &u
		}
		if it.File != nil {
			w.FileData = &wireFileData{
				URL:          it.File.URL,
				PublicID:     it.File.PublicID,
				FileName:     it.File.FileName,
				FileSize:     it.File.FileSize,
				FileType:     it.File.FileType,
				ResourceType: string(it.File.ResourceType),
			}
		}
		doc.Items = append(doc.Items, w)
	}
	return json.Marshal(doc)
}

// DecodeSavedItems parses a stored document; null optional fields come back
// as absent in memory.
func DecodeSavedItems(raw []byte) (*model.Collection[model.SavedItem], error) {
	var doc wireSavedItemsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	c := &model.Collection[model.SavedItem]{
		UserID:      doc.UserID,
		Records:     make([]model.SavedItem, 0, len(doc.Items)),
		LastUpdated: fromMillis(doc.LastUpdated),
	}
	for _, w := range doc.Items {
		it := model.SavedItem{
			ID:           w.ID,
			Title:        w.Title,
			Content:      w.Content,
			Type:         model.ItemType(w.Type),
			CreatedAt:    fromMillis(w.CreatedAt),
			LastModified: fromMillis(w.LastModified),
			IsFavorite:   w.IsFavorite,
		}
		if w.URL != nil {
			it.URL = *w.URL
		}
		if w.FileData != nil {
			it.File = &model.FileData{
				URL:          w.FileData.URL,
				PublicID:     w.FileData.PublicID,
				FileName:     w.FileData.FileName,
				FileSize:     w.FileData.FileSize,
				FileType:     w.FileData.FileType,
				ResourceType: model.ResourceType(w.FileData.ResourceType),
			}
		}
		c.Records = append(c.Records, it)
	}
	return c, nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

// fromMillis tolerates documents written without a timestamp by substituting
// the current time instead of failing.
func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Now()
	}
	return time.UnixMilli(ms)
}
