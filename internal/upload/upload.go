// Package upload stores user file attachments in an object store and hands
// back the metadata a saved item embeds.
package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// MaxFileSize is the hard cap on a single attachment. Oversized payloads are
// rejected before any network call is made.
const MaxFileSize = 10 << 20

// Uploader pushes one attachment to durable storage.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (model.FileData, error)
}

// Disabled is the uploader used when no object store is configured. Every
// upload fails with a clear message; text and link items are unaffected.
type Disabled struct{}

var _ Uploader = Disabled{}

func (Disabled) Upload(context.Context, string, string, []byte) (model.FileData, error) {
	return model.FileData{}, fmt.Errorf("file storage is not configured (set an s3 bucket)")
}

func checkSize(fileName string, size int) error {
	if size > MaxFileSize {
		return fmt.Errorf("%s is %d bytes, limit is %d: %w", fileName, size, MaxFileSize, errs.ErrFileTooBig)
	}
	return nil
}

func resourceTypeFor(contentType string) model.ResourceType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.ResourceImage
	case strings.HasPrefix(contentType, "video/"):
		return model.ResourceVideo
	default:
		return model.ResourceRaw
	}
}
