package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

type fakePutter struct {
	calls []s3.PutObjectInput
	err   error
}

var _ objectPutter = (*fakePutter)(nil)

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls = append(f.calls, *in)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func testUploader(p *fakePutter) *S3Uploader {
	return &S3Uploader{client: p, bucket: "lembretes", region: "us-east-1"}
}

func TestS3Uploader_Upload(t *testing.T) {
	p := &fakePutter{}
	u := testUploader(p)

	fd, err := u.Upload(context.Background(), "vacation.jpg", "image/jpeg", []byte("jpegbytes"))
	require.NoError(t, err)
	require.Len(t, p.calls, 1)

	in := p.calls[0]
	assert.Equal(t, "lembretes", *in.Bucket)
	assert.Equal(t, "image/jpeg", *in.ContentType)
	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), body)

	assert.Equal(t, "vacation.jpg", fd.FileName)
	assert.Equal(t, int64(9), fd.FileSize)
	assert.Equal(t, "image/jpeg", fd.FileType)
	assert.Equal(t, model.ResourceImage, fd.ResourceType)
	assert.Equal(t, *in.Key, fd.PublicID)
	assert.Equal(t, "https://lembretes.s3.us-east-1.amazonaws.com/"+fd.PublicID, fd.URL)
}

func TestS3Uploader_OversizedRejectedBeforeNetwork(t *testing.T) {
	p := &fakePutter{}
	u := testUploader(p)

	_, err := u.Upload(context.Background(), "dump.bin", "application/octet-stream", make([]byte, MaxFileSize+1))
	require.ErrorIs(t, err, errs.ErrFileTooBig)
	require.Empty(t, p.calls, "oversized payloads must never hit the wire")
}

func TestS3Uploader_ExactLimitAllowed(t *testing.T) {
	p := &fakePutter{}
	u := testUploader(p)

	_, err := u.Upload(context.Background(), "dump.bin", "application/octet-stream", make([]byte, MaxFileSize))
	require.NoError(t, err)
	require.Len(t, p.calls, 1)
}

func TestS3Uploader_PutErrorPropagates(t *testing.T) {
	p := &fakePutter{err: errors.New("access denied")}
	u := testUploader(p)

	_, err := u.Upload(context.Background(), "a.txt", "text/plain", []byte("x"))
	require.ErrorContains(t, err, "access denied")
}

func TestResourceTypeFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        model.ResourceType
	}{
		{"image/png", model.ResourceImage},
		{"image/jpeg", model.ResourceImage},
		{"video/mp4", model.ResourceVideo},
		{"application/pdf", model.ResourceRaw},
		{"text/plain", model.ResourceRaw},
		{"", model.ResourceRaw},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resourceTypeFor(tt.contentType), tt.contentType)
	}
}

func TestStorageKeyShape(t *testing.T) {
	key := storageKey(time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^users/2026/3/7/[0-9a-f-]{36}$`), key)
}

func TestObjectURL_PathStyleEndpoint(t *testing.T) {
	u := &S3Uploader{bucket: "lembretes", region: "us-east-1", endpoint: "http://localhost:9000", pathURL: true}
	assert.Equal(t, "http://localhost:9000/lembretes/users/1/2/3/k", u.objectURL("users/1/2/3/k"))
}

func TestUpload_BodyIsReadable(t *testing.T) {
	// PutObjectInput.Body must be a fresh reader per call.
	p := &fakePutter{}
	u := testUploader(p)
	payload := bytes.Repeat([]byte("ab"), 16)
	_, err := u.Upload(context.Background(), "x.bin", "application/octet-stream", payload)
	require.NoError(t, err)
	got, _ := io.ReadAll(p.calls[0].Body)
	assert.Len(t, got, 32)
}
