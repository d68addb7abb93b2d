package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// S3Config holds the connection parameters for an S3-compatible backend
// (AWS S3 or MinIO).
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; if set enables a custom endpoint (e.g. MinIO)
	AccessKey string // optional, falls back to the default credentials chain
	SecretKey string
	PathStyle bool
}

// objectPutter is the slice of the s3.Client surface the uploader uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader implements Uploader on top of an S3 bucket.
type S3Uploader struct {
	client   objectPutter
	bucket   string
	region   string
	endpoint string
	pathURL  bool
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3 builds an uploader from config.
func NewS3(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Uploader{
		client:   client,
		bucket:   cfg.Bucket,
		region:   region,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		pathURL:  cfg.PathStyle || cfg.Endpoint != "",
	}, nil
}

// Upload writes the payload under a fresh date-sharded key and returns the
// attachment metadata.
func (u *S3Uploader) Upload(ctx context.Context, fileName, contentType string, data []byte) (model.FileData, error) {
	if err := checkSize(fileName, len(data)); err != nil {
		return model.FileData{}, err
	}

	key := storageKey(time.Now())
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return model.FileData{}, fmt.Errorf("uploading %s: %w", fileName, err)
	}

	return model.FileData{
		URL:          u.objectURL(key),
		PublicID:     key,
		FileName:     fileName,
		FileSize:     int64(len(data)),
		FileType:     contentType,
		ResourceType: resourceTypeFor(contentType),
	}, nil
}

func storageKey(now time.Time) string {
	return fmt.Sprintf("users/%d/%d/%d/%s", now.Year(), int(now.Month()), now.Day(), model.NewID())
}

func (u *S3Uploader) objectURL(key string) string {
	if u.pathURL {
		base := u.endpoint
		if base == "" {
			base = fmt.Sprintf("https://s3.%s.amazonaws.com", u.region)
		}
		return base + "/" + path.Join(u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
