package port

import (
	"context"
	"io"
	"time"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Relocator moves processed files into durable storage and hands out
// time-limited links to them. References are the values persisted on
// domain.Video.
type Relocator interface {
	Upload(ctx context.Context, localPath, key, contentType string) (ref string, err error)
	Presign(ctx context.Context, ref string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, ref string) error
}
