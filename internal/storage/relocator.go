package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"tubely/internal/domain"
	"tubely/internal/logger"
	"tubely/internal/port"
)

// Relocator uploads local files to a single bucket.
type Relocator struct {
	fs     afero.Fs
	store  port.ObjectStorage
	bucket string
	log    zerolog.Logger
}

// NewRelocator creates a Relocator that reads local files from fs and writes
// them to bucket.
func NewRelocator(fs afero.Fs, store port.ObjectStorage, bucket string) *Relocator {
	return &Relocator{
		fs:     fs,
		store:  store,
		bucket: bucket,
		log:    logger.Component("relocator"),
	}
}

// Upload streams localPath to key and returns the storage reference.
func (r *Relocator) Upload(ctx context.Context, localPath, key, contentType string) (string, error) {
	f, err := r.fs.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", domain.ErrStorageIO, localPath, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", domain.ErrStorageIO, localPath, err)
	}

	start := time.Now()
	out, err := r.store.Upload(ctx, port.UploadInput{
		Bucket:      r.bucket,
		Key:         key,
		Body:        f,
		ContentType: contentType,
		Size:        info.Size(),
	})
	if err != nil {
		r.log.Error().Str("key", key).Err(err).Msg("relocator.Upload: upload failed")
		return "", fmt.Errorf("%w: %v", domain.ErrRelocationFailed, err)
	}

	r.log.Info().
		Str("key", key).
		Str("location", out.Location).
		Int64("bytes", info.Size()).
		Dur("elapsed", time.Since(start)).
		Msg("relocator.Upload: object stored")
	return domain.NewStorageRef(r.bucket, key), nil
}

// Presign returns a URL granting read access to ref for ttl.
func (r *Relocator) Presign(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	bucket, key, err := domain.ParseStorageRef(ref)
	if err != nil {
		return "", err
	}
	return r.store.GetPresignedURL(ctx, bucket, key, ttl)
}

// Remove deletes the object behind ref.
func (r *Relocator) Remove(ctx context.Context, ref string) error {
	bucket, key, err := domain.ParseStorageRef(ref)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, bucket, key); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRelocationFailed, err)
	}
	return nil
}
