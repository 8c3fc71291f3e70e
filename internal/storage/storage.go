package storage

import (
	"context"
	"io"
	"time"
)

// Service stores court images in remote object storage.
type Service interface {
	// UploadObject writes body under key and returns the object's location.
	UploadObject(ctx context.Context, bucket, key string, body io.Reader) (string, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}
