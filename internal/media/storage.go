package media

import (
	"context"
	"io"
)

// ObjectStore is the subset of an S3-compatible backend the uploader needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}
