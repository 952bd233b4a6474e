// Package media stores blog images in S3-compatible object storage.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/metrics"
	"github.com/google/uuid"
)

const keyPrefix = "blog-images/"

// Uploader is the image-hosting side effect used by the blog usecase.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
	Remove(ctx context.Context, url string) error
}

// ObjectUploader validates images and writes them to an ObjectStore under
// blog-images/<uuid><ext>. Returned URLs are baseURL/bucket/key.
type ObjectUploader struct {
	store   ObjectStore
	baseURL string
	logger  *slog.Logger
}

func NewObjectUploader(store ObjectStore, baseURL string, logger *slog.Logger) *ObjectUploader {
	return &ObjectUploader{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "media"),
	}
}

func (u *ObjectUploader) Upload(ctx context.Context, img Image) (string, error) {
	contentType, ext, err := img.Validate()
	if err != nil {
		metrics.ImagesUploadedTotal.WithLabelValues("rejected").Inc()
		return "", err
	}

	key := keyPrefix + uuid.NewString() + ext
	if err := u.store.Put(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), contentType); err != nil {
		metrics.ImagesUploadedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("put object: %w", err)
	}
	metrics.ImagesUploadedTotal.WithLabelValues("ok").Inc()

	return u.urlFor(key), nil
}

// Remove deletes the object behind url. URLs not produced by this uploader are ignored.
func (u *ObjectUploader) Remove(ctx context.Context, url string) error {
	prefix := u.urlFor("")
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || !strings.HasPrefix(key, keyPrefix) {
		u.logger.DebugContext(ctx, "skip removing foreign image", "url", url)
		return nil
	}
	if err := u.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (u *ObjectUploader) urlFor(key string) string {
	return u.baseURL + "/" + u.store.Bucket() + "/" + key
}

// DisabledUploader is used when no object store is configured.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, Image) (string, error) {
	return "", domain.ErrImageUploadsDenied
}

func (DisabledUploader) Remove(context.Context, string) error {
	return nil
}

// PublicBaseURL derives the URL prefix for stored objects from the endpoint
// when no explicit public URL is configured.
func PublicBaseURL(publicURL, endpoint string, useSSL bool) string {
	if publicURL != "" {
		return publicURL
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
