// Package reqctx stores per-request values (request ID, authenticated identity) on a context.Context.
package reqctx

import (
	"context"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/google/uuid"
)

type requestIDKey struct{}

type identityKey struct{}

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" if absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Identity returns the identity attached by the access guard, or nil.
func Identity(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityKey{}).(*domain.Identity)
	return id
}
