package reqctx_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/reqctx"
	"github.com/google/uuid"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	if got := reqctx.RequestID(ctx); got != "req-1" {
		t.Errorf("RequestID = %q, want req-1", got)
	}
	if got := reqctx.RequestID(context.Background()); got != "" {
		t.Errorf("RequestID on empty ctx = %q, want empty", got)
	}
}

func TestNewRequestID_IsUUID(t *testing.T) {
	if _, err := uuid.Parse(reqctx.NewRequestID()); err != nil {
		t.Errorf("not a uuid: %v", err)
	}
}

func TestIdentity_RoundTrip(t *testing.T) {
	if reqctx.Identity(context.Background()) != nil {
		t.Fatal("expected nil identity on empty ctx")
	}
	id := &domain.Identity{UserID: 7, Email: "a@example.com"}
	ctx := reqctx.WithIdentity(context.Background(), id)
	if got := reqctx.Identity(ctx); got != id {
		t.Errorf("Identity = %v, want %v", got, id)
	}
}
