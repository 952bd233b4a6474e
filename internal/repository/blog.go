package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
)

type ListBlogsInput struct {
	Status     domain.BlogStatus // empty = all statuses
	AuthorID   int64             // 0 = all authors
	CursorTime *time.Time        // nil = first page
	CursorID   int64             // used only when CursorTime is non-nil
	Limit      int
}

// UpdateBlogInput carries only the fields being changed; nil means unchanged.
type UpdateBlogInput struct {
	Title    *string
	Content  *string
	Status   *domain.BlogStatus
	ImageURL *string
}

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	GetByID(ctx context.Context, id int64) (*domain.Blog, error)
	List(ctx context.Context, input ListBlogsInput) ([]*domain.Blog, error)
	Update(ctx context.Context, id int64, input UpdateBlogInput) (*domain.Blog, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[domain.BlogStatus]int, error)
}
