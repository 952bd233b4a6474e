package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/media"
	"github.com/ErlanBelekov/blog-platform/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type BlogUsecase struct {
	repo     repository.BlogRepository
	uploader media.Uploader
	logger   *slog.Logger
}

func NewBlogUsecase(repo repository.BlogRepository, uploader media.Uploader, logger *slog.Logger) *BlogUsecase {
	return &BlogUsecase{
		repo:     repo,
		uploader: uploader,
		logger:   logger.With("component", "blog_usecase"),
	}
}

type CreateBlogInput struct {
	AuthorID int64
	Title    string
	Content  string
	Status   domain.BlogStatus
	Image    *media.Image
}

func (u *BlogUsecase) Create(ctx context.Context, input CreateBlogInput) (*domain.Blog, error) {
	if input.Status == "" {
		input.Status = domain.BlogStatusDraft
	}
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidBlogStatus
	}

	blog := &domain.Blog{
		Title:    input.Title,
		Content:  input.Content,
		Status:   input.Status,
		AuthorID: input.AuthorID,
	}

	if input.Image != nil {
		url, err := u.uploader.Upload(ctx, *input.Image)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		blog.ImageURL = &url
	}

	created, err := u.repo.Create(ctx, blog)
	if err != nil {
		if blog.ImageURL != nil {
			u.removeImage(ctx, *blog.ImageURL)
		}
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return created, nil
}

func (u *BlogUsecase) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	blog, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return blog, nil
}

type ListBlogsInput struct {
	Status   domain.BlogStatus
	AuthorID int64
	Cursor   string
	Limit    int
}

type ListBlogsResult struct {
	Blogs      []*domain.Blog
	NextCursor *string
}

type blogCursor struct {
	CreatedAt time.Time `json:"c"`
	ID        int64     `json:"i"`
}

func decodeBlogCursor(s string) (*time.Time, int64, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, 0, fmt.Errorf("decode cursor: %w", err)
	}
	var c blogCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, 0, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.ID <= 0 || c.CreatedAt.IsZero() {
		return nil, 0, errors.New("incomplete cursor")
	}
	return &c.CreatedAt, c.ID, nil
}

func encodeBlogCursor(createdAt time.Time, id int64) string {
	b, _ := json.Marshal(blogCursor{CreatedAt: createdAt, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

// List returns posts newest first. NextCursor is nil on the last page.
func (u *BlogUsecase) List(ctx context.Context, input ListBlogsInput) (ListBlogsResult, error) {
	if input.Status != "" && !input.Status.Valid() {
		return ListBlogsResult{}, domain.ErrInvalidBlogStatus
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	repoInput := repository.ListBlogsInput{
		Status:   input.Status,
		AuthorID: input.AuthorID,
		Limit:    limit + 1,
	}

	if input.Cursor != "" {
		cursorTime, cursorID, err := decodeBlogCursor(input.Cursor)
		if err != nil {
			return ListBlogsResult{}, domain.ErrInvalidCursor
		}
		repoInput.CursorTime = cursorTime
		repoInput.CursorID = cursorID
	}

	blogs, err := u.repo.List(ctx, repoInput)
	if err != nil {
		return ListBlogsResult{}, fmt.Errorf("list blogs: %w", err)
	}

	var nextCursor *string
	if len(blogs) > limit {
		blogs = blogs[:limit]
		last := blogs[limit-1]
		s := encodeBlogCursor(last.CreatedAt, last.ID)
		nextCursor = &s
	}

	return ListBlogsResult{Blogs: blogs, NextCursor: nextCursor}, nil
}

type UpdateBlogInput struct {
	ID      int64
	UserID  int64
	Title   *string
	Content *string
	Status  *domain.BlogStatus
	Image   *media.Image
}

// Update changes the given fields of a post owned by input.UserID. A new image
// replaces the old one, which is then removed from storage.
func (u *BlogUsecase) Update(ctx context.Context, input UpdateBlogInput) (*domain.Blog, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, domain.ErrInvalidBlogStatus
	}

	existing, err := u.ownedBlog(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	repoInput := repository.UpdateBlogInput{
		Title:   input.Title,
		Content: input.Content,
		Status:  input.Status,
	}

	if input.Image != nil {
		url, err := u.uploader.Upload(ctx, *input.Image)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		repoInput.ImageURL = &url
	}

	updated, err := u.repo.Update(ctx, input.ID, repoInput)
	if err != nil {
		if repoInput.ImageURL != nil {
			u.removeImage(ctx, *repoInput.ImageURL)
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}

	if repoInput.ImageURL != nil && existing.ImageURL != nil {
		u.removeImage(ctx, *existing.ImageURL)
	}
	return updated, nil
}

func (u *BlogUsecase) Delete(ctx context.Context, id, userID int64) error {
	existing, err := u.ownedBlog(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	if existing.ImageURL != nil {
		u.removeImage(ctx, *existing.ImageURL)
	}
	return nil
}

func (u *BlogUsecase) ownedBlog(ctx context.Context, id, userID int64) (*domain.Blog, error) {
	blog, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	if blog.AuthorID != userID {
		return nil, domain.ErrForbidden
	}
	return blog, nil
}

func (u *BlogUsecase) removeImage(ctx context.Context, url string) {
	if err := u.uploader.Remove(ctx, url); err != nil {
		u.logger.WarnContext(ctx, "remove image", "url", url, "error", err)
	}
}
