package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/media"
	"github.com/ErlanBelekov/blog-platform/internal/usecase"
	"github.com/gin-gonic/gin"
)

const imageField = "image"

type blogUsecaser interface {
	Create(ctx context.Context, input usecase.CreateBlogInput) (*domain.Blog, error)
	GetByID(ctx context.Context, id int64) (*domain.Blog, error)
	List(ctx context.Context, input usecase.ListBlogsInput) (usecase.ListBlogsResult, error)
	Update(ctx context.Context, input usecase.UpdateBlogInput) (*domain.Blog, error)
	Delete(ctx context.Context, id, userID int64) error
}

type BlogHandler struct {
	uc     blogUsecaser
	logger *slog.Logger
}

func NewBlogHandler(uc blogUsecaser, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{uc: uc, logger: logger.With("component", "blog_handler")}
}

// Create and update accept either JSON or multipart/form-data with an optional "image" file.
type createBlogRequest struct {
	Title   string            `json:"title"   form:"title"   binding:"required,max=200"`
	Content string            `json:"content" form:"content" binding:"required"`
	Status  domain.BlogStatus `json:"status"  form:"status"  binding:"omitempty,oneof=DRAFT PUBLISHED"`
}

type updateBlogRequest struct {
	Title   *string            `json:"title"   form:"title"   binding:"omitempty,min=1,max=200"`
	Content *string            `json:"content" form:"content" binding:"omitempty,min=1"`
	Status  *domain.BlogStatus `json:"status"  form:"status"  binding:"omitempty,oneof=DRAFT PUBLISHED"`
}

type listBlogsQuery struct {
	Status   domain.BlogStatus `form:"status"    binding:"omitempty,oneof=DRAFT PUBLISHED"`
	AuthorID int64             `form:"author_id" binding:"omitempty,min=1"`
	Cursor   string            `form:"cursor"`
	Limit    int               `form:"limit"     binding:"omitempty,min=1"`
}

type authorResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
}

type blogResponse struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Status    domain.BlogStatus `json:"status"`
	ImageURL  *string           `json:"image_url"`
	Author    authorResponse    `json:"author"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type listBlogsResponse struct {
	Blogs      []blogResponse `json:"blogs"`
	NextCursor *string        `json:"next_cursor"`
}

func toBlogResponse(b *domain.Blog) blogResponse {
	return blogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Status:    b.Status,
		ImageURL:  b.ImageURL,
		Author:    authorResponse{ID: b.AuthorID, Email: b.AuthorEmail},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// GET /blogs
func (h *BlogHandler) List(ctx *gin.Context) {
	var q listBlogsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.uc.List(ctx.Request.Context(), usecase.ListBlogsInput{
		Status:   q.Status,
		AuthorID: q.AuthorID,
		Cursor:   q.Cursor,
		Limit:    q.Limit,
	})
	if err != nil {
		h.writeError(ctx, "list blogs", err)
		return
	}

	items := make([]blogResponse, len(result.Blogs))
	for i, b := range result.Blogs {
		items[i] = toBlogResponse(b)
	}
	respond(ctx, http.StatusOK, listBlogsResponse{Blogs: items, NextCursor: result.NextCursor})
}

// GET /blogs/:id
func (h *BlogHandler) GetByID(ctx *gin.Context) {
	id, ok := blogID(ctx)
	if !ok {
		return
	}

	blog, err := h.uc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, "get blog", err, "blog_id", id)
		return
	}
	respond(ctx, http.StatusOK, toBlogResponse(blog))
}

// POST /blogs (guarded)
func (h *BlogHandler) Create(ctx *gin.Context) {
	var req createBlogRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := readImage(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blog, err := h.uc.Create(ctx.Request.Context(), usecase.CreateBlogInput{
		AuthorID: ctx.GetInt64("userID"),
		Title:    req.Title,
		Content:  req.Content,
		Status:   req.Status,
		Image:    img,
	})
	if err != nil {
		h.writeError(ctx, "create blog", err)
		return
	}
	respond(ctx, http.StatusCreated, toBlogResponse(blog))
}

// PUT /blogs/:id (guarded)
func (h *BlogHandler) Update(ctx *gin.Context) {
	id, ok := blogID(ctx)
	if !ok {
		return
	}

	var req updateBlogRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := readImage(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blog, err := h.uc.Update(ctx.Request.Context(), usecase.UpdateBlogInput{
		ID:      id,
		UserID:  ctx.GetInt64("userID"),
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
		Image:   img,
	})
	if err != nil {
		h.writeError(ctx, "update blog", err, "blog_id", id)
		return
	}
	respond(ctx, http.StatusOK, toBlogResponse(blog))
}

// DELETE /blogs/:id (guarded)
func (h *BlogHandler) Delete(ctx *gin.Context) {
	id, ok := blogID(ctx)
	if !ok {
		return
	}

	if err := h.uc.Delete(ctx.Request.Context(), id, ctx.GetInt64("userID")); err != nil {
		h.writeError(ctx, "delete blog", err, "blog_id", id)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *BlogHandler) writeError(ctx *gin.Context, op string, err error, attrs ...any) {
	switch {
	case errors.Is(err, domain.ErrBlogNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errBlogNotFound})
	case errors.Is(err, domain.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
	case errors.Is(err, domain.ErrInvalidCursor):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCursor})
	case errors.Is(err, domain.ErrInvalidBlogStatus):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidBlogStatus.Error()})
	case errors.Is(err, domain.ErrInvalidImage):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidImage.Error()})
	case errors.Is(err, domain.ErrImageTooLarge):
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": domain.ErrImageTooLarge.Error()})
	case errors.Is(err, domain.ErrImageUploadsDenied):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": errUploadsDisabled})
	default:
		h.logger.ErrorContext(ctx.Request.Context(), op, append(attrs, "error", err)...)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

func blogID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBlogID})
		return 0, false
	}
	return id, true
}

// readImage returns the uploaded "image" file, or nil when the request is not
// multipart or carries no file. At most MaxImageSize+1 bytes are read so an
// oversized file is still reported as too large.
func readImage(ctx *gin.Context) (*media.Image, error) {
	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return nil, nil
	}

	fh, err := ctx.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read image: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &media.Image{Filename: fh.Filename, Data: data}, nil
}
