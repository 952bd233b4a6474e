package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/transport/http/handler"
	"github.com/ErlanBelekov/blog-platform/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fakeBlogUsecase struct {
	create  func(ctx context.Context, input usecase.CreateBlogInput) (*domain.Blog, error)
	getByID func(ctx context.Context, id int64) (*domain.Blog, error)
	list    func(ctx context.Context, input usecase.ListBlogsInput) (usecase.ListBlogsResult, error)
	update  func(ctx context.Context, input usecase.UpdateBlogInput) (*domain.Blog, error)
	del     func(ctx context.Context, id, userID int64) error
}

func (f *fakeBlogUsecase) Create(ctx context.Context, input usecase.CreateBlogInput) (*domain.Blog, error) {
	return f.create(ctx, input)
}

func (f *fakeBlogUsecase) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	return f.getByID(ctx, id)
}

func (f *fakeBlogUsecase) List(ctx context.Context, input usecase.ListBlogsInput) (usecase.ListBlogsResult, error) {
	return f.list(ctx, input)
}

func (f *fakeBlogUsecase) Update(ctx context.Context, input usecase.UpdateBlogInput) (*domain.Blog, error) {
	return f.update(ctx, input)
}

func (f *fakeBlogUsecase) Delete(ctx context.Context, id, userID int64) error {
	return f.del(ctx, id, userID)
}

const testUserID int64 = 7

func newBlogEngine(uc *fakeBlogUsecase) *gin.Engine {
	h := handler.NewBlogHandler(uc, discardLogger())

	asUser := func(c *gin.Context) {
		c.Set("userID", testUserID)
		c.Next()
	}

	r := gin.New()
	r.GET("/blogs", h.List)
	r.GET("/blogs/:id", h.GetByID)
	r.POST("/blogs", asUser, h.Create)
	r.PUT("/blogs/:id", asUser, h.Update)
	r.DELETE("/blogs/:id", asUser, h.Delete)
	return r
}

func sampleBlog() *domain.Blog {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Blog{
		ID: 3, Title: "Hello", Content: "World", Status: domain.BlogStatusDraft,
		AuthorID: testUserID, AuthorEmail: "alice@example.com", CreatedAt: ts, UpdatedAt: ts,
	}
}

type envelopeBody struct {
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Timestamp  time.Time `json:"timestamp"`
		Path       string    `json:"path"`
		StatusCode int       `json:"statusCode"`
	} `json:"metadata"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return env
}

// ---- Create ----

func TestCreateBlog_JSON_Returns201Envelope(t *testing.T) {
	uc := &fakeBlogUsecase{
		create: func(_ context.Context, in usecase.CreateBlogInput) (*domain.Blog, error) {
			if in.AuthorID != testUserID || in.Title != "Hello" || in.Image != nil {
				t.Errorf("input = %+v", in)
			}
			return sampleBlog(), nil
		},
	}
	w := postJSON(newBlogEngine(uc), "/blogs", `{"title":"Hello","content":"World"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Metadata.Path != "/blogs" || env.Metadata.StatusCode != http.StatusCreated || env.Metadata.Timestamp.IsZero() {
		t.Errorf("metadata = %+v", env.Metadata)
	}
	var data map[string]any
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data["title"] != "Hello" || data["status"] != "DRAFT" {
		t.Errorf("data = %v", data)
	}
}

func TestCreateBlog_Multipart_PassesImage(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Hello")
	_ = mw.WriteField("content", "World")
	_ = mw.WriteField("status", "PUBLISHED")
	fw, _ := mw.CreateFormFile("image", "cat.png")
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\nrest"))
	_ = mw.Close()

	uc := &fakeBlogUsecase{
		create: func(_ context.Context, in usecase.CreateBlogInput) (*domain.Blog, error) {
			if in.Image == nil || in.Image.Filename != "cat.png" || !bytes.HasPrefix(in.Image.Data, []byte("\x89PNG")) {
				t.Errorf("image = %+v", in.Image)
			}
			if in.Status != domain.BlogStatusPublished {
				t.Errorf("status = %q", in.Status)
			}
			return sampleBlog(), nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/blogs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	newBlogEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
}

func TestCreateBlog_Validation_Returns400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"content":"World"}`},
		{"missing content", `{"title":"Hello"}`},
		{"bad status", `{"title":"Hello","content":"World","status":"ARCHIVED"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(newBlogEngine(&fakeBlogUsecase{}), "/blogs", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateBlog_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid image", domain.ErrInvalidImage, http.StatusBadRequest},
		{"too large", domain.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{"uploads disabled", domain.ErrImageUploadsDenied, http.StatusServiceUnavailable},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeBlogUsecase{
				create: func(context.Context, usecase.CreateBlogInput) (*domain.Blog, error) { return nil, tt.err },
			}
			w := postJSON(newBlogEngine(uc), "/blogs", `{"title":"Hello","content":"World"}`)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// ---- Read ----

func TestGetBlog(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"found", "/blogs/3", nil, http.StatusOK},
		{"not found", "/blogs/99", domain.ErrBlogNotFound, http.StatusNotFound},
		{"bad id", "/blogs/abc", nil, http.StatusBadRequest},
		{"zero id", "/blogs/0", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeBlogUsecase{
				getByID: func(context.Context, int64) (*domain.Blog, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return sampleBlog(), nil
				},
			}
			w := httptest.NewRecorder()
			newBlogEngine(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestListBlogs_PassesQueryAndCursor(t *testing.T) {
	next := "abc"
	uc := &fakeBlogUsecase{
		list: func(_ context.Context, in usecase.ListBlogsInput) (usecase.ListBlogsResult, error) {
			if in.Status != domain.BlogStatusPublished || in.Cursor != "cur" || in.Limit != 5 || in.AuthorID != 2 {
				t.Errorf("input = %+v", in)
			}
			return usecase.ListBlogsResult{Blogs: []*domain.Blog{sampleBlog()}, NextCursor: &next}, nil
		},
	}
	w := httptest.NewRecorder()
	newBlogEngine(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs?status=PUBLISHED&cursor=cur&limit=5&author_id=2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var data struct {
		Blogs []struct {
			ID     int64 `json:"id"`
			Author struct {
				Email string `json:"email"`
			} `json:"author"`
		} `json:"blogs"`
		NextCursor *string `json:"next_cursor"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Blogs) != 1 || data.Blogs[0].Author.Email != "alice@example.com" {
		t.Errorf("blogs = %+v", data.Blogs)
	}
	if data.NextCursor == nil || *data.NextCursor != "abc" {
		t.Errorf("next_cursor = %v", data.NextCursor)
	}
}

func TestListBlogs_InvalidCursor_Returns400(t *testing.T) {
	uc := &fakeBlogUsecase{
		list: func(context.Context, usecase.ListBlogsInput) (usecase.ListBlogsResult, error) {
			return usecase.ListBlogsResult{}, domain.ErrInvalidCursor
		},
	}
	w := httptest.NewRecorder()
	newBlogEngine(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs?cursor=garbage", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---- Update / Delete ----

func TestUpdateBlog_PartialFields(t *testing.T) {
	uc := &fakeBlogUsecase{
		update: func(_ context.Context, in usecase.UpdateBlogInput) (*domain.Blog, error) {
			if in.ID != 3 || in.UserID != testUserID {
				t.Errorf("input = %+v", in)
			}
			if in.Title == nil || *in.Title != "New" {
				t.Errorf("title = %v", in.Title)
			}
			if in.Content != nil || in.Status != nil || in.Image != nil {
				t.Error("unset fields must be nil")
			}
			return sampleBlog(), nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/blogs/3", strings.NewReader(`{"title":"New"}`))
	req.Header.Set("Content-Type", "application/json")
	newBlogEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestUpdateBlog_Forbidden_Returns403(t *testing.T) {
	uc := &fakeBlogUsecase{
		update: func(context.Context, usecase.UpdateBlogInput) (*domain.Blog, error) {
			return nil, domain.ErrForbidden
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/blogs/3", strings.NewReader(`{"title":"New"}`))
	req.Header.Set("Content-Type", "application/json")
	newBlogEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestDeleteBlog(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not found", domain.ErrBlogNotFound, http.StatusNotFound},
		{"not owner", domain.ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeBlogUsecase{
				del: func(_ context.Context, id, userID int64) error {
					if id != 3 || userID != testUserID {
						t.Errorf("id=%d userID=%d", id, userID)
					}
					return tt.err
				},
			}
			w := httptest.NewRecorder()
			newBlogEngine(uc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/blogs/3", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
