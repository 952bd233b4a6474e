package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/repository"
	"github.com/jackc/pgx/v5"
)

type BlogRepository struct {
	db DBTX
}

func NewBlogRepository(db DBTX) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `b.id, b.title, b.content, b.status, b.image_url, b.author_id, u.email, b.created_at, b.updated_at`

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	query := `
		WITH b AS (
			INSERT INTO blogs (title, content, status, image_url, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + blogColumns + `
		FROM b JOIN users u ON u.id = b.author_id`

	row := r.db.QueryRow(ctx, query,
		blog.Title,
		blog.Content,
		string(blog.Status),
		blog.ImageURL,
		blog.AuthorID,
	)
	return scanBlog(row)
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs b JOIN users u ON u.id = b.author_id
		WHERE b.id = $1`

	return scanBlog(r.db.QueryRow(ctx, query, id))
}

func (r *BlogRepository) List(ctx context.Context, input repository.ListBlogsInput) ([]*domain.Blog, error) {
	var args []any
	where := []string{"TRUE"}

	if input.Status != "" {
		args = append(args, string(input.Status))
		where = append(where, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if input.AuthorID != 0 {
		args = append(args, input.AuthorID)
		where = append(where, fmt.Sprintf("b.author_id = $%d", len(args)))
	}
	if input.CursorTime != nil {
		args = append(args, *input.CursorTime, input.CursorID)
		where = append(where, fmt.Sprintf("(b.created_at, b.id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, input.Limit)

	query := fmt.Sprintf(`
		SELECT `+blogColumns+`
		FROM blogs b JOIN users u ON u.id = b.author_id
		WHERE %s
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $%d`,
		strings.Join(where, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]*domain.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blogs: %w", err)
	}
	return blogs, nil
}

// Update applies the non-nil fields of input and bumps updated_at.
func (r *BlogRepository) Update(ctx context.Context, id int64, input repository.UpdateBlogInput) (*domain.Blog, error) {
	var status *string
	if input.Status != nil {
		s := string(*input.Status)
		status = &s
	}

	query := `
		WITH b AS (
			UPDATE blogs
			SET    title      = COALESCE($2, title),
			       content    = COALESCE($3, content),
			       status     = COALESCE($4, status),
			       image_url  = COALESCE($5, image_url),
			       updated_at = NOW()
			WHERE  id = $1
			RETURNING *
		)
		SELECT ` + blogColumns + `
		FROM b JOIN users u ON u.id = b.author_id`

	row := r.db.QueryRow(ctx, query, id, input.Title, input.Content, status, input.ImageURL)
	return scanBlog(row)
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepository) CountByStatus(ctx context.Context) (map[domain.BlogStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM blogs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count blogs: %w", err)
	}
	defer rows.Close()

	counts := map[domain.BlogStatus]int{
		domain.BlogStatusDraft:     0,
		domain.BlogStatusPublished: 0,
	}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan blog count: %w", err)
		}
		counts[domain.BlogStatus(status)] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blog counts: %w", err)
	}
	return counts, nil
}

func scanBlog(row rowScanner) (*domain.Blog, error) {
	var (
		b      domain.Blog
		status string
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Content, &status, &b.ImageURL,
		&b.AuthorID, &b.AuthorEmail, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}
	b.Status = domain.BlogStatus(status)
	return &b, nil
}
