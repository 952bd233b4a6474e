package domain

import (
	"errors"
	"time"
)

var (
	ErrBlogNotFound       = errors.New("blog not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrInvalidBlogStatus  = errors.New("invalid blog status")
	ErrInvalidImage       = errors.New("only jpg, jpeg, png and gif images are allowed")
	ErrImageTooLarge      = errors.New("image must be less than 5MB")
	ErrImageUploadsDenied = errors.New("image uploads are not configured")
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "DRAFT"
	BlogStatusPublished BlogStatus = "PUBLISHED"
)

func (s BlogStatus) Valid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

type Blog struct {
	ID       int64
	Title    string
	Content  string
	Status   BlogStatus
	ImageURL *string // nil when the post has no image
	AuthorID int64

	// AuthorEmail is populated by read queries that join users.
	AuthorEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}
