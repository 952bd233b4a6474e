package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// MaxPasswordBytes is the bcrypt input limit. It counts bytes, not characters.
const MaxPasswordBytes = 72

// User is the persisted account. PasswordHash never leaves the usecase layer.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserProfile is the sanitized projection of a User.
type UserProfile struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Identity is what a session token asserts about its bearer.
type Identity struct {
	UserID    int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
