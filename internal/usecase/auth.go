package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/email"
	"github.com/ErlanBelekov/blog-platform/internal/metrics"
	"github.com/ErlanBelekov/blog-platform/internal/repository"
)

// welcomeEmailTimeout caps how long Register waits on the mail provider.
const welcomeEmailTimeout = 5 * time.Second

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	email  email.Sender
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, emailSender email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
	}
}

// Register creates an account. An existing email fails with ErrEmailAlreadyExists
// before any hashing. The store's unique index settles concurrent duplicates.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, password string) (*domain.UserProfile, error) {
	_, err := u.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, domain.ErrEmailAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	digest, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
			return nil, domain.ErrPasswordTooLong
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, emailAddr, digest)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, domain.ErrEmailAlreadyExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()

	// Detached from request cancellation, bounded by welcomeEmailTimeout.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeEmailTimeout)
	defer cancel()
	subject, body := email.WelcomeMessage(user.Email)
	if err := u.email.Send(sendCtx, user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "user_id", user.ID, "error", err)
	}

	return user.Profile(), nil
}

// ValidateCredentials returns (nil, nil) when the email is unknown or the
// password does not match; callers cannot tell the two apart.
func (u *AuthUsecase) ValidateCredentials(ctx context.Context, emailAddr, password string) (*domain.UserProfile, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}
	return user.Profile(), nil
}

// Login issues a session token for an already-validated user. Attaching the
// token to the response is the transport's job.
func (u *AuthUsecase) Login(user *domain.UserProfile) (string, error) {
	signed, err := u.tokens.Issue(domain.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Authenticate validates credentials and logs the user in.
func (u *AuthUsecase) Authenticate(ctx context.Context, emailAddr, password string) (string, *domain.UserProfile, error) {
	user, err := u.ValidateCredentials(ctx, emailAddr, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", nil, err
	}
	if user == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, err := u.Login(user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return signed, user, nil
}

// Profile loads the current user. A token whose user no longer exists is unauthorized.
func (u *AuthUsecase) Profile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user.Profile(), nil
}
