package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, email, password string) (*domain.UserProfile, error)
	Authenticate(ctx context.Context, email, password string) (string, *domain.UserProfile, error)
	Profile(ctx context.Context, userID int64) (*domain.UserProfile, error)
}

type sessionWriter interface {
	Attach(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

type AuthHandler struct {
	authUsecase authUsecaser
	sessions    sessionWriter
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, sessions sessionWriter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		sessions:    sessions,
		logger:      logger.With("component", "auth_handler"),
	}
}

// max=72 counts runes; Register also enforces domain.MaxPasswordBytes.
type credentialsRequest struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(p *domain.UserProfile) userResponse {
	return userResponse{ID: p.ID, Email: p.Email, CreatedAt: p.CreatedAt}
}

// POST /auth/register
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Password) > domain.MaxPasswordBytes {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errPasswordTooLong})
		return
	}

	user, err := h.authUsecase.Register(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			ctx.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		case errors.Is(err, domain.ErrPasswordTooLong):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": errPasswordTooLong})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "register", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	ctx.JSON(http.StatusCreated, toUserResponse(user))
}

// POST /auth/login
// Unknown email and wrong password get the same 401.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authUsecase.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "login", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	h.sessions.Attach(ctx.Writer, token)
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"user":    toUserResponse(user),
	})
}

// POST /auth/logout
// Always succeeds, with or without a session.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.sessions.Clear(ctx.Writer)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /auth/profile (guarded)
func (h *AuthHandler) Profile(ctx *gin.Context) {
	user, err := h.authUsecase.Profile(ctx.Request.Context(), ctx.GetInt64("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "profile", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}
