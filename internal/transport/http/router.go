package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/blog-platform/internal/transport/http/handler"
	"github.com/ErlanBelekov/blog-platform/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// multipart bodies above this spill to disk; images are capped separately.
const maxMultipartMemory = 8 << 20

type RouterConfig struct {
	CORSOrigins []string
	HSTS        bool
}

func NewRouter(
	logger *slog.Logger,
	cfg RouterConfig,
	authHandler *handler.AuthHandler,
	blogHandler *handler.BlogHandler,
	tokens middleware.TokenVerifier,
	sessions middleware.TokenReader,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(cfg.HSTS))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens, sessions)

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/profile", authMW, authHandler.Profile)

	// Reads are public, writes need a session.
	blogs := r.Group("/blogs")
	blogs.GET("", blogHandler.List)
	blogs.GET("/:id", blogHandler.GetByID)
	blogs.POST("", authMW, blogHandler.Create)
	blogs.PUT("/:id", authMW, blogHandler.Update)
	blogs.DELETE("/:id", authMW, blogHandler.Delete)

	return r
}
