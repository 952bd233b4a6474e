package middleware

import (
	"net/http"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// Gin context keys set by Auth.
const (
	UserIDKey   = "userID"
	IdentityKey = "identity"
)

type TokenVerifier interface {
	Verify(raw string) (*domain.Identity, error)
}

type TokenReader interface {
	Token(r *http.Request) (string, bool)
}

// Auth reads the session cookie, verifies the token and attaches the identity
// to the request context and to the gin context under "userID" and "identity".
// It never touches the database.
func Auth(tokens TokenVerifier, sessions TokenReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := sessions.Token(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		id, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Request = c.Request.WithContext(reqctx.WithIdentity(c.Request.Context(), id))
		c.Set(UserIDKey, id.UserID)
		c.Set(IdentityKey, id)
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by Auth.
func CurrentIdentity(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*domain.Identity)
	return id, ok && id != nil
}
