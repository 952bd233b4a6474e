// Package token issues and verifies the signed session tokens carried in the auth cookie.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 24 * time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens with a secret fixed at construction. Rotating the
// secret invalidates every outstanding token.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type Option func(*Issuer)

// WithClock overrides the time source used for iat/exp and validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(key []byte, ttl time.Duration, opts ...Option) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a compact JWS carrying sub, email, iat and exp = iat + TTL.
func (i *Issuer) Issue(id domain.Identity) (string, error) {
	if id.UserID <= 0 {
		return "", errors.New("issue token: missing user id")
	}

	now := i.now()
	c := claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the asserted identity.
// Any failure yields domain.ErrTokenInvalid. A token is rejected from its exp instant onward.
func (i *Issuer) Verify(raw string) (*domain.Identity, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, domain.ErrTokenInvalid
	}

	id := &domain.Identity{UserID: userID, Email: c.Email}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	id.ExpiresAt = c.ExpiresAt.Time
	return id, nil
}
