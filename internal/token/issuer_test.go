package token_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
	"github.com/ErlanBelekov/blog-platform/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "token-test-secret-at-least-32-chars!"

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newIssuer(c *clock) *token.Issuer {
	return token.NewIssuer([]byte(testKey), token.DefaultTTL, token.WithClock(c.Now))
}

var alice = domain.Identity{UserID: 1, Email: "alice@example.com"}

func TestIssue_CompactThreeSegments(t *testing.T) {
	signed, err := newIssuer(&clock{now: t0}).Issue(alice)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	for _, p := range parts {
		_, err := base64.RawURLEncoding.DecodeString(p)
		assert.NoError(t, err, "segment %q is not base64url", p)
	}
}

func TestIssue_ClaimsCarrySubjectEmailAndTimestamps(t *testing.T) {
	signed, err := newIssuer(&clock{now: t0}).Issue(alice)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(signed, claims)
	require.NoError(t, err)

	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, alice.Email, claims["email"])
	assert.EqualValues(t, t0.Unix(), claims["iat"])
	assert.EqualValues(t, t0.Add(24*time.Hour).Unix(), claims["exp"])
}

func TestIssue_RejectsMissingUserID(t *testing.T) {
	_, err := newIssuer(&clock{now: t0}).Issue(domain.Identity{Email: "x@example.com"})
	assert.Error(t, err)
}

func TestVerify_FreshTokenYieldsSubject(t *testing.T) {
	c := &clock{now: t0}
	iss := newIssuer(c)
	signed, err := iss.Issue(alice)
	require.NoError(t, err)

	id, err := iss.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.UserID)
	assert.Equal(t, alice.Email, id.Email)
	assert.True(t, id.ExpiresAt.Equal(t0.Add(token.DefaultTTL)), "exp = %v", id.ExpiresAt)
}

func TestVerify_Expiry(t *testing.T) {
	c := &clock{now: t0}
	iss := newIssuer(c)
	signed, err := iss.Issue(alice)
	require.NoError(t, err)

	t.Run("one second before exp is valid", func(t *testing.T) {
		c.now = t0.Add(token.DefaultTTL - time.Second)
		_, err := iss.Verify(signed)
		assert.NoError(t, err)
	})

	t.Run("exactly at exp is rejected", func(t *testing.T) {
		c.now = t0.Add(token.DefaultTTL)
		_, err := iss.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("after exp is rejected", func(t *testing.T) {
		c.now = t0.Add(token.DefaultTTL + time.Hour)
		_, err := iss.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestVerify_DifferentSecretFails(t *testing.T) {
	c := &clock{now: t0}
	other := token.NewIssuer([]byte("another-secret-that-is-32-chars-long"), token.DefaultTTL, token.WithClock(c.Now))
	signed, err := other.Issue(alice)
	require.NoError(t, err)

	_, err = newIssuer(c).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_SingleMutatedCharacterFails(t *testing.T) {
	c := &clock{now: t0}
	iss := newIssuer(c)
	signed, err := iss.Issue(alice)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	for seg := range parts {
		mutated := make([]string, len(parts))
		copy(mutated, parts)

		b := []byte(mutated[seg])
		mid := len(b) / 2
		if b[mid] == 'A' {
			b[mid] = 'B'
		} else {
			b[mid] = 'A'
		}
		mutated[seg] = string(b)

		_, err := iss.Verify(strings.Join(mutated, "."))
		assert.ErrorIs(t, err, domain.ErrTokenInvalid, "segment %d", seg)
	}
}

func TestVerify_MalformedInputs(t *testing.T) {
	iss := newIssuer(&clock{now: t0})
	for _, raw := range []string{"", "not.a.jwt", "onlyonesegment", "a.b"} {
		_, err := iss.Verify(raw)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid, "input %q", raw)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": t0.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newIssuer(&clock{now: t0}).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_RejectsNonNumericSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-abc",
		"iat": t0.Unix(),
		"exp": t0.Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = newIssuer(&clock{now: t0}).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_RejectsMissingExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	signed, err := tok.SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = newIssuer(&clock{now: t0}).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
