// Package session carries the signed token between server and browser in an
// HTTP cookie. It never looks inside the token.
package session

import (
	"net/http"
	"time"
)

const CookieName = "jwt"

type Transport struct {
	maxAge int
	secure bool
}

// NewTransport returns a cookie transport whose Max-Age equals the token lifetime.
func NewTransport(lifetime time.Duration, secure bool) *Transport {
	return &Transport{maxAge: int(lifetime / time.Second), secure: secure}
}

func (t *Transport) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   t.maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookie expires the session cookie immediately (Max-Age=0 on the wire).
func (t *Transport) ClearCookie() *http.Cookie {
	c := t.Cookie("")
	c.MaxAge = -1
	return c
}

func (t *Transport) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.Cookie(token))
}

func (t *Transport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, t.ClearCookie())
}

// Token returns the raw cookie value, or false when the cookie is absent or empty.
func (t *Transport) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
