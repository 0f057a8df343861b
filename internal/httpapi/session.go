package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "storyfeed_session"
	maxSessionLen = 128
)

// sessionID identifies the client a request belongs to: the X-Session-ID
// header, else the session cookie, else a fresh id set as cookie.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if v := r.Header.Get(sessionHeader); v != "" && len(v) <= maxSessionLen {
		return v
	}
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" && len(c.Value) <= maxSessionLen {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
