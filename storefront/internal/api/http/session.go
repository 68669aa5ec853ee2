package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"overcooked-storefront/storefront/internal/session"
)

// sessionFromRequest reads the caller's bearer token and identity headers. It
// returns nil when no token is present.
func sessionFromRequest(r *http.Request) *session.Session {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil
	}
	userID, _ := strconv.Atoi(r.Header.Get("X-User-Id"))
	return &session.Session{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
		Token:  token,
	}
}
