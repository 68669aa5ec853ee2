// Package session carries the caller identity into screen loads and API
// requests. Nothing here is global: screens receive a *Session explicitly and
// put it on the request context for the client.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

type Session struct {
	UserID int
	Email  string
	Token  string
}

// LoggedIn reports whether s holds a bearer token. A nil session is anonymous.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// Identity keys per-user state (screen sets, saved drafts) and is empty when
// anonymous. It derives from the bearer token only: UserID and Email come from
// unverified headers and must not select another user's state.
func (s *Session) Identity() string {
	if !s.LoggedIn() {
		return ""
	}
	sum := sha256.Sum256([]byte(s.Token))
	return "token:" + hex.EncodeToString(sum[:])
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
