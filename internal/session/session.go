// Package session holds the per-visitor state: whether the password was
// accepted, the pending search text and a one-shot flash message.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

type Session struct {
	Authenticated bool      `json:"authenticated"`
	SearchQuery   string    `json:"search_query,omitempty"`
	Flash         *Flash    `json:"flash,omitempty"`
	LastSeen      time.Time `json:"last_seen"`
}

type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (s *Session) SetFlash(level, msg string) {
	s.Flash = &Flash{Level: level, Message: msg}
}

// PopFlash returns the pending flash, if any, and clears it.
func (s *Session) PopFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

// Store persists sessions by ID.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, id string, s Session) error
	Delete(ctx context.Context, id string) error
}

// Guard decides who may add and delete records.
type Guard struct {
	secret []byte
}

func NewGuard(secret string) *Guard {
	return &Guard{secret: []byte(secret)}
}

// Check compares password with the shared secret and records the outcome on
// s. A wrong password always leaves s unauthenticated, even if it was
// authenticated before.
func (g *Guard) Check(s *Session, password string) bool {
	ok := len(g.secret) > 0 && subtle.ConstantTimeCompare([]byte(password), g.secret) == 1
	s.Authenticated = ok
	return ok
}

// Allow reports whether s may add or delete. Reads never need it.
func (g *Guard) Allow(s *Session) bool {
	return s != nil && s.Authenticated
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session, or a fresh unauthenticated one
// when the request carries none.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
