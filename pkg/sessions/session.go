// Package sessions tracks live editing sessions: one per user working on an
// app in the builder. Session records live in a pluggable store (in-memory or
// Redis) with a sliding expiry; the live editor engines stay resident on the
// instance that owns the session.
package sessions

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the sliding expiry applied to sessions on every touch.
const DefaultTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("session not found")

// Session is the persisted record of an editing session.
type Session struct {
	ID           string    `json:"id"`
	AppID        string    `json:"app_id"`
	Owner        string    `json:"owner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session passed its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch extends the session's expiry window from the given instant.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.LastActiveAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store persists session records.
type Store interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
	Close() error
}
