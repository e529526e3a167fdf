package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// Session store defaults.
const (
	DefaultMaxSessions = 1000
	DefaultSessionTTL  = 30 * time.Minute
)

// SessionStore keeps sessions in a size-bounded LRU whose entries expire
// ttl after they were last stored. Sessions are copied on the way in and
// out, so callers never share memory with the store or with each other.
type SessionStore struct {
	cache *expirable.LRU[string, *domain.Session]
}

// NewSessionStore creates a session store. Non-positive arguments use the defaults.
func NewSessionStore(maxSessions int, ttl time.Duration) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		cache: expirable.NewLRU[string, *domain.Session](maxSessions, nil, ttl),
	}
}

// Get returns a copy of the session.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, bool) {
	session, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return session.Clone(), true
}

// Put stores a copy of the session. Concurrent writers of the same
// session id are last-writer-wins.
func (s *SessionStore) Put(_ context.Context, session *domain.Session) {
	if session == nil || session.ID == "" {
		return
	}
	s.cache.Add(session.ID, session.Clone())
}

// Delete removes the session.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.cache.Remove(id)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.cache.Len()
}
