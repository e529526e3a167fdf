package driven

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// SessionStore keeps conversation sessions for the lifetime of the process.
// Implementations must be safe for concurrent use and must not share
// session memory with callers: Get returns a copy and Put stores one.
type SessionStore interface {
	// Get returns the session with the given id.
	// The boolean is false if the session is unknown or has expired.
	Get(ctx context.Context, id string) (*domain.Session, bool)

	// Put stores the session, replacing any previous version.
	Put(ctx context.Context, session *domain.Session)

	// Delete removes the session. Unknown ids are ignored.
	Delete(ctx context.Context, id string)

	// Len returns the number of live sessions.
	Len() int
}
