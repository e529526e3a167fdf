package driving

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// ChatService runs one conversational turn at a time.
// It is safe for concurrent use by the HTTP, MCP and TUI surfaces.
type ChatService interface {
	// Chat answers message within the session. An empty sessionID starts a
	// new session; the reply carries the id to use for the next turn.
	// Returns domain.ErrEmptyMessage if message is blank.
	Chat(ctx context.Context, sessionID, message string) (*domain.ChatReply, error)

	// Reset forgets the session.
	Reset(ctx context.Context, sessionID string)

	// Sessions returns the number of live sessions.
	Sessions() int

	// ReloadTables swaps the intent and follow-up patterns.
	ReloadTables(tables domain.Tables) error
}
