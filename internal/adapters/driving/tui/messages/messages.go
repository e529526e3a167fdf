// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/archivo/internal/core/domain"
)

// MessageSent is a command to answer a chat message.
type MessageSent struct {
	Text string
}

// ChatCompleted carries a reply back to the model.
type ChatCompleted struct {
	Reply *domain.ChatReply
	Err   error
}

// SessionReset signals the conversation was forgotten.
type SessionReset struct{}

// DocumentSelected signals a document was opened from the result list.
type DocumentSelected struct {
	Document domain.ScoredDocument
}

// StatusLoaded carries what the ranking engine has loaded.
type StatusLoaded struct {
	Status domain.SearchStatus
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewDocDetails shows the metadata of one document.
	ViewDocDetails
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDocDetails:
		return "doc_details"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
