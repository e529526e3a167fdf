// Package tui provides an interactive terminal user interface for archivo.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers the conversation. Required.
	Chat driving.ChatService

	// Search reports what the ranking engine has loaded. Optional.
	Search driving.SearchService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatService, search driving.SearchService) *Ports {
	return &Ports{
		Chat:   chat,
		Search: search,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil ports", ErrInvalidPorts)
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
