package http

import (
	"context"
	"sync"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	mu       sync.Mutex
	reply    *domain.ChatReply
	err      error
	sessions int

	gotSession string
	gotMessage string
	resetIDs   []string
}

func (m *mockChatService) Chat(_ context.Context, sessionID, message string) (*domain.ChatReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotSession, m.gotMessage = sessionID, message
	return m.reply, m.err
}

func (m *mockChatService) Reset(_ context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIDs = append(m.resetIDs, sessionID)
}

func (m *mockChatService) Sessions() int { return m.sessions }

func (m *mockChatService) ReloadTables(_ domain.Tables) error { return nil }

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.ScoredDocument
	err     error
	status  domain.SearchStatus

	gotQuery string
	gotLimit int
}

func (m *mockSearchService) Analyze(query string) domain.Query {
	return domain.Query{Raw: query}
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.ScoredDocument, error) {
	m.gotQuery, m.gotLimit = query, limit
	return m.results, m.err
}

func (m *mockSearchService) IsOutOfScope(_ string) bool { return false }

func (m *mockSearchService) Status() domain.SearchStatus { return m.status }

func (m *mockSearchService) ReloadTables(_ domain.Tables) error { return nil }
