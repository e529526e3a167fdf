package mcp

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results    []domain.ScoredDocument
	err        error
	query      domain.Query
	outOfScope bool
	status     domain.SearchStatus

	gotQuery string
	gotLimit int
}

func (m *mockSearchService) Analyze(query string) domain.Query {
	q := m.query
	q.Raw = query
	return q
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.ScoredDocument, error) {
	m.gotQuery, m.gotLimit = query, limit
	return m.results, m.err
}

func (m *mockSearchService) IsOutOfScope(_ string) bool {
	return m.outOfScope
}

func (m *mockSearchService) Status() domain.SearchStatus {
	return m.status
}

func (m *mockSearchService) ReloadTables(_ domain.Tables) error {
	return nil
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply *domain.ChatReply
	err   error

	gotSession string
	gotMessage string
}

func (m *mockChatService) Chat(_ context.Context, sessionID, message string) (*domain.ChatReply, error) {
	m.gotSession, m.gotMessage = sessionID, message
	return m.reply, m.err
}

func (m *mockChatService) Reset(_ context.Context, _ string) {}

func (m *mockChatService) Sessions() int { return 0 }

func (m *mockChatService) ReloadTables(_ domain.Tables) error { return nil }

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	stats domain.CorpusStats
	err   error
}

func (m *mockCorpusService) Import(_ context.Context, _ string) (*domain.ImportResult, error) {
	return nil, m.err
}

func (m *mockCorpusService) BuildIndex(_ context.Context) (*domain.IndexResult, error) {
	return nil, m.err
}

func (m *mockCorpusService) Embed(_ context.Context) (*domain.EmbedResult, error) {
	return nil, m.err
}

func (m *mockCorpusService) Load(_ context.Context) (*driving.Corpus, error) {
	return &driving.Corpus{}, m.err
}

func (m *mockCorpusService) Stats(_ context.Context) (domain.CorpusStats, error) {
	return m.stats, m.err
}
