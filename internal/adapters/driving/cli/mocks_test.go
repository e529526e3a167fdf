package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results    []domain.ScoredDocument
	err        error
	lastQuery  string
	lastLimit  int
	status     domain.SearchStatus
	reloadErr error
}

func (m *mockSearchService) Analyze(query string) domain.Query {
	return domain.Query{
		Raw:        query,
		Normalized: query,
		Entities: domain.Entities{
			Years:    []int{1985},
			DocTypes: []string{"fotografia"},
		},
		Expansions: []string{query, query + " foto"},
	}
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.ScoredDocument, error) {
	m.lastQuery = query
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockSearchService) IsOutOfScope(string) bool { return false }

func (m *mockSearchService) Status() domain.SearchStatus { return m.status }

func (m *mockSearchService) ReloadTables(domain.Tables) error { return m.reloadErr }

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	replies  map[string]string
	err      error
	messages []string
	sessions []string
	resetIDs []string
}

func (m *mockChatService) Chat(_ context.Context, sessionID, message string) (*domain.ChatReply, error) {
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if m.err != nil {
		return nil, m.err
	}
	m.messages = append(m.messages, message)
	m.sessions = append(m.sessions, sessionID)
	if sessionID == "" {
		sessionID = "generated-session"
	}

	text, ok := m.replies[message]
	if !ok {
		text = "respuesta: " + message
	}
	return &domain.ChatReply{SessionID: sessionID, Kind: domain.ReplyResults, Text: text}, nil
}

func (m *mockChatService) Reset(_ context.Context, sessionID string) {
	m.resetIDs = append(m.resetIDs, sessionID)
}

func (m *mockChatService) Sessions() int { return len(m.sessions) }

func (m *mockChatService) ReloadTables(domain.Tables) error { return nil }

// mockCorpusService implements driving.CorpusService for testing.
type mockCorpusService struct {
	importErr error
	indexErr  error
	embedErr  error
	embed     *domain.EmbedResult
	stats     domain.CorpusStats

	importedPath string
	indexCalls   int
	embedCalls   int
}

func (m *mockCorpusService) Import(_ context.Context, path string) (*domain.ImportResult, error) {
	m.importedPath = path
	if m.importErr != nil {
		return nil, m.importErr
	}
	return &domain.ImportResult{Records: 5, Imported: 3, Duplicates: 1, Invalid: 1}, nil
}

func (m *mockCorpusService) BuildIndex(context.Context) (*domain.IndexResult, error) {
	m.indexCalls++
	if m.indexErr != nil {
		return nil, m.indexErr
	}
	return &domain.IndexResult{Documents: 3, Terms: 42}, nil
}

func (m *mockCorpusService) Embed(context.Context) (*domain.EmbedResult, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embed != nil {
		return m.embed, nil
	}
	return &domain.EmbedResult{Model: "nomic-embed-text", Embedded: 3}, nil
}

func (m *mockCorpusService) Load(context.Context) (*driving.Corpus, error) {
	return &driving.Corpus{}, nil
}

func (m *mockCorpusService) Stats(context.Context) (domain.CorpusStats, error) {
	return m.stats, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	embedErr    error
	llmErr      error
	saved       int
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	m.saved++
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if provider.RequiresAPIKey() && apiKey == "" {
		return errors.New("API key required")
	}
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if provider.RequiresAPIKey() && apiKey == "" {
		return errors.New("API key required")
	}
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.embedErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	search   *mockSearchService
	chat     *mockChatService
	corpus   *mockCorpusService
	settings *mockSettingsService
}

// setupTestServices installs mock services and returns a cleanup that
// restores the package state, including flag values left by earlier runs.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		search: &mockSearchService{
			results: []domain.ScoredDocument{
				{
					Document: domain.Document{
						Title: "Fotografía de la huelga de 1985",
						Href:  "https://archivo.uah.cl/doc/1",
						Dates: []string{"1985-06-12"},
					},
					Score:      0.82,
					MatchType:  domain.MatchHybrid,
					Strategies: []string{"tfidf", "metadata"},
				},
			},
			status: domain.SearchStatus{Documents: 3, Strategies: []string{"exact", "tfidf"}},
		},
		chat:     &mockChatService{},
		corpus:   &mockCorpusService{stats: domain.CorpusStats{Documents: 3, IndexTerms: 42}},
		settings: newMockSettingsService(),
	}

	prevBootstrap := bootstrap
	bootstrap = nil
	setServices(&Services{
		Settings: ts.settings,
		Search:   ts.search,
		Chat:     ts.chat,
		Corpus:   ts.corpus,
		Metrics:  http.NotFoundHandler(),
	})

	return ts, func() {
		bootstrap = prevBootstrap
		setServices(&Services{})
		resetFlags()
	}
}

func resetFlags() {
	searchLimit, searchJSON, searchExplain = 0, false, false
	importEmbed, importNoIndex, statusJSON = false, false, false
	chatSessionID = ""
	serveAddr = ""
	verbose, inMemory = false, false
	configPath, dataDir = "", ""
}
