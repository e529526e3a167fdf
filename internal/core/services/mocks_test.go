package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCatalog answers every category with "<category>".
type mockCatalog struct{}

func (mockCatalog) Reply(category string, _ time.Time) string {
	return "<" + category + ">"
}

type mockEmbedder struct {
	mu      sync.Mutex
	model   string
	failOn  string
	batches int
	err     error
}

func (m *mockEmbedder) vector(text string) []float32 {
	return []float32{float32(len(text)), 1}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if m.failOn != "" && strings.Contains(text, m.failOn) {
			return nil, errors.New("provider rejected batch")
		}
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }
func (m *mockEmbedder) ModelName() string { return m.model }
func (m *mockEmbedder) Ping(context.Context) error {
	return m.err
}
func (m *mockEmbedder) Close() error { return nil }

type mockLLM struct {
	reply   string
	err     error
	prompts []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return m.err }
func (m *mockLLM) Close() error { return nil }

type mockPromptStore struct {
	templates map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	t, ok := m.templates[name]
	if !ok {
		return "", domain.ErrConfigNotFound
	}
	return t, nil
}

func (m *mockPromptStore) Reload() {}

type mockMetrics struct {
	mu       sync.Mutex
	searches int
	turns    []string
	sessions int
	panics   bool
}

func (m *mockMetrics) ObserveSearch(int, time.Duration) {
	if m.panics {
		panic("collector exploded")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
}

func (m *mockMetrics) ObserveTurn(kind string, _ time.Duration) {
	if m.panics {
		panic("collector exploded")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, kind)
}

func (m *mockMetrics) ObserveAICall(string, string, time.Duration) {}

func (m *mockMetrics) SetSessions(n int) {
	if m.panics {
		panic("collector exploded")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = n
}

// mockSearch returns canned results keyed by query.
type mockSearch struct {
	results    map[string][]domain.ScoredDocument
	entities   map[string]domain.Entities
	outOfScope map[string]bool
	queries    []string
	err        error
}

func (m *mockSearch) Analyze(query string) domain.Query {
	return domain.Query{Raw: query, Entities: m.entities[query], Expansions: []string{query}}
}

func (m *mockSearch) Search(_ context.Context, query string, _ int) ([]domain.ScoredDocument, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

func (m *mockSearch) IsOutOfScope(query string) bool { return m.outOfScope[query] }

func (m *mockSearch) Status() domain.SearchStatus { return domain.SearchStatus{} }

func (m *mockSearch) ReloadTables(domain.Tables) error { return nil }

func testCorpus() []domain.Document {
	return []domain.Document{
		{
			Title:    "Carta de Aylwin a ministro",
			Href:     "/a1",
			Subjects: []string{"Correspondencia", "Transición"},
			Creators: []string{"Aylwin, Patricio"},
		},
		{
			Title:     "Fotografías del plebiscito de 1988",
			Href:      "/p1",
			Subjects:  []string{"Plebiscito", "Campaña del No"},
			Coverages: []string{"Santiago"},
			Dates:     []string{"1988"},
		},
		{
			Title:    "Informe sobre derechos humanos",
			Href:     "/r1",
			Subjects: []string{"Derechos humanos", "Dictadura militar"},
			Dates:    []string{"1978"},
		},
		{
			Title:    "Acta del Consejo de Gabinete",
			Href:     "/g1",
			Subjects: []string{"Gobierno"},
			Dates:    []string{"1990"},
		},
	}
}

func scoredDocs(hrefs ...string) []domain.ScoredDocument {
	out := make([]domain.ScoredDocument, 0, len(hrefs))
	for i, h := range hrefs {
		out = append(out, domain.ScoredDocument{
			Document: domain.Document{Title: "Documento " + h, Href: h, Subjects: []string{"Dictadura"}},
			Score:    float64(len(hrefs) - i),
		})
	}
	return out
}
