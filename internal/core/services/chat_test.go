package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

func newTestChatService(t *testing.T, search *mockSearch) *ChatService {
	t.Helper()
	responder := NewResponder(mockCatalog{}, nil)
	responder.SetScopeCheck(search.IsOutOfScope)

	chat, err := NewChatService(search, memory.NewSessionStore(10, time.Minute), responder,
		domain.Tables{}, domain.DefaultAppSettings().Conversation)
	require.NoError(t, err)
	chat.newID = func() string { return "generated" }
	return chat
}

func dictaduraSearch() *mockSearch {
	return &mockSearch{
		results: map[string][]domain.ScoredDocument{
			"documentos sobre dictadura": scoredDocs("/a", "/b"),
			"dictadura 1980":             scoredDocs("/a", "/c"),
		},
		entities: map[string]domain.Entities{
			"pero del año 1980": {Years: []int{1980}, Topics: []string{"dictadura"}, HasNewInfo: true},
		},
		outOfScope: map[string]bool{"cuándo es la matrícula": true},
	}
}

func TestChatService_Conversational(t *testing.T) {
	tests := []struct {
		message string
		kind    domain.ReplyKind
	}{
		{"hola", domain.ReplyGreeting},
		{"Buenas tardes", domain.ReplyGreeting},
		{"adiós", domain.ReplyFarewell},
		{"gracias", domain.ReplyGratitude},
		{"ayuda", domain.ReplyHelp},
		{"quién eres", domain.ReplySmalltalk},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			search := dictaduraSearch()
			chat := newTestChatService(t, search)

			reply, err := chat.Chat(context.Background(), "s1", tt.message)

			require.NoError(t, err)
			assert.Equal(t, tt.kind, reply.Kind)
			assert.Equal(t, "<"+string(tt.kind)+">", reply.Text)
			assert.Empty(t, reply.Documents)
			assert.NotNil(t, reply.Documents)
			assert.Empty(t, search.queries, "conversational messages never search")
		})
	}
}

func TestChatService_Search(t *testing.T) {
	search := dictaduraSearch()
	chat := newTestChatService(t, search)

	reply, err := chat.Chat(context.Background(), "s1", "  documentos sobre dictadura ")

	require.NoError(t, err)
	assert.Equal(t, domain.ReplyResults, reply.Kind)
	assert.Equal(t, domain.ConversationSearch, reply.ConversationType)
	assert.Equal(t, domain.IntentNone, reply.Intent)
	assert.Equal(t, "documentos sobre dictadura", reply.Query)
	assert.Equal(t, []string{"/a", "/b"}, domain.Hrefs(reply.Documents))
	assert.Equal(t, 2, reply.NewCount)
	assert.Zero(t, reply.RepeatedCount)
	assert.True(t, strings.HasPrefix(reply.Text, "📚"))
	assert.Equal(t, 1, chat.Sessions())
}

func TestChatService_NoResults(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())

	reply, err := chat.Chat(context.Background(), "s1", "documentos sobre astronomía")

	require.NoError(t, err)
	assert.Equal(t, domain.ReplyNoResults, reply.Kind)
	assert.Equal(t, "<no_results>", reply.Text)
}

func TestChatService_OutOfScope(t *testing.T) {
	search := dictaduraSearch()
	chat := newTestChatService(t, search)

	reply, err := chat.Chat(context.Background(), "s1", "cuándo es la matrícula")

	require.NoError(t, err)
	assert.Equal(t, domain.ReplyOutOfScope, reply.Kind)
	assert.Empty(t, search.queries)
	assert.Zero(t, chat.Sessions(), "out-of-scope turns do not open a session")
}

func TestChatService_GratitudeAfterSearchIsSatisfied(t *testing.T) {
	search := dictaduraSearch()
	chat := newTestChatService(t, search)
	ctx := context.Background()

	_, err := chat.Chat(ctx, "s1", "documentos sobre dictadura")
	require.NoError(t, err)

	reply, err := chat.Chat(ctx, "s1", "gracias")

	require.NoError(t, err)
	assert.Equal(t, domain.ReplySatisfied, reply.Kind)
	assert.Equal(t, domain.IntentSatisfied, reply.Intent)
	assert.Equal(t, domain.ConversationGratitude, reply.ConversationType)
	assert.Len(t, search.queries, 1, "no new search")
}

func TestChatService_UnsatisfiedFollowUpAsksForClarification(t *testing.T) {
	search := dictaduraSearch()
	chat := newTestChatService(t, search)
	ctx := context.Background()

	_, err := chat.Chat(ctx, "s1", "documentos sobre dictadura")
	require.NoError(t, err)

	reply, err := chat.Chat(ctx, "s1", "no me sirve")

	require.NoError(t, err)
	assert.Equal(t, domain.ReplyClarification, reply.Kind)
	assert.Equal(t, domain.IntentUnsatisfied, reply.Intent)
	assert.Len(t, search.queries, 1)
}

func TestChatService_FollowUpNewSearchComparesResults(t *testing.T) {
	search := dictaduraSearch()
	chat := newTestChatService(t, search)
	ctx := context.Background()

	_, err := chat.Chat(ctx, "s1", "documentos sobre dictadura")
	require.NoError(t, err)

	reply, err := chat.Chat(ctx, "s1", "pero del año 1980")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentNewSearch, reply.Intent)
	assert.Equal(t, "dictadura 1980", reply.Query)
	assert.Equal(t, domain.ReplyResults, reply.Kind)
	assert.Equal(t, 1, reply.NewCount)
	assert.Equal(t, 1, reply.RepeatedCount)
	assert.Greater(t, reply.TopicSimilarity, 0.0)
}

func TestChatService_ExplicitNewSearchWithRealExtractor(t *testing.T) {
	search := NewSearchService(&driving.Corpus{Documents: testCorpus()},
		domain.Tables{}, domain.DefaultAppSettings(), nil)
	responder := NewResponder(mockCatalog{}, nil)
	responder.SetScopeCheck(search.IsOutOfScope)
	chat, err := NewChatService(search, memory.NewSessionStore(10, time.Minute), responder,
		domain.Tables{}, domain.DefaultAppSettings().Conversation)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := chat.Chat(ctx, "s1", "documentos sobre derechos humanos")
	require.NoError(t, err)
	require.NotEmpty(t, first.Documents)

	reply, err := chat.Chat(ctx, "s1", "no, busco algo de 1980")

	require.NoError(t, err)
	assert.Equal(t, domain.IntentNewSearch, reply.Intent)
	assert.Contains(t, reply.Query, "1980")
	assert.NotContains(t, reply.Query, "busco")
}

func TestChatService_SessionsAreIsolated(t *testing.T) {
	search := dictaduraSearch()
	chat := newTestChatService(t, search)
	ctx := context.Background()

	_, err := chat.Chat(ctx, "s1", "documentos sobre dictadura")
	require.NoError(t, err)

	reply, err := chat.Chat(ctx, "s2", "gracias")

	require.NoError(t, err)
	assert.Equal(t, domain.ReplyGratitude, reply.Kind, "s2 has no search history")
}

func TestChatService_Reset(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())
	ctx := context.Background()

	_, err := chat.Chat(ctx, "s1", "documentos sobre dictadura")
	require.NoError(t, err)
	chat.Reset(ctx, "s1")

	assert.Zero(t, chat.Sessions())
	reply, err := chat.Chat(ctx, "s1", "gracias")
	require.NoError(t, err)
	assert.Equal(t, domain.ReplyGratitude, reply.Kind)
}

func TestChatService_EmptyMessage(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())

	for _, msg := range []string{"", "   "} {
		_, err := chat.Chat(context.Background(), "s1", msg)
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	}
}

func TestChatService_GeneratesSessionID(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())

	reply, err := chat.Chat(context.Background(), "", "documentos sobre dictadura")

	require.NoError(t, err)
	assert.Equal(t, "generated", reply.SessionID)
}

func TestChatService_SearchError(t *testing.T) {
	search := dictaduraSearch()
	search.err = errors.New("index corrupted")
	chat := newTestChatService(t, search)

	_, err := chat.Chat(context.Background(), "s1", "documentos sobre dictadura")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index corrupted")
}

func TestChatService_Metrics(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())
	metrics := &mockMetrics{}
	chat.SetMetrics(metrics)
	ctx := context.Background()

	_, err := chat.Chat(ctx, "s1", "hola")
	require.NoError(t, err)
	_, err = chat.Chat(ctx, "s1", "documentos sobre dictadura")
	require.NoError(t, err)

	assert.Equal(t, []string{"greeting", "results"}, metrics.turns)
	assert.Equal(t, 1, metrics.sessions)
}

func TestChatService_ReloadTables(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())
	ctx := context.Background()

	err := chat.ReloadTables(domain.Tables{Intent: domain.IntentTables{
		Conversation: []domain.PatternGroup{{Name: "farewell", Patterns: []string{`^nos leemos$`}}},
	}})
	require.NoError(t, err)

	reply, err := chat.Chat(ctx, "s1", "nos leemos")
	require.NoError(t, err)
	assert.Equal(t, domain.ReplyFarewell, reply.Kind)
}

func TestChatService_ReloadTablesRejectsBadPatterns(t *testing.T) {
	chat := newTestChatService(t, dictaduraSearch())

	err := chat.ReloadTables(domain.Tables{Intent: domain.IntentTables{
		Conversation: []domain.PatternGroup{{Name: "farewell", Patterns: []string{`^nos leemos$`}}},
		Satisfied:    []string{`(unclosed`},
	}})
	require.Error(t, err)

	reply, err := chat.Chat(context.Background(), "s1", "hola")
	require.NoError(t, err)
	assert.Equal(t, domain.ReplyGreeting, reply.Kind, "previous patterns stay active")
}

func TestChatService_ConcurrentSessions(t *testing.T) {
	chat := newTestChatService(t, &mockSearch{})

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := chat.Chat(context.Background(), "", "hola")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
