package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleReply() *domain.ChatReply {
	return &domain.ChatReply{
		SessionID:        "s-1",
		Kind:             domain.ReplyResults,
		ConversationType: domain.ConversationSearch,
		Query:            "golpe de estado",
		Documents: []domain.ScoredDocument{{
			Document:  domain.Document{Title: "Golpe de Estado 1973", Href: "/items/7"},
			Score:     0.9,
			MatchType: domain.MatchExact,
		}},
		NewCount: 1,
		Text:     "📚 resultados",
	}
}

func newTestServer(t *testing.T, ports Ports) *Server {
	t.Helper()
	s, err := NewServer(ports)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewServer_RequiresChat(t *testing.T) {
	_, err := NewServer(Ports{})
	assert.ErrorIs(t, err, ErrMissingChatService)
}

func TestServer_Index(t *testing.T) {
	s := newTestServer(t, Ports{Chat: &mockChatService{}})

	w := do(t, s, http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["message"], "Archivo Patrimonial")
	assert.Contains(t, body, "endpoints")
}

func TestServer_Chat(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		chat := &mockChatService{reply: sampleReply()}
		search := &mockSearchService{status: domain.SearchStatus{Semantic: true}}
		s := newTestServer(t, Ports{Chat: chat, Search: search})

		w := do(t, s, http.MethodPost, "/api/chat", "application/json",
			`{"query":"golpe de estado","session_id":"s-1"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "s-1", chat.gotSession)
		assert.Equal(t, "golpe de estado", chat.gotMessage)

		var resp ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "s-1", resp.SessionID)
		assert.Equal(t, "results", resp.Kind)
		assert.Equal(t, "search", resp.ConversationType)
		assert.Equal(t, "📚 resultados", resp.Response)
		require.Len(t, resp.Documents, 1)
		assert.Equal(t, "/items/7", resp.Documents[0].Href)
		assert.Equal(t, 1, resp.NewCount)
		assert.True(t, resp.EmbeddingsReady)
	})

	t.Run("form body", func(t *testing.T) {
		chat := &mockChatService{reply: sampleReply()}
		s := newTestServer(t, Ports{Chat: chat})

		form := url.Values{"query": {"hola"}}
		w := do(t, s, http.MethodPost, "/api/chat", "application/x-www-form-urlencoded", form.Encode())

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hola", chat.gotMessage)
		assert.Empty(t, chat.gotSession)
		assert.Equal(t, false, decode(t, w)["embeddings_ready"])
	})

	t.Run("empty message is a bad request", func(t *testing.T) {
		chat := &mockChatService{err: domain.ErrEmptyMessage}
		s := newTestServer(t, Ports{Chat: chat})

		w := do(t, s, http.MethodPost, "/api/chat", "application/json", `{"query":"  "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "No query provided", body["error"])
		assert.Equal(t, "La consulta no puede estar vacía.", body["details"])
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		s := newTestServer(t, Ports{Chat: &mockChatService{}})

		w := do(t, s, http.MethodPost, "/api/chat", "application/json", `{"query":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request", decode(t, w)["error"])
	})

	t.Run("service failure is an internal error", func(t *testing.T) {
		chat := &mockChatService{err: errors.New("search: boom")}
		s := newTestServer(t, Ports{Chat: chat})

		w := do(t, s, http.MethodPost, "/api/chat", "application/json", `{"query":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "search: boom", body["details"])
	})
}

func TestServer_ResetSession(t *testing.T) {
	chat := &mockChatService{}
	s := newTestServer(t, Ports{Chat: chat})

	w := do(t, s, http.MethodDelete, "/api/sessions/abc", "", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"abc"}, chat.resetIDs)
}

func TestServer_Search(t *testing.T) {
	t.Run("returns documents", func(t *testing.T) {
		search := &mockSearchService{results: sampleReply().Documents}
		s := newTestServer(t, Ports{Chat: &mockChatService{}, Search: search})

		w := do(t, s, http.MethodPost, "/api/search", "application/json", `{"query":" golpe ","limit":3}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "golpe", search.gotQuery)
		assert.Equal(t, 3, search.gotLimit)

		var resp SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, "Golpe de Estado 1973", resp.Documents[0].Title)
	})

	t.Run("empty query", func(t *testing.T) {
		s := newTestServer(t, Ports{Chat: &mockChatService{}, Search: &mockSearchService{}})

		w := do(t, s, http.MethodPost, "/api/search", "application/json", `{"query":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("boom")}
		s := newTestServer(t, Ports{Chat: &mockChatService{}, Search: search})

		w := do(t, s, http.MethodPost, "/api/search", "application/json", `{"query":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("without search service", func(t *testing.T) {
		s := newTestServer(t, Ports{Chat: &mockChatService{}})

		w := do(t, s, http.MethodPost, "/api/search", "application/json", `{"query":"x"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_Health(t *testing.T) {
	search := &mockSearchService{status: domain.SearchStatus{
		Documents:  120,
		Embeddings: 100,
		Index:      true,
		Semantic:   true,
		Strategies: []string{"exact_title", "tfidf"},
	}}
	s := newTestServer(t, Ports{Chat: &mockChatService{sessions: 3}, Search: search})

	w := do(t, s, http.MethodGet, "/api/health", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["sessions"])
	assert.Equal(t, float64(120), body["documents_loaded"])
	assert.Equal(t, float64(100), body["embeddings_loaded"])
	assert.Equal(t, true, body["index_loaded"])
	assert.Equal(t, true, body["semantic_available"])
}

func TestServer_Metrics(t *testing.T) {
	t.Run("mounted when handler given", func(t *testing.T) {
		metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "archivo_searches_total 0\n")
		})
		s := newTestServer(t, Ports{Chat: &mockChatService{}, Metrics: metrics})

		w := do(t, s, http.MethodGet, "/metrics", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "archivo_searches_total")
	})

	t.Run("absent otherwise", func(t *testing.T) {
		s := newTestServer(t, Ports{Chat: &mockChatService{}})

		w := do(t, s, http.MethodGet, "/metrics", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t, Ports{Chat: &mockChatService{}})

	w := do(t, s, http.MethodOptions, "/api/chat", "", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Run(t *testing.T) {
	s := newTestServer(t, Ports{Chat: &mockChatService{}})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
