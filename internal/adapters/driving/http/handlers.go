package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/logger"
)

// ChatRequest is the body of POST /api/chat. JSON and form encodings are accepted.
type ChatRequest struct {
	Query     string `json:"query" form:"query"`
	SessionID string `json:"session_id" form:"session_id"`
}

// ChatResponse is the reply to POST /api/chat.
type ChatResponse struct {
	Success          bool                    `json:"success"`
	SessionID        string                  `json:"session_id"`
	Response         string                  `json:"response"`
	Kind             string                  `json:"kind"`
	ConversationType string                  `json:"conversation_type"`
	Intent           string                  `json:"intent,omitempty"`
	Query            string                  `json:"query,omitempty"`
	Documents        []domain.ScoredDocument `json:"documents"`
	NewCount         int                     `json:"new_count"`
	RepeatedCount    int                     `json:"repeated_count"`
	EmbeddingsReady  bool                    `json:"embeddings_ready"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query" form:"query"`
	Limit int    `json:"limit" form:"limit"`
}

// SearchResponse is the reply to POST /api/search.
type SearchResponse struct {
	Success   bool                    `json:"success"`
	Query     string                  `json:"query"`
	Count     int                     `json:"count"`
	Documents []domain.ScoredDocument `json:"documents"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API Chatbot Archivo Patrimonial UAH",
		"endpoints": gin.H{
			"chat":   "/api/chat (POST)",
			"search": "/api/search (POST)",
			"health": "/api/health (GET)",
		},
	})
}

func (s *Server) chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}

	reply, err := s.ports.Chat.Chat(c.Request.Context(), req.SessionID, req.Query)
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "No query provided",
			Details: "La consulta no puede estar vacía.",
		})
		return
	case err != nil:
		logger.Error("chat: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Error procesando la consulta",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Success:          true,
		SessionID:        reply.SessionID,
		Response:         reply.Text,
		Kind:             reply.Kind.String(),
		ConversationType: reply.ConversationType.String(),
		Intent:           reply.Intent.String(),
		Query:            reply.Query,
		Documents:        reply.Documents,
		NewCount:         reply.NewCount,
		RepeatedCount:    reply.RepeatedCount,
		EmbeddingsReady:  s.embeddingsReady(),
	})
}

func (s *Server) resetSession(c *gin.Context) {
	s.ports.Chat.Reset(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) search(c *gin.Context) {
	if s.ports.Search == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Search not available"})
		return
	}

	var req SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No query provided"})
		return
	}

	docs, err := s.ports.Search.Search(c.Request.Context(), query, req.Limit)
	if err != nil {
		logger.Error("search: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Search failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Success:   true,
		Query:     query,
		Count:     len(docs),
		Documents: docs,
	})
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{
		"status":   "ok",
		"sessions": s.ports.Chat.Sessions(),
	}
	if s.ports.Search != nil {
		status := s.ports.Search.Status()
		body["documents_loaded"] = status.Documents
		body["embeddings_loaded"] = status.Embeddings
		body["index_loaded"] = status.Index
		body["semantic_available"] = status.Semantic
		body["strategies"] = status.Strategies
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) embeddingsReady() bool {
	return s.ports.Search != nil && s.ports.Search.Status().Semantic
}
