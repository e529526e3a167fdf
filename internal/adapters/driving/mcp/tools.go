package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query, in Spanish, e.g. 'fotografías de la dictadura 1975'"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 6)"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []DocumentOutput `json:"results"`
	Count   int              `json:"count"`
}

// DocumentOutput represents a single ranked document.
type DocumentOutput struct {
	Title      string   `json:"title"`
	Href       string   `json:"href"`
	Score      float64  `json:"score"`
	MatchType  string   `json:"match_type"`
	Strategies []string `json:"strategies"`
	Subjects   []string `json:"subjects,omitempty"`
	Dates      []string `json:"dates,omitempty"`
}

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Message   string `json:"message" jsonschema:"the user's message"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session id returned by a previous turn; empty starts a new conversation"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	SessionID string           `json:"session_id"`
	Kind      string           `json:"kind"`
	Intent    string           `json:"intent,omitempty"`
	Query     string           `json:"query,omitempty"`
	Response  string           `json:"response"`
	Documents []DocumentOutput `json:"documents"`
}

// AnalyzeInput is the input schema for the analyze_query tool.
type AnalyzeInput struct {
	Query string `json:"query" jsonschema:"the query to analyse"`
}

// AnalyzeOutput is the output schema for the analyze_query tool.
type AnalyzeOutput struct {
	Normalized string          `json:"normalized"`
	Entities   domain.Entities `json:"entities"`
	Expansions []string        `json:"expansions"`
	OutOfScope bool            `json:"out_of_scope"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Rank archival documents of the Archivo Patrimonial for a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "chat",
		Description: "Send one message to the archive assistant. " +
			"Pass the returned session_id to continue the conversation.",
	}, s.handleChat)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_query",
		Description: "Show how a query is normalised, which entities are extracted and how it is expanded",
	}, s.handleAnalyze)
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Search.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: documentOutputs(results),
		Count:   len(results),
	}, nil
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	if s.ports.Chat == nil {
		return nil, ChatOutput{}, ErrChatUnavailable
	}

	reply, err := s.ports.Chat.Chat(ctx, input.SessionID, input.Message)
	if err != nil {
		return nil, ChatOutput{}, err
	}

	return nil, ChatOutput{
		SessionID: reply.SessionID,
		Kind:      reply.Kind.String(),
		Intent:    reply.Intent.String(),
		Query:     reply.Query,
		Response:  reply.Text,
		Documents: documentOutputs(reply.Documents),
	}, nil
}

// handleAnalyze handles the analyze_query tool invocation.
func (s *Server) handleAnalyze(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	q := s.ports.Search.Analyze(input.Query)
	return nil, AnalyzeOutput{
		Normalized: q.Normalized,
		Entities:   q.Entities,
		Expansions: q.Expansions,
		OutOfScope: s.ports.Search.IsOutOfScope(input.Query),
	}, nil
}

func documentOutputs(docs []domain.ScoredDocument) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i := range docs {
		out[i] = DocumentOutput{
			Title:      docs[i].Title,
			Href:       docs[i].Href,
			Score:      docs[i].Score,
			MatchType:  string(docs[i].MatchType),
			Strategies: docs[i].Strategies,
			Subjects:   docs[i].Subjects,
			Dates:      docs[i].Dates,
		}
	}
	return out
}
