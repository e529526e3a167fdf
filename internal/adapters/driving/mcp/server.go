package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/archivo/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Paths served by RunHTTP.
const (
	EndpointPath = "/mcp"
	HealthPath   = "/healthz"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the archive to MCP clients: search and query analysis
// always, conversation and corpus statistics when those services are wired.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates an MCP server over ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "archivo", Version: Version},
		&mcp.ServerOptions{Instructions: s.instructions()},
	)
	s.registerTools()
	s.registerResources()
	return s, nil
}

// instructions tells the client model what the archive holds and which
// tools fit which question.
func (s *Server) instructions() string {
	var b strings.Builder
	b.WriteString("Archivo Patrimonial UAH: historical documents from Chile " +
		"(letters, photographs, press, reports), mostly 1960-1990, catalogued in Dublin Core. " +
		"Queries work best in Spanish.\n")
	b.WriteString("- search_documents: ranked documents for a query; include years or " +
		"periods (\"dictadura\", \"años 80\") to narrow by date.\n")
	b.WriteString("- analyze_query: shows how a query is normalised and which years, " +
		"document types and topics are recognised.\n")
	if s.ports.Chat != nil {
		b.WriteString("- chat: conversational search; reuse session_id for follow-ups " +
			"such as \"pero de 1980\".\n")
	}
	if s.ports.Corpus != nil {
		b.WriteString("Read archivo://stats for the size of the collection.\n")
	}
	return b.String()
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server on stdio (%d documents)", s.ports.Search.Status().Documents)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP routes: the streamable MCP endpoint and a
// health check reporting the search status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil))
	mux.HandleFunc(HealthPath, s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := s.ports.Search.Status()
	code := http.StatusOK
	if status.Documents == 0 {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// RunHTTP serves Handler on addr until ctx is cancelled, then drains
// open sessions for up to shutdownTimeout.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
