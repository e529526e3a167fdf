// Package http serves the chat API over HTTP with gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/archivo/internal/core/ports/driving"
	"github.com/custodia-labs/archivo/internal/logger"
)

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("http: chat service is required")

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Ports aggregates the services the API serves.
type Ports struct {
	// Chat answers /api/chat. Required.
	Chat driving.ChatService

	// Search answers /api/search and /api/health. Optional.
	Search driving.SearchService

	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

// Server is the HTTP chat API.
type Server struct {
	ports  Ports
	router *gin.Engine
}

// NewServer creates the server and its routes.
func NewServer(ports Ports) (*Server, error) {
	if ports.Chat == nil {
		return nil, ErrMissingChatService
	}
	if logger.IsVerbose() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		ports:  ports,
		router: gin.New(),
	}
	s.router.Use(requestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.index)

	api := s.router.Group("/api")
	{
		api.POST("/chat", s.chat)
		api.DELETE("/sessions/:id", s.resetSession)
		api.POST("/search", s.search)
		api.GET("/health", s.health)
	}

	if s.ports.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.ports.Metrics))
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on http://%s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Stopping HTTP API")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
