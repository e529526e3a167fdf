package cli

import (
	"errors"

	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/archivo/internal/adapters/driving/http"
	"github.com/custodia-labs/archivo/internal/logger"
)

const defaultServeAddr = "127.0.0.1:5000"

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat API",
	Long: `Start the HTTP API used by the web chat widget.

Endpoints:
  POST   /api/chat           answer a message ({"query", "session_id"})
  DELETE /api/sessions/:id   forget a conversation
  POST   /api/search         rank documents without conversation state
  GET    /api/health         engine status
  GET    /metrics            Prometheus metrics

The listen address defaults to the server address in settings.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	server, err := httpapi.NewServer(httpapi.Ports{
		Chat:    chatService,
		Search:  searchService,
		Metrics: metricsHandler,
	})
	if err != nil {
		return err
	}

	addr := resolveServeAddr()
	logger.SetTimestamps(true)
	startTablesWatch(cmd.Context())

	cmd.Printf("Archivo API listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}

func resolveServeAddr() string {
	if serveAddr != "" {
		return serveAddr
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Server.Addr != "" {
			return settings.Server.Addr
		}
	}
	return defaultServeAddr
}
