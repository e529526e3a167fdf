// Package cli implements the archivo command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/archivo/internal/core/ports/driving"
	"github.com/custodia-labs/archivo/internal/logger"
)

// skipBootstrap marks commands that run without the core services.
const skipBootstrap = "archivo/skip-bootstrap"

var (
	version = "dev"

	configPath string
	dataDir    string
	verbose    bool
	inMemory   bool
)

// Core services, set by the bootstrap or by tests.
var (
	settingsService driving.SettingsService
	searchService   driving.SearchService
	chatService     driving.ChatService
	corpusService   driving.CorpusService
	metricsHandler  http.Handler
	watchTables     func(ctx context.Context) error
)

// Options are the global flags the bootstrap builds services from.
type Options struct {
	ConfigPath string
	DataDir    string
	InMemory   bool
}

// Services are the wired core services handed to the commands.
type Services struct {
	Settings driving.SettingsService
	Search   driving.SearchService
	Chat     driving.ChatService
	Corpus   driving.CorpusService

	// Metrics serves /metrics. Optional.
	Metrics http.Handler

	// WatchTables reloads the data tables on change until ctx is done.
	// Optional; only long-running commands start it.
	WatchTables func(ctx context.Context) error

	// Close releases stores and AI clients.
	Close func() error
}

// Bootstrap builds the services before a command runs.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	closer    func() error
)

var rootCmd = &cobra.Command{
	Use:   "archivo",
	Short: "Conversational search over the UAH heritage archive",
	Long: `archivo answers Spanish questions about the documents, photographs and
events of the Archivo Patrimonial UAH.

It ranks the archive with exact title, TF-IDF, metadata and semantic
strategies fused by reciprocal rank, keeps short-term conversation memory
for follow-up questions, and serves the chat over a REPL, a terminal UI,
an HTTP API and MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config directory (default ~/.archivo)")
	flags.StringVar(&dataDir, "data-dir", "", "corpus data directory (default: config directory)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&inMemory, "memory", false, "keep the corpus in memory instead of SQLite")
}

// SetBootstrap sets the function that wires the core services.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if err := closeServices(); err != nil {
			logger.Warn("close services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || cmd.Annotations[skipBootstrap] != "" {
		return nil
	}

	services, err := bootstrap(cmd.Context(), Options{
		ConfigPath: configPath,
		DataDir:    dataDir,
		InMemory:   inMemory,
	})
	if err != nil {
		return fmt.Errorf("initialise services: %w", err)
	}
	setServices(services)
	return nil
}

func setServices(s *Services) {
	settingsService = s.Settings
	searchService = s.Search
	chatService = s.Chat
	corpusService = s.Corpus
	metricsHandler = s.Metrics
	watchTables = s.WatchTables
	closer = s.Close
}

func closeServices() error {
	if closer == nil {
		return nil
	}
	fn := closer
	closer = nil
	return fn()
}

// startTablesWatch runs the tables watcher in the background for
// long-running commands.
func startTablesWatch(ctx context.Context) {
	if watchTables == nil {
		return
	}
	go func() {
		if err := watchTables(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("tables watcher stopped: %v", err)
		}
	}()
}
