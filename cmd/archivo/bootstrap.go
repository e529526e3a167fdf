package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/archivo/internal/adapters/driven/ai"
	"github.com/custodia-labs/archivo/internal/adapters/driven/config/file"
	"github.com/custodia-labs/archivo/internal/adapters/driven/responses"
	"github.com/custodia-labs/archivo/internal/adapters/driven/storage/badger"
	"github.com/custodia-labs/archivo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/archivo/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/archivo/internal/adapters/driving/cli"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/core/services"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/metrics"
)

// generateOptions are used for every presented answer.
var generateOptions = driven.GenerateOptions{
	MaxTokens:   800,
	Temperature: 0.3,
}

// bootstrap wires the driven adapters into the core services.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*cli.Services, error) {
		if cerr := closeAll(); cerr != nil {
			logger.Warn("cleanup after failed start: %v", cerr)
		}
		return nil, err
	}

	configDir := opts.ConfigPath
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("config directory: %w", err)
		}
		configDir = dir
	}
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var store driven.CorpusStore
	if opts.InMemory {
		store = memory.NewCorpusStore()
	} else {
		sqliteStore, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open corpus store: %w", err)
		}
		store = sqliteStore
	}
	closers = append(closers, store.Close)

	var cache driven.Cache
	if settings.AI.PersistentCache {
		badgerCache, err := badger.Open(filepath.Join(dataDir, "cache"))
		if err != nil {
			logger.Warn("Persistent AI cache disabled: %v", err)
		} else {
			cache = badgerCache
			closers = append(closers, badgerCache.Close)
		}
	}

	collector := metrics.New()

	aiServices := ai.NewServices(ctx, *settings, ai.Options{
		Cache:   cache,
		Metrics: collector,
	})
	closers = append(closers, func() error {
		aiServices.Close()
		return nil
	})
	for _, w := range aiServices.Warnings {
		logger.Debug("AI warning: %s", w)
	}

	tablesStore := file.NewTablesStore(settings.Tables.Path)
	tables, err := tablesStore.Load()
	if err != nil {
		return fail(fmt.Errorf("load tables: %w", err))
	}

	corpusService := services.NewCorpusService(store, aiServices.EmbeddingService, tables, settings.Import)
	corpus, err := corpusService.Load(ctx)
	if err != nil {
		return fail(fmt.Errorf("load corpus: %w", err))
	}

	searchService := services.NewSearchService(corpus, tables, *settings,
		services.EmbedFunc(aiServices.EmbeddingService))
	searchService.SetMetrics(collector)

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return fail(fmt.Errorf("open prompts: %w", err))
	}
	responder := services.NewResponder(responses.New(),
		services.NewGenerateFunc(aiServices.LLMService, generateOptions))
	responder.SetPromptStore(prompts)
	responder.SetScopeCheck(searchService.IsOutOfScope)

	sessions := memory.NewSessionStore(settings.Session.MaxSessions, settings.Session.TTL)

	chatService, err := services.NewChatService(searchService, sessions, responder, tables, settings.Conversation)
	if err != nil {
		return fail(fmt.Errorf("create chat service: %w", err))
	}
	chatService.SetMetrics(collector)

	watch := func(ctx context.Context) error {
		if !settings.Tables.Watch {
			return nil
		}
		return tablesStore.Watch(ctx, func(t domain.Tables) {
			if err := searchService.ReloadTables(t); err != nil {
				logger.Warn("reload search tables: %v", err)
			}
			if err := chatService.ReloadTables(t); err != nil {
				logger.Warn("reload conversation tables: %v", err)
			}
		})
	}

	return &cli.Services{
		Settings:    settingsService,
		Search:      searchService,
		Chat:        chatService,
		Corpus:      corpusService,
		Metrics:     collector.Handler(),
		WatchTables: watch,
		Close:       closeAll,
	}, nil
}
