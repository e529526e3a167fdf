package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure ranking, conversation and AI provider settings.

Use subcommands to configure a provider or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long: `Run an interactive wizard to configure the embedding and LLM providers.

Both are optional. Without an embedding provider semantic ranking is left
out; without an LLM, results are presented as a plain listing.`,
	RunE: runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for semantic ranking.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used to present search results.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	r := settings.Ranking
	cmd.Println("[Ranking]")
	cmd.Printf("  Top K: %d (oversample x%d)\n", r.TopK, r.Oversample)
	cmd.Printf("  RRF k: %d\n", r.RRFK)
	cmd.Printf("  Weights: exact %.2f, metadata %.2f, tfidf %.2f, semantic %.2f\n",
		r.ExactWeight, r.MetadataWeight, r.TFIDFWeight, r.SemanticWeight)
	cmd.Printf("  Min scores: tfidf %.2f, semantic %.2f\n", r.TFIDFMinScore, r.SemanticMinScore)
	cmd.Println()

	c := settings.Conversation
	cmd.Println("[Conversation]")
	cmd.Printf("  Entity fuzzy threshold: %d\n", c.EntityFuzzyThreshold)
	cmd.Printf("  Title fuzzy threshold: %d\n", c.TitleFuzzyThreshold)
	cmd.Printf("  Topic threshold: %.2f\n", c.TopicThreshold)
	cmd.Printf("  Fuzzy comparator: %s\n", enabled(c.FuzzyComparator))
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  TTL: %s\n", settings.Session.TTL)
	cmd.Printf("  Max sessions: %d\n", settings.Session.MaxSessions)
	cmd.Println()

	printProvider(cmd, "Embedding", settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	printProvider(cmd, "LLM", settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())

	a := settings.AI
	cmd.Println("[AI]")
	cmd.Printf("  Rate limit: %.1f/s (burst %d)\n", a.RatePerSecond, a.Burst)
	cmd.Printf("  Breaker: %d failures, open for %s\n", a.MaxFailures, a.BreakerTimeout)
	cmd.Printf("  Timeouts: embed %s, generate %s\n", a.EmbedTimeout, a.GenerateTimeout)
	cmd.Printf("  Cache: %d entries for %s (persistent: %s)\n", a.CacheSize, a.CacheTTL, enabled(a.PersistentCache))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	cmd.Println("[Tables]")
	if settings.Tables.Path != "" {
		cmd.Printf("  Path: %s\n", settings.Tables.Path)
	} else {
		cmd.Printf("  Path: (built-in)\n")
	}
	cmd.Printf("  Watch: %s\n", enabled(settings.Tables.Watch))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'archivo settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, section string, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("[%s]\n", section)
	cmd.Printf("  Provider: %s\n", provider.Description())
	if provider != domain.AIProviderNone {
		cmd.Printf("  Model: %s\n", model)
	}
	if provider.IsLocal() || baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Archivo Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Embedding Provider")
	cmd.Println("--------------------------")
	cmd.Println("Enables semantic ranking. Run 'archivo embed' after changing it.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: LLM Provider")
	cmd.Println("--------------------")
	cmd.Println("Presents search results as a conversational answer.")
	cmd.Println()
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureEmbeddingProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

// providerSetup describes one configurable AI capability.
type providerSetup struct {
	name     string
	defaults map[domain.AIProvider]string
	set      func(provider domain.AIProvider, model, apiKey string) error
	disable  func(settings *domain.AppSettings)
	validate func() error
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	return configureProvider(cmd, reader, providerSetup{
		name:     "embedding",
		defaults: domain.DefaultEmbeddingModels(),
		set:      settingsService.SetEmbeddingProvider,
		disable: func(s *domain.AppSettings) {
			s.Embedding = domain.EmbeddingSettings{}
		},
		validate: settingsService.ValidateEmbeddingConfig,
	})
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	return configureProvider(cmd, reader, providerSetup{
		name:     "LLM",
		defaults: domain.DefaultLLMModels(),
		set:      settingsService.SetLLMProvider,
		disable: func(s *domain.AppSettings) {
			s.LLM = domain.LLMSettings{}
		},
		validate: settingsService.ValidateLLMConfig,
	})
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, setup providerSetup) error {
	cmd.Printf("Select %s provider\n", setup.name)
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Printf("  %d. None (disable)\n", len(providers)+1)
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers)+1, 1)

	if idx == len(providers)+1 {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		setup.disable(settings)
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to disable %s provider: %w", setup.name, err)
		}
		cmd.Printf("%s provider disabled\n\n", strings.ToUpper(setup.name[:1])+setup.name[1:])
		return nil
	}
	selected := providers[idx-1]

	defaultModel := setup.defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// An empty key falls back to the provider's environment variable.
	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key (empty to use the environment): ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := setup.set(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", setup.name, err)
	}

	cmd.Print("Validating configuration... ")
	if err := setup.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", setup.name, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n\n", setup.name, selected.Description(), model)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is the terminal, and a plain
// line otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if isTerminal(in) {
		password, err := term.ReadPassword(int(in.(*os.File).Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
