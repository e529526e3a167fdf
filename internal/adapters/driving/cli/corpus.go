package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

var (
	importEmbed   bool
	importNoIndex bool
	statusJSON    bool
)

var importCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Import archive records",
	Long: `Reads a JSON array of Dublin Core records exported from the archive,
normalises them into documents and stores them. Records with a missing
title or href are skipped, and the first record with a given href wins.

The TF-IDF index is refitted afterwards unless --no-index is given.
With --embed, document vectors are computed with the configured
embedding provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the TF-IDF index",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute missing document embeddings",
	Long: `Embeds every stored document that has no vector yet, using the
configured embedding provider. If the provider's model changed since the
last run, all vectors are recomputed.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus and search engine status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	importCmd.Flags().BoolVar(&importEmbed, "embed", false, "compute embeddings after importing")
	importCmd.Flags().BoolVar(&importNoIndex, "no-index", false, "skip rebuilding the TF-IDF index")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(statusCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	result, err := corpusService.Import(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d of %d records (%d duplicates, %d invalid) in %s\n",
		result.Imported, result.Records, result.Duplicates, result.Invalid, round(result.Duration))

	if !importNoIndex {
		if err := buildIndex(cmd); err != nil {
			return err
		}
	}
	if importEmbed {
		return embedDocuments(cmd)
	}
	return nil
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}
	return buildIndex(cmd)
}

func buildIndex(cmd *cobra.Command) error {
	result, err := corpusService.BuildIndex(cmd.Context())
	if errors.Is(err, domain.ErrCorpusEmpty) {
		return errors.New("no documents stored; run 'archivo import' first")
	}
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	cmd.Printf("Indexed %d documents, %d terms in %s\n", result.Documents, result.Terms, round(result.Duration))
	return nil
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}
	return embedDocuments(cmd)
}

func embedDocuments(cmd *cobra.Command) error {
	result, err := corpusService.Embed(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return errors.New("no embedding provider configured; run 'archivo settings embedding'")
	case errors.Is(err, domain.ErrCorpusEmpty):
		return errors.New("no documents stored; run 'archivo import' first")
	case err != nil:
		return fmt.Errorf("embedding failed: %w", err)
	}

	cmd.Printf("Embedded %d documents with %s (%d already embedded, %d failed) in %s\n",
		result.Embedded, result.Model, result.Skipped, result.Failed, round(result.Duration))
	if result.Failed > 0 {
		cmd.Println("Run 'archivo embed' again to retry the failed documents.")
	}
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	stats, err := corpusService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get corpus stats: %w", err)
	}

	var search *domain.SearchStatus
	if searchService != nil {
		s := searchService.Status()
		search = &s
	}

	if statusJSON {
		data, err := json.MarshalIndent(struct {
			Corpus domain.CorpusStats    `json:"corpus"`
			Search *domain.SearchStatus `json:"search,omitempty"`
		}{stats, search}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("[Corpus]")
	cmd.Printf("  Documents: %d\n", stats.Documents)
	cmd.Printf("  Index terms: %d\n", stats.IndexTerms)
	cmd.Printf("  Embeddings: %d\n", stats.Embeddings)
	if stats.EmbeddingModel != "" {
		cmd.Printf("  Embedding model: %s\n", stats.EmbeddingModel)
	}
	cmd.Println()

	if search != nil {
		cmd.Println("[Search]")
		cmd.Printf("  Semantic ranking: %s\n", enabled(search.Semantic))
		cmd.Printf("  Strategies: %v\n", search.Strategies)
		cmd.Println()
	}

	if stats.Documents == 0 {
		cmd.Println("No documents stored. Run 'archivo import <file.json>' to load the archive.")
	}
	return nil
}

func enabled(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
