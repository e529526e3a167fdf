package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchExplain bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the archive",
	Long: `Ranks the archive for a single query without conversation memory.
Combines exact title, TF-IDF, metadata and semantic strategies with
reciprocal rank fusion.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "show query analysis and contributing strategies")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	if searchExplain {
		outputQueryAnalysis(cmd, searchService.Analyze(query))
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredDocument) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryAnalysis(cmd *cobra.Command, q domain.Query) {
	cmd.Println("Query:")
	cmd.Printf("  Normalized: %s\n", q.Normalized)
	e := q.Entities
	if len(e.Years) > 0 {
		cmd.Printf("  Years: %v\n", e.Years)
	}
	if e.DateRange != nil {
		cmd.Printf("  Range: %d-%d\n", e.DateRange.Start, e.DateRange.End)
	}
	if e.PeriodName != "" {
		cmd.Printf("  Period: %s\n", e.PeriodName)
	}
	if len(e.DocTypes) > 0 {
		cmd.Printf("  Document types: %s\n", strings.Join(e.DocTypes, ", "))
	}
	if len(e.Topics) > 0 {
		cmd.Printf("  Topics: %s\n", strings.Join(e.Topics, ", "))
	}
	if len(q.Expansions) > 1 {
		cmd.Printf("  Expansions: %s\n", strings.Join(q.Expansions[1:], " | "))
	}
	cmd.Println()
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredDocument) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		doc := &results[i]
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, doc.Title, doc.Score)
		cmd.Printf("      %s\n", doc.Href)
		if len(doc.Dates) > 0 {
			cmd.Printf("      Date: %s\n", doc.Dates[0])
		}
		if searchExplain {
			cmd.Printf("      Match: %s via %s\n", doc.MatchType, strings.Join(doc.Strategies, ", "))
		}
		cmd.Println()
	}

	return nil
}
