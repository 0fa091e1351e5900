// ABOUTME: CLI command to search the news collection by semantic similarity
// ABOUTME: Prints ranked chunks as a table or JSON
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var searchLimit int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search ingested news chunks",
		Long: `Search ingested news chunks by vector similarity.

Embeds the query and returns the best-matching stored chunks with their
similarity scores.

Examples:
  newschat search "latest tech news"
  newschat search --limit 5 "sports results"
  newschat search --format json "stock markets"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}

	query := args[0]
	_, results, err := d.retriever.Retrieve(context.Background(), query)
	if err != nil {
		return fmt.Errorf("searching news: %w", err)
	}
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No chunks found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t-------\n")
	for _, result := range results {
		fmt.Fprintf(w, "%.3f\t%s\n", result.Score, truncate(result.Text, 80))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}
