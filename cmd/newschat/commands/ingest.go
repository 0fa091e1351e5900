// ABOUTME: Ingest command runs the offline scrape-chunk-embed-store batch
// ABOUTME: Per-source failures are logged and skipped; the batch continues
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/scraper"
	"github.com/joho/godotenv"
)

var ingestSources []string

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Scrape news sources into the vector collection",
		Long: `Scrape news sources into the vector collection.

Fetches each source page, splits the visible text into overlapping
chunks, embeds every chunk, and inserts the vectors. Re-running appends
duplicate chunks; the collection is insert-only.`,
		RunE: runIngest,
		Example: `  # Ingest the default news source list
  newschat ingest

  # Ingest specific pages
  newschat ingest --source https://www.bbc.com/news/world --source https://edition.cnn.com/`,
	}

	cmd.Flags().StringArrayVar(&ingestSources, "source", nil, "Source URL to ingest (repeatable; defaults to the built-in news list)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	d, err := buildDeps()
	if err != nil {
		return err
	}

	sources := ingestSources
	if len(sources) == 0 {
		sources = core.DefaultSources
	}

	splitter := core.NewTextSplitter(d.cfg.ChunkSize, d.cfg.ChunkOverlap)
	sc := scraper.NewHTTPScraper(d.cfg.MaxRetries, d.cfg.RetryDelay)
	ingestor := core.NewIngestor(sc, splitter, d.client, d.store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := ingestor.Run(ctx, sources)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d/%d chunks from %d source(s) (%d source(s) failed, %d chunk(s) failed)\n",
			stats.Inserted, stats.Chunks, stats.Sources, stats.SourcesFailed, stats.ChunksFailed)
	}
	return nil
}
