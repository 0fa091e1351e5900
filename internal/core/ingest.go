// ABOUTME: Ingestor scrapes news sources, chunks them, and writes embeddings
// ABOUTME: Failures are isolated per URL and per chunk; the batch always continues
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/harper/newschat/internal/models"
	"github.com/harper/newschat/internal/scraper"
	"github.com/harper/newschat/internal/storage"
)

// DefaultSources is the fixed news source list ingested when none is given
var DefaultSources = []string{
	"https://en.wikipedia.org/wiki/Portal:Current_events",
	"https://www.bbc.com/news/world",
	"https://www.ndtv.com/world-news",
	"https://indianexpress.com/section/world/",
	"https://edition.cnn.com/",
	"https://indianexpress.com/",
	"https://www.ndtv.com/",
	"https://www.indiatoday.in/",
}

// Stats summarizes one ingestion run
type Stats struct {
	Sources       int `json:"sources"`
	SourcesFailed int `json:"sources_failed"`
	Chunks        int `json:"chunks"`
	ChunksFailed  int `json:"chunks_failed"`
	Inserted      int `json:"inserted"`
}

// Ingestor runs the offline batch: scrape, split, embed, insert. Sequential
// per source and per chunk; ingestion is a batch job, not a hot path.
type Ingestor struct {
	scraper  scraper.Scraper
	splitter *TextSplitter
	embedder Embedder
	store    storage.VectorStore
}

// NewIngestor wires an ingestor from its injected dependencies
func NewIngestor(sc scraper.Scraper, splitter *TextSplitter, embedder Embedder, store storage.VectorStore) *Ingestor {
	return &Ingestor{
		scraper:  sc,
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
}

// Run ingests every source URL in order. Collection creation happens first
// and is the only fatal step; scraping or embedding failures are logged and
// skipped. Re-running over the same sources appends duplicate chunks: the
// store is insert-only and this design does not deduplicate.
func (in *Ingestor) Run(ctx context.Context, urls []string) (Stats, error) {
	var stats Stats

	if err := in.store.EnsureCollection(ctx); err != nil {
		return stats, fmt.Errorf("ensuring collection: %w", err)
	}

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Sources++

		log.Printf("Scraping %s", url)
		text, err := in.scraper.Scrape(ctx, url)
		if err != nil {
			log.Printf("Warning: scraping %s: %v", url, err)
			stats.SourcesFailed++
			continue
		}

		chunks := in.splitter.Split(text)
		log.Printf("Inserting %d chunks for %s", len(chunks), url)

		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Chunks++

			vector, err := in.embedder.Embed(ctx, chunk)
			if err != nil {
				log.Printf("Warning: embedding chunk for %s: %v", url, err)
				stats.ChunksFailed++
				continue
			}

			doc := models.DocumentChunk{Vector: vector, Text: chunk}
			if err := in.store.Insert(ctx, doc); err != nil {
				log.Printf("Warning: inserting chunk for %s: %v", url, err)
				stats.ChunksFailed++
				continue
			}
			stats.Inserted++
		}
	}

	return stats, nil
}
