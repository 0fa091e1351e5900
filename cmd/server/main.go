// ABOUTME: Standalone entry point for the newschat HTTP server
// ABOUTME: Loads env config, wires the pipeline, and serves until interrupted
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/newschat/internal/config"
	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/llm"
	"github.com/harper/newschat/internal/server"
	"github.com/harper/newschat/internal/storage/astra"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (for API keys and DB credentials)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	store := astra.New(astra.Config{
		Endpoint:   cfg.DBEndpoint,
		Token:      cfg.DBToken,
		Namespace:  cfg.DBNamespace,
		Collection: cfg.DBCollection,
		Dimension:  cfg.VectorDimension,
		Metric:     cfg.SimilarityMetric,
		Timeout:    cfg.Timeout,
	})

	retriever := core.NewRetriever(client, store, cfg.VectorDimension, cfg.TopK)
	pipeline := core.NewPipeline(retriever, client, core.DefaultSystemInstruction)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(pipeline, cfg.ListenAddr).Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
