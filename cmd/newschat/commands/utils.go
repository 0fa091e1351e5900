// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Dependency wiring from config plus small output helpers
package commands

import (
	"fmt"

	"github.com/harper/newschat/internal/config"
	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/llm"
	"github.com/harper/newschat/internal/storage"
	"github.com/harper/newschat/internal/storage/astra"
)

// deps bundles the long-lived handles the serving commands need. They are
// constructed once and reused across requests.
type deps struct {
	cfg       *config.Config
	client    *llm.Client
	store     storage.VectorStore
	retriever *core.Retriever
}

// buildDeps loads configuration and constructs the OpenAI client, the Astra
// store, and the retriever over them. Missing required configuration fails
// here, before any work starts.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
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

	return &deps{
		cfg:       cfg,
		client:    client,
		store:     store,
		retriever: core.NewRetriever(client, store, cfg.VectorDimension, cfg.TopK),
	}, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
