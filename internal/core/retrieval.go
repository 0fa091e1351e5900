// ABOUTME: Retriever embeds a query, validates dimensionality, and searches the store
// ABOUTME: Retrieved chunk texts are joined into the context string for generation
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/harper/newschat/internal/models"
	"github.com/harper/newschat/internal/storage"
)

// ErrInvalidEmbedding signals an absent embedding or one whose length does
// not match the collection dimension. The request must abort before any
// store query is issued.
var ErrInvalidEmbedding = errors.New("invalid embedding vector")

// Retriever answers one user query with ranked context from the vector store
type Retriever struct {
	embedder  Embedder
	store     storage.VectorStore
	dimension int
	topK      int
}

// NewRetriever wires a retriever from its injected dependencies
func NewRetriever(embedder Embedder, store storage.VectorStore, dimension, topK int) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     store,
		dimension: dimension,
		topK:      topK,
	}
}

// EmbedQuery embeds the query text and enforces the collection dimension
func (r *Retriever) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vector) != r.dimension {
		return nil, fmt.Errorf("%w: expected %d components, got %d",
			ErrInvalidEmbedding, r.dimension, len(vector))
	}
	return vector, nil
}

// SearchContext queries the store for the topK nearest chunks and joins
// their trimmed, non-empty texts in ranked order. An empty context is a
// warning, not an error: generation proceeds without grounding.
func (r *Retriever) SearchContext(ctx context.Context, vector []float64) (string, []models.SearchResult, error) {
	results, err := r.store.Search(ctx, vector, r.topK)
	if err != nil {
		return "", nil, fmt.Errorf("searching collection: %w", err)
	}

	texts := make([]string, 0, len(results))
	for _, res := range results {
		if text := strings.TrimSpace(res.Text); text != "" {
			texts = append(texts, text)
		}
	}

	contextString := strings.Join(texts, "\n")
	if contextString == "" {
		log.Printf("Warning: no context retrieved from collection")
	}
	return contextString, results, nil
}

// Retrieve runs the full embed-then-search step for one query
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, []models.SearchResult, error) {
	vector, err := r.EmbedQuery(ctx, query)
	if err != nil {
		return "", nil, err
	}
	return r.SearchContext(ctx, vector)
}
