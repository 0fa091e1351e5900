// ABOUTME: VectorStore interface for chunk persistence and similarity search
// ABOUTME: Implemented by the Astra Data API client and the in-memory store
package storage

import (
	"context"

	"github.com/harper/newschat/internal/models"
)

// VectorStore persists document chunks in a named collection and answers
// nearest-neighbour queries against it. Implementations must be safe for
// concurrent use: the handle is long-lived and shared across requests.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	// "Already exists" is success; any other creation error is fatal.
	EnsureCollection(ctx context.Context) error

	// Insert writes one chunk. Chunks are immutable once written and are
	// never updated or deleted.
	Insert(ctx context.Context, chunk models.DocumentChunk) error

	// Search returns up to topK stored chunks ranked by similarity to the
	// query vector, best match first.
	Search(ctx context.Context, vector []float64, topK int) ([]models.SearchResult, error)
}
