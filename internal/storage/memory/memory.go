// ABOUTME: In-memory VectorStore with brute-force similarity search
// ABOUTME: Used for tests and local runs without an Astra DB collection
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/harper/newschat/internal/models"
)

// Store is an in-process vector store. Chunks live for the lifetime of the
// process; there is no update or delete, matching the collection contract.
type Store struct {
	dimension int
	metric    string

	mu     sync.RWMutex
	chunks []models.DocumentChunk
}

// New creates a store for vectors of the given dimension.
// Supported metrics: "dot_product" (default) and "cosine".
func New(dimension int, metric string) *Store {
	if metric == "" {
		metric = "dot_product"
	}
	return &Store{dimension: dimension, metric: metric}
}

// EnsureCollection is a no-op: the collection is the store itself
func (s *Store) EnsureCollection(_ context.Context) error {
	return nil
}

// Insert appends one chunk after validating its dimensionality
func (s *Store) Insert(_ context.Context, chunk models.DocumentChunk) error {
	if len(chunk.Vector) != s.dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", s.dimension, len(chunk.Vector))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
	return nil
}

// Search scores every stored chunk against the query vector and returns
// the topK best matches, highest score first.
func (s *Store) Search(_ context.Context, vector []float64, topK int) ([]models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.SearchResult, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		results = append(results, models.SearchResult{
			Text:  chunk.Text,
			Score: s.score(vector, chunk.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Len reports how many chunks are stored
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *Store) score(a, b []float64) float64 {
	if s.metric == "cosine" {
		return cosineSimilarity(a, b)
	}
	return dotProduct(a, b)
}

func dotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
