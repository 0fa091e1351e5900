// ABOUTME: Document chunk and vector search result types
// ABOUTME: Chunks are immutable once written; insert-only lifecycle
package models

// DocumentChunk is the unit stored in the vector collection: one bounded
// substring of a scraped page together with its embedding vector.
type DocumentChunk struct {
	Vector []float64 `json:"$vector"`
	Text   string    `json:"text"`
}

// SearchResult is one ranked hit from a vector similarity search.
type SearchResult struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}
