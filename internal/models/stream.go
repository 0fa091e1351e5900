// ABOUTME: Streaming generation types for the relay pipe
// ABOUTME: StreamChunk fragments are ordered and terminated by Done or Err
package models

// StreamChunk is one incremental fragment of generated text. The stream
// ends with a chunk carrying Done (clean close) or Err (failure signal).
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// GenerationRequest carries everything needed for one generation call.
// Constructed fresh per query, never persisted.
type GenerationRequest struct {
	SystemPrompt string
	Context      string
	History      Conversation
	Question     string
}
