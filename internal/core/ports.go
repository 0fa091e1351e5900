// ABOUTME: Interfaces the pipeline consumes for embedding and generation
// ABOUTME: Satisfied by the llm.Client; tests substitute in-package fakes
package core

import (
	"context"

	"github.com/harper/newschat/internal/models"
)

// Embedder maps text to a fixed-length numeric vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator streams a chat completion for an assembled prompt. The channel
// delivers fragments in arrival order and is closed after Done or Err.
type Generator interface {
	StreamCompletion(ctx context.Context, prompt string) (<-chan models.StreamChunk, error)
}
