// ABOUTME: Pipeline drives one chat request from embedding through streamed generation
// ABOUTME: Explicit state machine; Failed reachable from any state, Closed on success
package core

import (
	"context"
	"fmt"
	"log"

	"github.com/harper/newschat/internal/models"
)

// State is the stage a single streaming response is in
type State int

const (
	StateIdle State = iota
	StateEmbeddingQuery
	StateVectorSearch
	StatePromptAssembly
	StateStreaming
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEmbeddingQuery:
		return "embedding-query"
	case StateVectorSearch:
		return "vector-search"
	case StatePromptAssembly:
		return "prompt-assembly"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Pipeline holds the long-lived serving dependencies. Each request runs
// independently through Respond; there is no shared mutable state between
// concurrent requests beyond the injected handles.
type Pipeline struct {
	retriever    *Retriever
	generator    Generator
	systemPrompt string
}

// NewPipeline wires the serving pipeline
func NewPipeline(retriever *Retriever, generator Generator, systemPrompt string) *Pipeline {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemInstruction
	}
	return &Pipeline{
		retriever:    retriever,
		generator:    generator,
		systemPrompt: systemPrompt,
	}
}

// Respond answers the conversation's latest message with a relayed stream of
// generated fragments. Errors before streaming begins are returned directly,
// wrapped with the failing stage; errors mid-stream arrive as an Err chunk.
// Cancelling ctx stops both producer and relay promptly.
func (p *Pipeline) Respond(ctx context.Context, conv models.Conversation) (<-chan models.StreamChunk, error) {
	question := conv.LatestContent()
	if question == "" {
		return nil, fmt.Errorf("no valid message content found")
	}

	state := StateEmbeddingQuery
	vector, err := p.retriever.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", state, err)
	}

	state = StateVectorSearch
	contextString, _, err := p.retriever.SearchContext(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", state, err)
	}

	state = StatePromptAssembly
	req := BuildPrompt(p.systemPrompt, contextString, conv.History(), question)
	prompt := RenderPrompt(req)

	state = StateStreaming
	source, err := p.generator.StreamCompletion(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", state, err)
	}

	// Relay fragments one at a time on an unbuffered channel so consumer
	// backpressure throttles the producer. Terminal chunks end the relay:
	// Err is Failed, Done is Closed.
	out := make(chan models.StreamChunk)
	go func() {
		defer close(out)

		for chunk := range source {
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			if chunk.Err != nil {
				log.Printf("Warning: generation stream failed (%s): %v", StateFailed, chunk.Err)
				return
			}
			if chunk.Done {
				return
			}
		}
	}()

	return out, nil
}
