// ABOUTME: OpenAI client for query/chunk embeddings and streaming chat completions
// ABOUTME: Embeddings are requested at a fixed dimensionality to match the collection
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/harper/newschat/internal/config"
	"github.com/harper/newschat/internal/models"
	"github.com/harper/newschat/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// Client wraps the OpenAI API client with retry logic
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimensions     int
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates an OpenAI-backed client from configuration
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &Client{
		api:            openai.NewClient(cfg.OpenAIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions:     cfg.VectorDimension,
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Embed generates an embedding vector for the given text. The vector is
// requested at the configured dimensionality; validating the returned
// length against the collection is the caller's responsibility.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.api.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input:      []string{text},
			Model:      c.embeddingModel,
			Dimensions: c.dimensions,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}

// StreamCompletion starts a streaming chat completion for the assembled
// prompt and relays every fragment in arrival order. The returned channel
// is unbuffered: the consumer's pace throttles how fast fragments are
// pulled from the model. It is closed after a Done or Err chunk.
func (c *Client) StreamCompletion(ctx context.Context, prompt string) (<-chan models.StreamChunk, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting completion stream: %w", err)
	}

	ch := make(chan models.StreamChunk)

	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				select {
				case ch <- models.StreamChunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
			if err != nil {
				select {
				case ch <- models.StreamChunk{Done: true, Err: err}:
				case <-ctx.Done():
				}
				return
			}

			if len(resp.Choices) == 0 {
				continue
			}
			content := resp.Choices[0].Delta.Content
			if content == "" {
				continue
			}

			select {
			case ch <- models.StreamChunk{Content: content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
