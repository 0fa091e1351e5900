// ABOUTME: Handler tests for the chat API
// ABOUTME: Covers input validation, streamed success, and error surfaces
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/models"
)

// fakeEmbedder returns a fixed vector and counts calls
type fakeEmbedder struct {
	vector []float64
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	f.calls++
	return f.vector, nil
}

// fakeStore returns fixed results and counts calls
type fakeStore struct {
	results []models.SearchResult
	calls   int
}

func (f *fakeStore) EnsureCollection(_ context.Context) error               { return nil }
func (f *fakeStore) Insert(_ context.Context, _ models.DocumentChunk) error { return nil }
func (f *fakeStore) Search(_ context.Context, _ []float64, _ int) ([]models.SearchResult, error) {
	f.calls++
	return f.results, nil
}

// fakeGenerator emits scripted fragments and records the prompt
type fakeGenerator struct {
	fragments []string
	startErr  error
	streamErr error
	prompt    string
}

func (f *fakeGenerator) StreamCompletion(ctx context.Context, prompt string) (<-chan models.StreamChunk, error) {
	f.prompt = prompt
	if f.startErr != nil {
		return nil, f.startErr
	}
	ch := make(chan models.StreamChunk)
	go func() {
		defer close(ch)
		for _, frag := range f.fragments {
			select {
			case ch <- models.StreamChunk{Content: frag}:
			case <-ctx.Done():
				return
			}
		}
		ch <- models.StreamChunk{Done: true, Err: f.streamErr}
	}()
	return ch, nil
}

func vectorOf(dim int) []float64 {
	return make([]float64, dim)
}

func newTestServer(embedder *fakeEmbedder, store *fakeStore, gen *fakeGenerator) *Server {
	retriever := core.NewRetriever(embedder, store, 768, 10)
	return New(core.NewPipeline(retriever, gen, "SYSTEM"), ":0")
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v: %s", err, rec.Body.String())
	}
	return resp
}

func TestHandleChat_StreamsAnswer(t *testing.T) {
	embedder := &fakeEmbedder{vector: vectorOf(768)}
	store := &fakeStore{results: []models.SearchResult{
		{Text: "A", Score: 0.9},
		{Text: "B", Score: 0.8},
	}}
	gen := &fakeGenerator{fragments: []string{"Top ", "stories ", "today"}}
	srv := newTestServer(embedder, store, gen)

	rec := postChat(t, srv, `{"messages":[{"role":"user","content":"latest tech news"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if rec.Body.String() != "Top stories today" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Top stories today")
	}

	// The retrieved chunks must reach the prompt ranked and newline-joined.
	if !strings.Contains(gen.prompt, "A\nB") {
		t.Errorf("prompt missing context \"A\\nB\":\n%s", gen.prompt)
	}
}

func TestHandleChat_InvalidMessagesFormat(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"messages is a string", `{"messages": "not-an-array"}`},
		{"messages is an object", `{"messages": {"role":"user"}}`},
		{"messages is null", `{"messages": null}`},
		{"messages missing", `{}`},
		{"body is not JSON", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &fakeEmbedder{vector: vectorOf(768)}
			store := &fakeStore{}
			srv := newTestServer(embedder, store, &fakeGenerator{})

			rec := postChat(t, srv, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp := decodeError(t, rec); resp["error"] != "Invalid messages format" {
				t.Errorf("error = %q, want %q", resp["error"], "Invalid messages format")
			}
			if embedder.calls != 0 || store.calls != 0 {
				t.Error("no embedding or store calls may be issued for invalid input")
			}
		})
	}
}

func TestHandleChat_EmptyMessageContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty message list", `{"messages":[]}`},
		{"blank latest message", `{"messages":[{"role":"user","content":"   "}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := &fakeEmbedder{vector: vectorOf(768)}
			srv := newTestServer(embedder, &fakeStore{}, &fakeGenerator{})

			rec := postChat(t, srv, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp := decodeError(t, rec); resp["error"] != "No valid message content found" {
				t.Errorf("error = %q, want %q", resp["error"], "No valid message content found")
			}
			if embedder.calls != 0 {
				t.Error("no embedding calls may be issued for empty input")
			}
		})
	}
}

func TestHandleChat_DimensionMismatchIs500(t *testing.T) {
	embedder := &fakeEmbedder{vector: vectorOf(512)}
	store := &fakeStore{}
	srv := newTestServer(embedder, store, &fakeGenerator{})

	rec := postChat(t, srv, `{"messages":[{"role":"user","content":"news"}]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp["error"] != "Internal server error" {
		t.Errorf("error = %q, want %q", resp["error"], "Internal server error")
	}
	if resp["details"] == "" {
		t.Error("500 response should carry details")
	}
	if store.calls != 0 {
		t.Error("store must not be queried after a dimension mismatch")
	}
}

func TestHandleChat_GeneratorStartFailureIs500(t *testing.T) {
	gen := &fakeGenerator{startErr: errors.New("model unavailable")}
	srv := newTestServer(&fakeEmbedder{vector: vectorOf(768)}, &fakeStore{}, gen)

	rec := postChat(t, srv, `{"messages":[{"role":"user","content":"news"}]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestHandleChat_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeEmbedder{vector: vectorOf(768)}, &fakeStore{}, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleChat_MidStreamErrorKeepsPartialOutput(t *testing.T) {
	gen := &fakeGenerator{fragments: []string{"partial "}, streamErr: errors.New("model died")}
	srv := newTestServer(&fakeEmbedder{vector: vectorOf(768)}, &fakeStore{}, gen)

	rec := postChat(t, srv, `{"messages":[{"role":"user","content":"news"}]}`)

	// Output already flushed stays; the stream just ends.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 once streaming started", rec.Code)
	}
	if rec.Body.String() != "partial " {
		t.Errorf("body = %q, want the flushed partial output", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeEmbedder{vector: vectorOf(768)}, &fakeStore{}, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}
