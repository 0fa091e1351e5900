// ABOUTME: Unit tests for the ingestion batch pipeline
// ABOUTME: Verifies per-URL and per-chunk failure isolation and stats
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeScraper serves canned page text per URL
type fakeScraper struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

// failingEmbedder fails for chunks containing a marker substring
type failingEmbedder struct {
	failOn string
	dim    int
	calls  int
}

func (f *failingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls++
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding unavailable")
	}
	return make([]float64, f.dim), nil
}

func TestIngestor_FailedSourceDoesNotAbortBatch(t *testing.T) {
	sc := &fakeScraper{
		pages: map[string]string{
			"https://a.example": "alpha content",
			"https://c.example": "gamma content",
		},
		errs: map[string]error{
			"https://b.example": errors.New("connection timed out"),
		},
	}
	store := &fakeStore{}
	ing := NewIngestor(sc, NewTextSplitter(512, 100), &failingEmbedder{dim: 768}, store)

	stats, err := ing.Run(context.Background(), []string{
		"https://a.example", "https://b.example", "https://c.example",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sc.calls) != 3 {
		t.Errorf("scraped %d sources, want all 3", len(sc.calls))
	}
	if stats.SourcesFailed != 1 {
		t.Errorf("SourcesFailed = %d, want 1", stats.SourcesFailed)
	}
	if stats.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2 (one chunk per healthy source)", stats.Inserted)
	}
}

func TestIngestor_FailedChunkDoesNotAbortSource(t *testing.T) {
	// Two chunks: the second fails to embed, the rest must still insert.
	text := strings.Repeat("a", 512) + "POISON" + strings.Repeat("b", 500)
	sc := &fakeScraper{pages: map[string]string{"https://a.example": text}}
	store := &fakeStore{}
	ing := NewIngestor(sc, NewTextSplitter(512, 0), &failingEmbedder{dim: 768, failOn: "POISON"}, store)

	stats, err := ing.Run(context.Background(), []string{"https://a.example"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.ChunksFailed == 0 {
		t.Error("expected at least one failed chunk")
	}
	if stats.Inserted == 0 {
		t.Error("healthy chunks should still be inserted")
	}
	if stats.Inserted+stats.ChunksFailed != stats.Chunks {
		t.Errorf("stats don't add up: %+v", stats)
	}
}

func TestIngestor_InsertFailureIsIsolated(t *testing.T) {
	sc := &fakeScraper{pages: map[string]string{"https://a.example": "some news text"}}
	store := &fakeStore{insertErrOn: map[int]error{0: errors.New("write refused")}}
	ing := NewIngestor(sc, NewTextSplitter(512, 100), &failingEmbedder{dim: 768}, store)

	stats, err := ing.Run(context.Background(), []string{"https://a.example"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.ChunksFailed != 1 {
		t.Errorf("ChunksFailed = %d, want 1", stats.ChunksFailed)
	}
}

func TestIngestor_CollectionCreationFailureIsFatal(t *testing.T) {
	sc := &fakeScraper{pages: map[string]string{"https://a.example": "text"}}
	store := &fakeStore{ensureErr: fmt.Errorf("unauthorized")}
	ing := NewIngestor(sc, NewTextSplitter(512, 100), &failingEmbedder{dim: 768}, store)

	_, err := ing.Run(context.Background(), []string{"https://a.example"})
	if err == nil {
		t.Fatal("Run() should fail when collection creation fails")
	}
	if len(sc.calls) != 0 {
		t.Error("no source should be scraped after a fatal collection error")
	}
}

func TestIngestor_StoresChunkText(t *testing.T) {
	sc := &fakeScraper{pages: map[string]string{"https://a.example": "breaking news today"}}
	store := &fakeStore{}
	ing := NewIngestor(sc, NewTextSplitter(512, 100), &failingEmbedder{dim: 768}, store)

	if _, err := ing.Run(context.Background(), []string{"https://a.example"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d chunks, want 1", len(store.inserted))
	}
	chunk := store.inserted[0]
	if chunk.Text != "breaking news today" {
		t.Errorf("stored text = %q, want scraped text", chunk.Text)
	}
	if len(chunk.Vector) != 768 {
		t.Errorf("stored vector has %d components, want 768", len(chunk.Vector))
	}
}

func TestIngestor_CancelledContextStopsBatch(t *testing.T) {
	sc := &fakeScraper{pages: map[string]string{"https://a.example": "text"}}
	ing := NewIngestor(sc, NewTextSplitter(512, 100), &failingEmbedder{dim: 768}, &fakeStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Run(ctx, []string{"https://a.example"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
