// ABOUTME: TextSplitter cuts scraped text into overlapping bounded-size chunks
// ABOUTME: Consecutive chunks share the configured overlap for context continuity
package core

import "strings"

// TextSplitter splits text into chunks of at most chunkSize characters,
// each overlapping the previous by overlap characters.
type TextSplitter struct {
	chunkSize int
	overlap   int
}

// NewTextSplitter creates a splitter. Non-positive sizes fall back to the
// 512/100 defaults; overlap is clamped below chunkSize so windows advance.
func NewTextSplitter(chunkSize, overlap int) *TextSplitter {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &TextSplitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns consecutive substrings covering the whole input with no
// gaps. Whitespace-only chunks are filtered out: they must never reach the
// embedding step. Empty input yields nil; input shorter than the chunk
// size yields a single chunk.
func (s *TextSplitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}
	}
	return chunks
}
