// ABOUTME: HTTP server exposing the chat pipeline as a streamed text endpoint
// ABOUTME: POST /api/chat relays generated fragments; errors surface as JSON
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/models"
)

// Server serves the chat API over HTTP
type Server struct {
	pipeline *core.Pipeline
	addr     string
}

// New creates a server around a wired pipeline
func New(pipeline *core.Pipeline, addr string) *Server {
	return &Server{pipeline: pipeline, addr: addr}
}

// Handler builds the full route mux with middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/health", s.handleHealth)
	return loggingMiddleware(mux)
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// No write timeout: responses stream for as long as generation runs
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("newschat server starting on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// chatRequest defers decoding of messages so a non-array value can be
// rejected with the documented 400 instead of a generic decode error.
type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// handleChat runs one request through the pipeline and streams the answer
// as raw text/plain fragments.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid messages format", "")
		return
	}

	var conv models.Conversation
	if len(req.Messages) == 0 || string(req.Messages) == "null" ||
		json.Unmarshal(req.Messages, &conv) != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid messages format", "")
		return
	}

	if conv.LatestContent() == "" {
		writeJSONError(w, http.StatusBadRequest, "No valid message content found", "")
		return
	}

	stream, err := s.pipeline.Respond(r.Context(), conv)
	if err != nil {
		log.Printf("Error in chat handler: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	flusher, _ := w.(http.Flusher)
	wroteHeader := false

	for chunk := range stream {
		if chunk.Content != "" {
			if !wroteHeader {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				wroteHeader = true
			}
			if _, err := w.Write([]byte(chunk.Content)); err != nil {
				// Client went away; the cancelled request context stops
				// the producer.
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if chunk.Err != nil {
			if !wroteHeader {
				writeJSONError(w, http.StatusInternalServerError, "Internal server error", chunk.Err.Error())
				return
			}
			// Partial output already flushed is left as-is; the stream just
			// ends with the error logged server-side.
			log.Printf("Error during stream: %v", chunk.Err)
			return
		}
		if chunk.Done {
			break
		}
	}

	if !wroteHeader {
		// Model produced no fragments; close out an empty 200 body.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// errorResponse is the JSON error body shape
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Details: details})
}

// loggingMiddleware logs each request with method, path, and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
