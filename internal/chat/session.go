// ABOUTME: Client-side chat session: conversation state, streaming submit, cancel
// ABOUTME: Assistant placeholder is overwritten with cumulative decoded text
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/harper/newschat/internal/models"
)

// ErrorReply is appended in place of the assistant answer when a request
// fails for any reason other than user cancellation.
const ErrorReply = "Sorry, there was an error processing your request."

// Session holds one in-memory conversation against a chat endpoint.
// State lives only for the session; Clear or process exit discards it.
type Session struct {
	endpoint string
	client   *http.Client

	mu       sync.Mutex
	messages models.Conversation
	cancel   context.CancelFunc
	loading  bool
}

// NewSession creates a session talking to the given /api/chat endpoint
func NewSession(endpoint string) *Session {
	return &Session{
		endpoint: endpoint,
		// Streaming responses can run for minutes; no client timeout.
		client: &http.Client{Timeout: 0},
	}
}

// Messages returns a copy of the conversation so far
func (s *Session) Messages() models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(models.Conversation, len(s.messages))
	copy(out, s.messages)
	return out
}

// Loading reports whether a request is in flight
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Submit sends content as the next user message and streams the assistant
// reply, invoking onUpdate with the cumulative reply text as fragments
// decode. Cancellation (via Cancel, Clear, or ctx) stops silently: the
// partial reply stays if any text arrived, otherwise the placeholder is
// removed. Any other failure replaces the placeholder with ErrorReply.
func (s *Session) Submit(ctx context.Context, content string, onUpdate func(partial string)) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.messages = append(s.messages,
		models.Message{Role: models.RoleUser, Content: content},
		models.Message{Role: models.RoleAssistant, Content: ""},
	)
	// History sent to the server includes the new user message but not the
	// empty assistant placeholder.
	history := make(models.Conversation, len(s.messages)-1)
	copy(history, s.messages[:len(s.messages)-1])

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}()

	resp, err := s.post(reqCtx, history)
	if err != nil {
		if isAbort(err) {
			s.dropEmptyPlaceholder()
			return nil
		}
		s.setPlaceholder(ErrorReply, onUpdate)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.setPlaceholder(ErrorReply, onUpdate)
		return fmt.Errorf("server returned %s", resp.Status)
	}

	var raw []byte
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			raw = append(raw, buf[:n]...)
			// Only surface complete UTF-8 runes; a fragment may split a
			// multi-byte sequence across reads.
			s.setPlaceholder(string(raw[:completePrefix(raw)]), onUpdate)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if isAbort(err) {
				s.dropEmptyPlaceholder()
				return nil
			}
			s.setPlaceholder(ErrorReply, onUpdate)
			return fmt.Errorf("reading stream: %w", err)
		}
	}
}

// Cancel aborts the in-flight request, if any
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Clear aborts any in-flight request and empties the conversation
func (s *Session) Clear() {
	s.Cancel()
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

func (s *Session) post(ctx context.Context, history models.Conversation) (*http.Response, error) {
	payload, err := json.Marshal(map[string]any{"messages": history})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.client.Do(req)
}

// setPlaceholder overwrites the trailing assistant message with the
// cumulative reply text.
func (s *Session) setPlaceholder(text string, onUpdate func(string)) {
	s.mu.Lock()
	if n := len(s.messages); n > 0 && s.messages[n-1].Role == models.RoleAssistant {
		s.messages[n-1].Content = text
	}
	s.mu.Unlock()

	if onUpdate != nil {
		onUpdate(text)
	}
}

// dropEmptyPlaceholder removes the assistant placeholder after an abort if
// nothing streamed in; a partially filled reply is kept.
func (s *Session) dropEmptyPlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.messages); n > 0 &&
		s.messages[n-1].Role == models.RoleAssistant && s.messages[n-1].Content == "" {
		s.messages = s.messages[:n-1]
	}
}

// completePrefix returns the length of the longest prefix of b that ends on
// a complete UTF-8 rune boundary.
func completePrefix(b []byte) int {
	n := len(b)
	for i := n - 1; i >= 0 && i >= n-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return n
			}
			return i
		}
	}
	return n
}

func isAbort(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	// net/http wraps the context error inside *url.Error on aborted requests
	return strings.Contains(err.Error(), context.Canceled.Error())
}
