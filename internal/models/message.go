// ABOUTME: Chat message and conversation types shared by client and server
// ABOUTME: A Conversation is an ordered, append-only message history
package models

import "strings"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered message history, oldest first.
type Conversation []Message

// LatestContent returns the trimmed content of the newest message,
// or "" for an empty conversation.
func (c Conversation) LatestContent() string {
	if len(c) == 0 {
		return ""
	}
	return strings.TrimSpace(c[len(c)-1].Content)
}

// History returns the conversation excluding the newest message.
func (c Conversation) History() Conversation {
	if len(c) == 0 {
		return nil
	}
	return c[:len(c)-1]
}
