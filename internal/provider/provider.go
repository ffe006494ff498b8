package provider

import (
	"context"
)

// Provider is a chat-completion backend (OpenAI, Anthropic). The analysis
// layer always needs a complete reply it can parse, so the contract is
// non-streaming.
type Provider interface {
	// Name identifies the backend in logs.
	Name() string

	// Chat performs a chat completion and returns the assistant reply.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}

// Message represents a chat message.
type Message struct {
	Role    string
	Content string
}

// Role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
