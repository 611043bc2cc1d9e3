// Package llm defines the completion port consumed by the conversation
// orchestrator and an HTTP provider implementation.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMTimeout      = errors.New("LLM_TIMEOUT")
	ErrLLMUnavailable  = errors.New("LLM_UNAVAILABLE")
	ErrEmptyCompletion = errors.New("EMPTY_COMPLETION")
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the provider message list.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params are the sampling parameters of one completion request.
type Params struct {
	Model            string  `json:"model"`
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	PresencePenalty  float64 `json:"presence_penalty"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
}

// Client is the single injected capability for talking to the LLM provider.
// Implementations own their transport-level timeout and retry policy;
// business logic stays out of it.
type Client interface {
	Complete(ctx context.Context, messages []ChatMessage, params Params) (string, error)
}
