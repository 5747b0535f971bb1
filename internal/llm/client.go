// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
)

// GenerationConfig is the fixed set of recognized sampling options.
// Callers may override any subset; zero values fall back to the
// process-wide defaults.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
	CandidateCount  int
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Messages     []ChatMessage
	Config       GenerationConfig
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content   string
	Model     string
	TokensIn  int
	TokensOut int
	LatencyMs int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	default:
		return NewOpenAIClient(apiKey)
	}
}
