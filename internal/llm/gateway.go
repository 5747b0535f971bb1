package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
	"github.com/swiftly-ai/assistant-api/pkg/metrics"
)

// ErrUnavailable indicates the underlying model handle was never
// successfully initialized, usually a missing credential.
var ErrUnavailable = errors.New("language model not initialized")

// ApologyMessage is the fixed, user-safe text returned when a
// generation attempt fails. Raw upstream errors never reach callers.
const ApologyMessage = "I apologize, but I'm having trouble processing your request right now."

// Gateway is the boundary to the external model capability. It holds
// the configured model name and converts upstream generation failures
// into the apology string after logging them.
type Gateway struct {
	client Client
	model  string
	logger *logger.Logger
}

// NewGateway creates a gateway over client, which may be nil when no
// credential was configured; the gateway then reports unavailable.
func NewGateway(client Client, modelName string, log *logger.Logger) *Gateway {
	return &Gateway{
		client: client,
		model:  modelName,
		logger: log,
	}
}

// Available reports whether the underlying model handle initialized.
func (g *Gateway) Available() bool {
	return g.client != nil
}

// ModelName returns the configured model name.
func (g *Gateway) ModelName() string {
	return g.model
}

// Generate sends the composed prompt, prior turns, and the user's
// message to the model and returns the generated text. History is
// replayed as turn-structured context, never inlined into the prompt.
//
// It fails only when the capability is unavailable. Any failure during
// generation is logged with full detail and degraded to the apology
// string so the conversation stays coherent.
func (g *Gateway) Generate(ctx context.Context, systemPrompt, userContent string, history []model.Turn, cfg GenerationConfig) (string, error) {
	if g.client == nil {
		return "", ErrUnavailable
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		var parts []string
		for _, p := range turn.Parts {
			parts = append(parts, p.Text)
		}
		messages = append(messages, ChatMessage{
			Role:    string(turn.Role),
			Content: strings.Join(parts, "\n"),
		})
	}
	messages = append(messages, ChatMessage{Role: string(model.RoleUser), Content: userContent})

	start := time.Now()
	resp, err := g.client.Complete(ctx, &CompletionRequest{
		Model:        g.model,
		SystemPrompt: systemPrompt,
		Messages:     messages,
		Config:       cfg,
	})
	if err != nil {
		g.logger.Error("generation failed",
			zap.String("model", g.model),
			zap.String("provider", g.client.Name()),
			zap.Error(err),
		)
		metrics.RecordGeneration(g.model, "error", time.Since(start).Seconds(), 0, 0)
		return ApologyMessage, nil
	}

	metrics.RecordGeneration(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	return strings.TrimSpace(resp.Content), nil
}
