package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

type stubClient struct {
	calls   int
	lastReq *llm.CompletionRequest
	reply   string
	err     error
}

func (c *stubClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &llm.CompletionResponse{Content: c.reply, Model: "stub-model"}, nil
}

func (c *stubClient) Name() string { return "stub" }

func (c *stubClient) Models() []string { return []string{"stub-model"} }

func TestGenerateUnavailableWithoutClient(t *testing.T) {
	gateway := llm.NewGateway(nil, "stub-model", logger.NewNop())

	_, err := gateway.Generate(context.Background(), "system", "hello", nil, llm.GenerationConfig{})
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if gateway.Available() {
		t.Fatal("gateway without client should report unavailable")
	}
}

func TestGenerateReturnsTrimmedContent(t *testing.T) {
	client := &stubClient{reply: "  the answer  \n"}
	gateway := llm.NewGateway(client, "stub-model", logger.NewNop())

	got, err := gateway.Generate(context.Background(), "system", "question", nil, llm.GenerationConfig{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "the answer" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
}

func TestGenerateDegradesToApology(t *testing.T) {
	client := &stubClient{err: errors.New("quota exceeded")}
	gateway := llm.NewGateway(client, "stub-model", logger.NewNop())

	got, err := gateway.Generate(context.Background(), "system", "question", nil, llm.GenerationConfig{})
	if err != nil {
		t.Fatalf("upstream failures must not propagate, got %v", err)
	}
	if got != llm.ApologyMessage {
		t.Fatalf("expected apology, got %q", got)
	}
}

func TestGenerateReplaysHistoryAsTurns(t *testing.T) {
	client := &stubClient{reply: "ok"}
	gateway := llm.NewGateway(client, "stub-model", logger.NewNop())

	history := []model.Turn{
		{Role: model.RoleUser, Parts: []model.TextPart{{Text: "earlier question"}}},
		{Role: model.RoleAssistant, Parts: []model.TextPart{{Text: "earlier answer"}}},
	}

	if _, err := gateway.Generate(context.Background(), "system", "new question", history, llm.GenerationConfig{}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	req := client.lastReq
	if req.SystemPrompt != "system" {
		t.Fatalf("system prompt not forwarded, got %q", req.SystemPrompt)
	}
	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 messages (2 history + current), got %d", len(req.Messages))
	}
	if req.Messages[0].Content != "earlier question" || req.Messages[1].Content != "earlier answer" {
		t.Fatal("history turns not replayed in order")
	}
	if req.Messages[2].Role != "user" || req.Messages[2].Content != "new question" {
		t.Fatal("current message must be the final user turn")
	}
}
