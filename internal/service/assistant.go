// Package service provides business logic for the assistant platform.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/prompt"
	"github.com/swiftly-ai/assistant-api/internal/rag"
	"github.com/swiftly-ai/assistant-api/internal/session"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
	"github.com/swiftly-ai/assistant-api/pkg/metrics"
)

// AssistantService orchestrates a conversational turn: session append,
// prompt composition, generation, and recording the assistant reply.
type AssistantService struct {
	gateway   *llm.Gateway
	sessions  *session.Store
	retriever *rag.Retriever
	defaults  llm.GenerationConfig
	logger    *logger.Logger
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	gateway *llm.Gateway,
	sessions *session.Store,
	retriever *rag.Retriever,
	defaults llm.GenerationConfig,
	log *logger.Logger,
) *AssistantService {
	return &AssistantService{
		gateway:   gateway,
		sessions:  sessions,
		retriever: retriever,
		defaults:  defaults,
		logger:    log,
	}
}

// Ask runs a conversational turn. When sessionID is empty a new
// session is created. The returned response always carries the session
// identifier so the caller can continue the conversation.
func (s *AssistantService) Ask(ctx context.Context, req *model.AskRequest) (*model.AskResponse, error) {
	return s.ask(ctx, req, false)
}

// AskNatural runs a conversational turn through the
// retrieval-augmented prompt path.
func (s *AssistantService) AskNatural(ctx context.Context, req *model.AskRequest) (*model.AskResponse, error) {
	return s.ask(ctx, req, true)
}

func (s *AssistantService) ask(ctx context.Context, req *model.AskRequest, augmented bool) (*model.AskResponse, error) {
	start := time.Now()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.sessions.NewSessionID()
	}

	if err := s.sessions.Append(sessionID, model.RoleUser, req.Content, time.Time{}); err != nil {
		return nil, err
	}

	// Replay everything before the message just appended.
	history := s.sessions.ModelHistory(sessionID)
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	systemPrompt := prompt.BuildSystemPrompt(req.UserContext, time.Now())
	if augmented {
		systemPrompt = s.retriever.EnhancePrompt(req.Content, systemPrompt)
	}

	reply, err := s.gateway.Generate(ctx, systemPrompt, req.Content, history, s.defaults)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Append(sessionID, model.RoleAssistant, reply, time.Time{}); err != nil {
		return nil, err
	}

	processingTime := time.Since(start).Seconds()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	s.logger.Info("generated assistant response",
		zap.String("session_id", sessionID),
		zap.Bool("augmented", augmented),
		zap.Float64("processing_time", processingTime),
	)

	return &model.AskResponse{
		Response:       reply,
		ProcessingTime: processingTime,
		SessionID:      sessionID,
		Timestamp:      time.Now(),
	}, nil
}
