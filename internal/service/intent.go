package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/prompt"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
	"github.com/swiftly-ai/assistant-api/pkg/metrics"
)

// IntentService extracts structured task intent from free text. It is
// stateless across calls and never couples to a session.
type IntentService struct {
	gateway  *llm.Gateway
	sampling llm.GenerationConfig
	logger   *logger.Logger
}

// NewIntentService creates an intent service with the given sampling
// configuration (typically low temperature, small token budget).
func NewIntentService(gateway *llm.Gateway, sampling llm.GenerationConfig, log *logger.Logger) *IntentService {
	return &IntentService{
		gateway:  gateway,
		sampling: sampling,
		logger:   log,
	}
}

// rawIntent mirrors the JSON object the extraction prompt demands.
type rawIntent struct {
	HasTaskIntent bool    `json:"hasTaskIntent"`
	TaskName      *string `json:"taskName"`
	DueDate       *string `json:"dueDate"`
	Priority      *string `json:"priority"`
	NeedsClarity  bool    `json:"needsClarity"`
}

// AnalyzeTaskIntent asks the model for a strict JSON verdict on the
// message and parses it tolerantly. Generation or parse failures
// degrade to the neutral "no intent" result; the caller always gets a
// verdict plus elapsed processing time.
func (s *IntentService) AnalyzeTaskIntent(ctx context.Context, content string) (model.TaskIntentResult, float64, error) {
	start := time.Now()

	extractionPrompt := prompt.BuildTaskIntentPrompt(content)

	text, err := s.gateway.Generate(ctx, "", extractionPrompt, nil, s.sampling)
	if err != nil {
		return model.TaskIntentResult{}, time.Since(start).Seconds(), err
	}

	result := decodeIntent(text, s.logger)
	elapsed := time.Since(start).Seconds()

	metrics.TaskIntentTotal.WithLabelValues(boolLabel(result.HasTaskIntent)).Inc()
	s.logger.Info("task intent analyzed",
		zap.Bool("has_task_intent", result.HasTaskIntent),
		zap.Float64("processing_time", elapsed),
	)
	return result, elapsed, nil
}

// decodeIntent is the single tolerant decode step for the model's
// structured output. Missing keys map to their neutral values and
// malformed JSON degrades to the neutral result; it never fails.
func decodeIntent(text string, log *logger.Logger) model.TaskIntentResult {
	var raw rawIntent
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		log.Warn("failed to parse task intent response", zap.Error(err))
		return model.NeutralIntent()
	}

	return model.TaskIntentResult{
		HasTaskIntent: raw.HasTaskIntent,
		TaskName:      raw.TaskName,
		DueDate:       raw.DueDate,
		Priority:      raw.Priority,
		NeedsClarity:  raw.NeedsClarity,
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
