// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/middleware"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/service"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

// AssistantHandler handles the conversational and intent endpoints.
type AssistantHandler struct {
	assistant *service.AssistantService
	intent    *service.IntentService
	logger    *logger.Logger
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistant *service.AssistantService, intent *service.IntentService, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		intent:    intent,
		logger:    log,
	}
}

// Ask handles POST /ask
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, h.assistant.Ask)
}

// AskNatural handles POST /ask-natural, the retrieval-augmented path.
func (h *AssistantHandler) AskNatural(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, h.assistant.AskNatural)
}

func (h *AssistantHandler) ask(
	w http.ResponseWriter,
	r *http.Request,
	generate func(context.Context, *model.AskRequest) (*model.AskResponse, error),
) {
	var req model.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Reject blank input before anything downstream runs.
	if err := middleware.ValidateContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := generate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "AI model not initialized")
			return
		}
		h.logger.Error("failed to generate response")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AnalyzeTaskIntent handles POST /analyze-task-intent
func (h *AssistantHandler) AnalyzeTaskIntent(w http.ResponseWriter, r *http.Request) {
	var req model.TaskIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, elapsed, err := h.intent.AnalyzeTaskIntent(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "AI model not initialized")
			return
		}
		h.logger.Error("failed to analyze task intent")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, model.TaskIntentResponse{
		TaskIntentResult: result,
		ProcessingTime:   elapsed,
	})
}
