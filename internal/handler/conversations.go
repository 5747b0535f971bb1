package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swiftly-ai/assistant-api/internal/middleware"
	"github.com/swiftly-ai/assistant-api/internal/session"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

// ConversationHandler handles session management endpoints.
type ConversationHandler struct {
	sessions *session.Store
	logger   *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(sessions *session.Store, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		sessions: sessions,
		logger:   log,
	}
}

// Clear handles DELETE /conversation/{session_id}
func (h *ConversationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.sessions.Clear(sessionID) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Conversation history cleared for session %s", sessionID),
	})
}

// Info handles GET /conversation/{session_id}/info
func (h *ConversationHandler) Info(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, ok := h.sessions.Info(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, info)
}
