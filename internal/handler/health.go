package handler

import (
	"net/http"
	"time"

	"github.com/swiftly-ai/assistant-api/internal/config"
	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/model"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gateway *llm.Gateway
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(gateway *llm.Gateway) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

// Health handles GET /health. Status is degraded when the model
// capability never initialized; a missing credential does not crash
// the server.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.gateway.Available() {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:       status,
		APIConnected: h.gateway.Available(),
		ModelName:    h.gateway.ModelName(),
		Timestamp:    time.Now(),
		Version:      config.AppVersion,
	})
}
