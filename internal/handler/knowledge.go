package handler

import (
	"net/http"
	"strconv"

	"github.com/swiftly-ai/assistant-api/internal/middleware"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/rag"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
	"github.com/swiftly-ai/assistant-api/pkg/metrics"
)

const searchMinScore = 0.1

// KnowledgeHandler handles knowledge base endpoints.
type KnowledgeHandler struct {
	store  *rag.Store
	logger *logger.Logger
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(store *rag.Store, log *logger.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		store:  store,
		logger: log,
	}
}

// Stats handles GET /rag/stats
func (h *KnowledgeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.store.Stats()
	metrics.KnowledgeDocuments.Set(float64(stats.TotalDocuments))

	writeJSON(w, http.StatusOK, model.StatsResponse{
		RAGStats: stats,
		Status:   "active",
	})
}

// Search handles GET /rag/search?query=&limit=
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if err := middleware.ValidateQuery(query); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	matches := h.store.Search(query, limit, searchMinScore)
	metrics.KnowledgeSearchesTotal.Inc()

	results := make([]model.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, model.SearchResult{
			ID:       m.Document.ID,
			Content:  m.Document.Content,
			Metadata: m.Document.Metadata,
			Score:    m.Score,
		})
	}

	writeJSON(w, http.StatusOK, model.SearchResponse{
		Query:        query,
		Results:      results,
		TotalResults: len(results),
	})
}
