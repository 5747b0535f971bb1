package model

import (
	"time"
)

// UserContext carries caller-supplied facts for prompt personalization.
type UserContext struct {
	UserID      string         `json:"user_id,omitempty"`
	Tasks       []string       `json:"tasks,omitempty"`
	Reminders   []string       `json:"reminders,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// AskRequest is the request body for /ask and /ask-natural.
type AskRequest struct {
	Content     string       `json:"content"`
	UserContext *UserContext `json:"user_context,omitempty"`
	SessionID   string       `json:"session_id,omitempty"`
}

// AskResponse is the response for /ask and /ask-natural.
type AskResponse struct {
	Response       string    `json:"response"`
	ProcessingTime float64   `json:"processing_time"`
	SessionID      string    `json:"session_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// TaskIntentRequest is the request body for /analyze-task-intent.
type TaskIntentRequest struct {
	Content     string       `json:"content"`
	UserContext *UserContext `json:"user_context,omitempty"`
}

// TaskIntentResponse is the response for /analyze-task-intent.
type TaskIntentResponse struct {
	TaskIntentResult
	ProcessingTime float64 `json:"processing_time"`
}

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status       string    `json:"status"`
	APIConnected bool      `json:"api_connected"`
	ModelName    string    `json:"model_name"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
}

// SearchResult is one entry in the /rag/search response.
type SearchResult struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

// SearchResponse is the response for /rag/search.
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// StatsResponse is the response for /rag/stats.
type StatsResponse struct {
	RAGStats KnowledgeStats `json:"rag_stats"`
	Status   string         `json:"status"`
}
