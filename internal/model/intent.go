package model

// Task priorities recognized by the intent extractor.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TaskIntentResult is the parsed verdict for one analyzed message.
//
// When HasTaskIntent is false the optional fields are normally nil,
// but the extractor tolerates a model that populates them anyway;
// downstream code simply ignores them.
type TaskIntentResult struct {
	HasTaskIntent bool    `json:"has_task_intent"`
	TaskName      *string `json:"task_name"`
	DueDate       *string `json:"due_date"`
	Priority      *string `json:"priority"`
	NeedsClarity  bool    `json:"needs_clarity"`
}

// NeutralIntent is the deterministic degradation result used whenever
// generation fails or the model's output cannot be parsed.
func NeutralIntent() TaskIntentResult {
	return TaskIntentResult{}
}
