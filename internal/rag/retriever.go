package rag

import (
	"strings"

	"go.uber.org/zap"
)

const (
	contextHeader = "RELEVANT CONTEXT:\n"

	// DefaultMaxContextLength bounds the character budget of the
	// assembled context block.
	DefaultMaxContextLength = 1000

	// context assembly always considers the top matches only,
	// independent of the caller-facing search limit.
	contextCandidates = 3

	defaultMinScore = 0.1
)

// Retriever assembles length-bounded context blocks from the store and
// splices them into system prompts.
type Retriever struct {
	store            *Store
	maxContextLength int
	logger           *zap.Logger
}

// NewRetriever creates a retriever over the given store. A
// non-positive maxContextLength falls back to the default budget.
func NewRetriever(store *Store, maxContextLength int) *Retriever {
	if maxContextLength <= 0 {
		maxContextLength = DefaultMaxContextLength
	}
	return &Retriever{
		store:            store,
		maxContextLength: maxContextLength,
		logger:           store.logger.Logger,
	}
}

// ContextForQuery renders the top matches as bulleted lines and
// accumulates them while the running character count stays within the
// budget. Lines are never truncated mid-content. An empty string means
// "no augmentation", never an error.
func (r *Retriever) ContextForQuery(query string) string {
	matches := r.store.Search(query, contextCandidates, defaultMinScore)
	if len(matches) == 0 {
		return ""
	}

	var parts []string
	currentLength := 0
	for _, m := range matches {
		line := "• " + m.Document.Content
		if currentLength+len(line) > r.maxContextLength {
			break
		}
		parts = append(parts, line)
		currentLength += len(line)
	}

	if len(parts) == 0 {
		return ""
	}

	r.logger.Debug("retrieved context for query", zap.Int("documents", len(parts)))
	return contextHeader + strings.Join(parts, "\n") + "\n\n"
}

// EnhancePrompt appends retrieved context to the base system prompt
// along with an instruction to use it when relevant. With no context
// the base prompt passes through unchanged.
func (r *Retriever) EnhancePrompt(query, basePrompt string) string {
	context := r.ContextForQuery(query)
	if context == "" {
		return basePrompt
	}
	return basePrompt + "\n\n" + context + "Use this context to provide more accurate and informed responses when relevant."
}
