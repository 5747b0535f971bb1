// Package rag provides the in-memory knowledge base and the lexical
// retrieval engine used to augment assistant prompts.
package rag

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

const (
	// substring bonus applied when the full query appears verbatim in
	// the document content.
	phraseBonus = 0.3
	// per-word bonus for query words appearing in metadata values.
	metadataWordBonus = 0.1

	knowledgeBaseVersion = "1.0"
)

// ErrEmptyContent is returned when adding a document with no content.
var ErrEmptyContent = errors.New("document content cannot be empty")

// Store holds the knowledge base documents. Documents are immutable
// after insertion; the store never starts empty.
type Store struct {
	mu     sync.RWMutex
	docs   []model.Document
	path   string
	logger *logger.Logger
}

// knowledgeBaseFile is the persisted wire format.
type knowledgeBaseFile struct {
	Documents []model.Document `json:"documents"`
	CreatedAt time.Time        `json:"created_at"`
	Version   string           `json:"version"`
}

// NewStore creates a knowledge store. When path points at a loadable
// knowledge-base file its documents are installed; otherwise the
// default seed corpus is used.
func NewStore(path string, log *logger.Logger) *Store {
	s := &Store{path: path, logger: log}

	if path != "" {
		if err := s.loadFromFile(path); err == nil {
			log.Info("loaded knowledge base", zap.String("path", path), zap.Int("documents", len(s.docs)))
			return s
		} else if !os.IsNotExist(err) {
			log.Error("failed to load knowledge base", zap.String("path", path), zap.Error(err))
		}
	}

	s.seedDefaults()
	log.Info("initialized knowledge base with seed documents", zap.Int("documents", len(s.docs)))
	return s
}

func (s *Store) loadFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file knowledgeBaseFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return err
	}

	docs := make([]model.Document, 0, len(file.Documents))
	for _, d := range file.Documents {
		docs = append(docs, model.NewDocument(d.Content, d.Metadata))
	}
	if len(docs) == 0 {
		return errors.New("knowledge base file contains no documents")
	}

	s.docs = docs
	return nil
}

func (s *Store) seedDefaults() {
	seed := []struct {
		content  string
		metadata map[string]any
	}{
		{
			"Swiftly is an AI-powered admin life concierge application designed to simplify scheduling, task management, reminders, and productivity optimization through intelligent automation.",
			map[string]any{"type": "product_overview", "category": "general"},
		},
		{
			"Swiftly features include: AI-powered task creation from natural language, multiple task views (Kanban, Calendar, List, Gantt), smart scheduling optimization, team collaboration, and integrations with third-party services.",
			map[string]any{"type": "features", "category": "functionality"},
		},
		{
			"The Swiftly AI assistant can help with task management, scheduling, productivity insights, and answering questions about your workflow and productivity patterns.",
			map[string]any{"type": "ai_capabilities", "category": "assistant"},
		},
		{
			"Task priorities in Swiftly are categorized as: Low (nice to have, flexible deadlines), Medium (important but not urgent), High (urgent and important, immediate attention required).",
			map[string]any{"type": "task_priorities", "category": "tasks"},
		},
		{
			"Swiftly supports team collaboration through shared task boards, real-time updates, task assignment, and team calendar views. Team members can collaborate on projects and track progress together.",
			map[string]any{"type": "collaboration", "category": "teams"},
		},
		{
			"The calendar view in Swiftly allows you to see tasks and events in month, week, and day views. You can drag and drop to reschedule tasks, and the calendar integrates with your existing calendar systems.",
			map[string]any{"type": "calendar", "category": "scheduling"},
		},
	}

	s.docs = make([]model.Document, 0, len(seed))
	for _, d := range seed {
		s.docs = append(s.docs, model.NewDocument(d.content, d.metadata))
	}
}

// Add inserts a document and returns its ID. Content must be
// non-empty; duplicates are never collapsed.
func (s *Store) Add(content string, metadata map[string]any) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}

	doc := model.NewDocument(content, metadata)

	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.mu.Unlock()

	s.logger.Debug("added document to knowledge base", zap.String("document_id", doc.ID))
	return doc.ID, nil
}

// Search ranks documents against the query by lexical relevance.
// Results are sorted by score descending (ties keep insertion order),
// truncated to limit, and exclude scores below minScore. A blank query
// yields an empty result set.
func (s *Store) Search(query string, limit int, minScore float64) []model.ScoredDocument {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	queryLower := strings.ToLower(query)
	queryWords := wordSet(queryLower)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []model.ScoredDocument
	for _, doc := range s.docs {
		score := scoreDocument(queryLower, queryWords, doc)
		if score >= minScore {
			results = append(results, model.ScoredDocument{Document: doc, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Stats reports corpus statistics including per-category counts.
func (s *Store) Stats() model.KnowledgeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.KnowledgeStats{Categories: make(map[string]int)}
	for _, doc := range s.docs {
		stats.TotalDocuments++
		stats.TotalContentLength += len(doc.Content)

		category := "unknown"
		if c, ok := doc.Metadata["category"].(string); ok {
			category = c
		}
		stats.Categories[category]++
	}

	if stats.TotalDocuments > 0 {
		stats.AverageDocumentLength = float64(stats.TotalContentLength) / float64(stats.TotalDocuments)
	}
	return stats
}

// Save serializes the whole corpus to path, overwriting any existing
// file. When path is empty the store's configured path is used.
// Returns false when no path is available or the write fails.
func (s *Store) Save(path string) bool {
	if path == "" {
		path = s.path
	}
	if path == "" {
		s.logger.Error("no save path configured for knowledge base")
		return false
	}

	s.mu.RLock()
	file := knowledgeBaseFile{
		Documents: append([]model.Document(nil), s.docs...),
		CreatedAt: time.Now(),
		Version:   knowledgeBaseVersion,
	}
	s.mu.RUnlock()

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode knowledge base", zap.Error(err))
		return false
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		s.logger.Error("failed to save knowledge base", zap.String("path", path), zap.Error(err))
		return false
	}

	s.logger.Info("saved knowledge base", zap.String("path", path), zap.Int("documents", len(file.Documents)))
	return true
}

// scoreDocument computes the lexical relevance of one document:
// word-overlap ratio, plus a phrase bonus for a verbatim substring
// match, plus a small bonus per query word found in metadata values.
func scoreDocument(queryLower string, queryWords map[string]struct{}, doc model.Document) float64 {
	contentLower := strings.ToLower(doc.Content)
	contentWords := wordSet(contentLower)

	var score float64
	if len(queryWords) > 0 {
		common := 0
		for w := range queryWords {
			if _, ok := contentWords[w]; ok {
				common++
			}
		}
		score = float64(common) / float64(len(queryWords))
	}

	if strings.Contains(contentLower, queryLower) {
		score += phraseBonus
	}

	if len(doc.Metadata) > 0 {
		values := make([]string, 0, len(doc.Metadata))
		for _, v := range doc.Metadata {
			values = append(values, strings.ToLower(stringify(v)))
		}
		metadataWords := wordSet(strings.Join(values, " "))
		for w := range queryWords {
			if _, ok := metadataWords[w]; ok {
				score += metadataWordBonus
			}
		}
	}

	return score
}

func wordSet(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}
	return words
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(raw), `"`)
}
