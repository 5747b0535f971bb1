package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Document is a unit of retrievable knowledge.
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewDocument creates a document with an ID derived from the content
// hash and creation timestamp.
func NewDocument(content string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = map[string]any{}
	}
	now := time.Now()
	sum := md5.Sum([]byte(content))
	return Document{
		ID:        fmt.Sprintf("doc_%s_%d", hex.EncodeToString(sum[:])[:8], now.Unix()),
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
	}
}

// ScoredDocument pairs a document with its relevance score.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// KnowledgeStats summarizes the knowledge base corpus.
type KnowledgeStats struct {
	TotalDocuments        int            `json:"total_documents"`
	TotalContentLength    int            `json:"total_content_length"`
	AverageDocumentLength float64        `json:"average_document_length"`
	Categories            map[string]int `json:"categories"`
}
