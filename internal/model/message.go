// Package model defines data structures for the assistant platform.
package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one the session store accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message represents one turn in a conversation session.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TextPart wraps message content for model replay.
type TextPart struct {
	Text string `json:"text"`
}

// Turn is the transport-shaped projection of a Message, one record per
// message with the content wrapped as a single text part.
type Turn struct {
	Role  Role       `json:"role"`
	Parts []TextPart `json:"parts"`
}

// SessionInfo holds per-session metadata.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}
