// Package session provides the in-memory conversation session store.
package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

// ErrInvalidRole is returned when appending a message with a role
// outside {user, assistant}.
var ErrInvalidRole = fmt.Errorf("role must be %q or %q", model.RoleUser, model.RoleAssistant)

type sessionState struct {
	messages []model.Message
	info     model.SessionInfo
}

// Store owns all sessions and their message histories. A session is
// created lazily on first append and destroyed by Clear or expiry.
//
// All mutations run under the store lock, so concurrent appends to the
// same session cannot interleave mid-operation. Ordering between two
// concurrent turns for one session is still up to the caller.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
	logger   *logger.Logger
}

// NewStore creates an empty session store.
func NewStore(log *logger.Logger) *Store {
	return &Store{
		sessions: make(map[string]*sessionState),
		logger:   log,
	}
}

// NewSessionID generates a session identifier from the millisecond
// epoch. A collision is harmless: the colliding caller simply
// continues the existing session.
func (s *Store) NewSessionID() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}

// Append adds a message to the session, creating the session if this
// identifier has not been seen. A zero timestamp is replaced with the
// current time.
func (s *Store) Append(sessionID string, role model.Role, content string, timestamp time.Time) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getOrCreateLocked(sessionID)
	state.messages = append(state.messages, model.Message{
		Role:      role,
		Content:   content,
		Timestamp: timestamp,
	})
	state.info.LastActivity = time.Now()
	state.info.MessageCount = len(state.messages)

	s.logger.Debug("appended message to session",
		zap.String("session_id", sessionID),
		zap.String("role", string(role)),
	)
	return nil
}

// getOrCreateLocked returns the session state for the identifier,
// creating it when unseen. Callers must hold the write lock.
func (s *Store) getOrCreateLocked(sessionID string) *sessionState {
	if state, ok := s.sessions[sessionID]; ok {
		return state
	}
	now := time.Now()
	state := &sessionState{
		info: model.SessionInfo{
			SessionID:    sessionID,
			CreatedAt:    now,
			LastActivity: now,
		},
	}
	s.sessions[sessionID] = state
	return state
}

// History returns the session's messages in chronological order,
// restricted to the most recent limit messages when limit > 0. An
// unknown session yields an empty history, not an error.
func (s *Store) History(sessionID string, limit int) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	msgs := state.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]model.Message(nil), msgs...)
}

// ModelHistory projects the full history into role/parts-shaped turns
// suitable for replay into a completion call.
func (s *Store) ModelHistory(sessionID string) []model.Turn {
	messages := s.History(sessionID, 0)

	turns := make([]model.Turn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, model.Turn{
			Role:  msg.Role,
			Parts: []model.TextPart{{Text: msg.Content}},
		})
	}
	return turns
}

// Clear removes the session and its history. Returns true when a
// session existed; idempotent.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	s.logger.Info("cleared session", zap.String("session_id", sessionID))
	return true
}

// Info returns the session metadata, or false for an unknown session.
func (s *Store) Info(sessionID string) (model.SessionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return model.SessionInfo{}, false
	}
	return state.info, true
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupExpired removes every session whose last activity is older
// than maxAge and returns the number removed. Expirable identifiers
// are snapshotted before removal so the map is never mutated
// mid-scan.
func (s *Store) CleanupExpired(maxAge time.Duration) int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, state := range s.sessions {
		if now.Sub(state.info.LastActivity) > maxAge {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
	}

	if len(expired) > 0 {
		s.logger.Info("cleaned up expired sessions", zap.Int("removed", len(expired)))
	}
	return len(expired)
}
