package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateContent validates a required text field. Whitespace-only
// content counts as empty.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session identifier.
func ValidateSessionID(id string) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("session ID exceeds maximum length")
	}
	return nil
}

// ValidateQuery validates a search query parameter.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("query cannot be empty")
	}
	if !utf8.ValidString(query) {
		return errors.New("query must be valid UTF-8")
	}
	return nil
}
