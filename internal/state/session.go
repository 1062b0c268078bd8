package state

import (
	"sync"
)

// Session remembers the issue an MCP client last worked on so follow-up tool calls may
// omit the key. Nothing fetched from Jira is kept.
type Session struct {
	mu        sync.RWMutex
	lastIssue string
	history   []string
}

// NewSession creates a Session.
func NewSession() *Session {
	return &Session{}
}

// Touch records key as the current issue.
func (s *Session) Touch(key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIssue = key
	if n := len(s.history); n == 0 || s.history[n-1] != key {
		s.history = append(s.history, key)
	}
}

// LastIssue returns the most recently touched issue key.
func (s *Session) LastIssue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastIssue
}

// Resolve returns key, or the last issue when key is empty.
func (s *Session) Resolve(key string) string {
	if key != "" {
		return key
	}
	return s.LastIssue()
}

// History returns the touched keys in order, without consecutive duplicates.
func (s *Session) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...)
}
