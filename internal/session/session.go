// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the explicit session context shared by the reconciliation
// engine, the transport handle, and the views. Identity is injected at
// construction instead of being looked up ambiently, and exactly one
// conversation is active at a time.
type Session struct {
	mu sync.Mutex

	// Identity (fixed for the lifetime of the session)
	id       string
	userID   string
	username string
	started  time.Time

	// Active conversation
	activeChat string
}

// New creates a session for the given identity.
func New(userID, username string) *Session {
	return &Session{
		id:       uuid.New().String(),
		userID:   userID,
		username: username,
		started:  time.Now(),
	}
}

// ID returns the client session id.
func (s *Session) ID() string {
	return s.id
}

// UserID returns the signed-in user's server id.
func (s *Session) UserID() string {
	return s.userID
}

// Username returns the signed-in user's username.
func (s *Session) Username() string {
	return s.username
}

// StartTime returns when the session started.
func (s *Session) StartTime() time.Time {
	return s.started
}

// =============================================================================
// ACTIVE CONVERSATION
// =============================================================================

// SetActiveChat switches the active conversation. Returns the previously
// active chat id so callers can release resources scoped to it.
func (s *Session) SetActiveChat(chatID string) (previous string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous = s.activeChat
	s.activeChat = chatID
	return previous
}

// ActiveChat returns the currently active conversation id, or "" when no
// conversation is selected.
func (s *Session) ActiveChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChat
}

// IsActive reports whether the given conversation is the active one. Used
// as the stale-response guard for in-flight fetches.
func (s *Session) IsActive(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChat == chatID && chatID != ""
}
