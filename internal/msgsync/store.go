// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package msgsync

import "github.com/chirpchat/chirp-tui/internal/model"

// =============================================================================
// MESSAGE STORE
// =============================================================================

// Store holds one conversation's messages in insertion order with O(1)
// lookup by authoritative id and by temp id. Not safe for concurrent use;
// the engine serializes access.
type Store struct {
	order   []*model.Message
	byID    map[string]*model.Message
	pending map[int64]*model.Message
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*model.Message),
		pending: make(map[int64]*model.Message),
	}
}

// Len returns the number of messages, pending included.
func (s *Store) Len() int {
	return len(s.order)
}

// Contains reports whether a confirmed message with the given id is held.
func (s *Store) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// PendingCount returns the number of unconfirmed messages.
func (s *Store) PendingCount() int {
	return len(s.pending)
}

// Messages returns a copy of the messages in insertion order.
func (s *Store) Messages() []model.Message {
	out := make([]model.Message, len(s.order))
	for i, m := range s.order {
		out[i] = *m
	}
	return out
}

// Get returns the message with the given display key (authoritative id, or
// temp key for pending records).
func (s *Store) Get(key string) (model.Message, bool) {
	for _, m := range s.order {
		if m.Key() == key {
			return *m, true
		}
	}
	return model.Message{}, false
}

// Clear discards all state.
func (s *Store) Clear() {
	s.order = nil
	s.byID = make(map[string]*model.Message)
	s.pending = make(map[int64]*model.Message)
}

// Replace resets the store to a fetched history, oldest first. Duplicate
// ids within the batch keep the first occurrence.
func (s *Store) Replace(msgs []model.Message) {
	s.Clear()
	for i := range msgs {
		s.Append(msgs[i])
	}
}

// =============================================================================
// CONFIRMED MESSAGES
// =============================================================================

// Append adds a confirmed message at the end. A message whose id is already
// held is dropped; the authoritative id is the sole identity. Returns true
// when the message was added.
func (s *Store) Append(msg model.Message) bool {
	if msg.ID == "" {
		return false
	}
	if _, ok := s.byID[msg.ID]; ok {
		return false
	}
	m := msg
	s.order = append(s.order, &m)
	s.byID[m.ID] = &m
	return true
}

// UpdateContent rewrites the content of a confirmed message in place.
func (s *Store) UpdateContent(id, content string) bool {
	m, ok := s.byID[id]
	if !ok {
		return false
	}
	m.Content = content
	return true
}

// Remove deletes a confirmed message.
func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	s.removeFromOrder(func(m *model.Message) bool { return m.ID == id })
	return true
}

// =============================================================================
// PENDING MESSAGES
// =============================================================================

// Pending returns a copy of the unconfirmed record with the given temp id.
func (s *Store) Pending(tempID int64) (model.Message, bool) {
	m, ok := s.pending[tempID]
	if !ok {
		return model.Message{}, false
	}
	return *m, true
}

// AppendPending adds an unconfirmed outgoing message at the end.
func (s *Store) AppendPending(msg *model.Message) {
	s.order = append(s.order, msg)
	s.pending[msg.TempID] = msg
}

// ConfirmPending reconciles a server acknowledgment with the pending record
// carrying the temp id. The record keeps its position and its local sender;
// the authoritative id, content, and timestamp come from the server.
//
// When the confirmed id is already held (the realtime echo won the race),
// the pending record is removed instead so the message appears once.
func (s *Store) ConfirmPending(tempID int64, confirmed model.Message) bool {
	m, ok := s.pending[tempID]
	if !ok {
		return false
	}
	delete(s.pending, tempID)

	if _, dup := s.byID[confirmed.ID]; dup {
		s.removeFromOrder(func(r *model.Message) bool { return r == m })
		return true
	}

	m.ID = confirmed.ID
	m.Content = confirmed.Content
	m.CreatedAt = confirmed.CreatedAt
	s.byID[m.ID] = m
	return true
}

// RemovePending rolls back an optimistic append after a failed send.
func (s *Store) RemovePending(tempID int64) bool {
	m, ok := s.pending[tempID]
	if !ok {
		return false
	}
	delete(s.pending, tempID)
	s.removeFromOrder(func(r *model.Message) bool { return r == m })
	return true
}

// removeFromOrder drops the first record matching the predicate.
func (s *Store) removeFromOrder(match func(*model.Message) bool) {
	for i, m := range s.order {
		if match(m) {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
