// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package msgsync

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chirpchat/chirp-tui/internal/model"
	"github.com/chirpchat/chirp-tui/internal/session"
)

// APIClient is the slice of the REST client the engine needs.
type APIClient interface {
	FetchMessages(ctx context.Context, chatID string) ([]model.Message, error)
	SendMessage(ctx context.Context, chatID, content string) (model.Message, error)
	EditMessage(ctx context.Context, messageID, content string) error
	DeleteMessage(ctx context.Context, messageID string) error
}

// =============================================================================
// RECONCILIATION ENGINE
// =============================================================================

// Engine reconciles local optimistic state with the server for the active
// conversation. Safe for concurrent use; the transport read pump and the
// UI loop both call into it.
//
// Network calls are made without the lock held, so optimistic state stays
// visible and realtime deliveries keep flowing while a send is in flight.
type Engine struct {
	api  APIClient
	sess *session.Session

	mu         sync.Mutex
	store      *Store
	lastTempID int64
	peerTyping bool
}

// NewEngine creates an engine bound to the given session identity.
func NewEngine(api APIClient, sess *session.Session) *Engine {
	return &Engine{
		api:   api,
		sess:  sess,
		store: NewStore(),
	}
}

// Messages returns the active conversation's messages in display order.
func (e *Engine) Messages() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Messages()
}

// PendingCount returns the number of sends awaiting acknowledgment.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.PendingCount()
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// SwitchChat makes chatID the active conversation and discards the previous
// conversation's state. Returns the previously active chat id.
func (e *Engine) SwitchChat(chatID string) (previous string) {
	previous = e.sess.SetActiveChat(chatID)

	e.mu.Lock()
	e.store.Clear()
	e.peerTyping = false
	e.mu.Unlock()
	return previous
}

// LoadHistory fetches the full history of chatID and installs it as the
// conversation state. A response arriving after the user has switched away
// is discarded; stale history must never overwrite the active view.
func (e *Engine) LoadHistory(ctx context.Context, chatID string) error {
	msgs, err := e.api.FetchMessages(ctx, chatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if !e.sess.IsActive(chatID) {
		return nil
	}

	valid := msgs[:0]
	for i := range msgs {
		if msgs[i].ValidateInbound() == nil {
			valid = append(valid, msgs[i])
		}
	}

	e.mu.Lock()
	// Re-check under the lock; the switch may have raced the fetch.
	if e.sess.IsActive(chatID) {
		e.store.Replace(valid)
	}
	e.mu.Unlock()
	return nil
}

// =============================================================================
// SENDING
// =============================================================================

// Stage validates content and appends the optimistic pending record to the
// active conversation, making it visible immediately. The returned temp id
// is handed to Complete once the network call finishes.
func (e *Engine) Stage(content string) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, ErrEmptyMessage
	}
	chatID := e.sess.ActiveChat()
	if chatID == "" {
		return 0, ErrNoActiveChat
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	tempID := e.nextTempID()
	e.store.AppendPending(model.NewPending(tempID, chatID, e.sess.Username(), content))
	return tempID, nil
}

// Complete performs the network send for a staged record. On acknowledgment
// the record is confirmed in place; on failure it is removed. A temp id the
// store no longer holds (the conversation switched away) is a no-op.
func (e *Engine) Complete(ctx context.Context, tempID int64) (model.Message, error) {
	e.mu.Lock()
	staged, ok := e.store.Pending(tempID)
	e.mu.Unlock()
	if !ok {
		return model.Message{}, nil
	}

	confirmed, err := e.api.SendMessage(ctx, staged.Chat.ID, staged.Content)
	if err != nil {
		e.mu.Lock()
		e.store.RemovePending(tempID)
		e.mu.Unlock()
		return model.Message{}, fmt.Errorf("%w: %v", ErrSend, err)
	}

	e.mu.Lock()
	e.store.ConfirmPending(tempID, confirmed)
	out, _ := e.store.Get(confirmed.ID)
	e.mu.Unlock()
	return out, nil
}

// Send posts content to the active conversation: an optimistic append
// followed by the network call.
func (e *Engine) Send(ctx context.Context, content string) (model.Message, error) {
	tempID, err := e.Stage(content)
	if err != nil {
		return model.Message{}, err
	}
	return e.Complete(ctx, tempID)
}

// nextTempID returns a temp id that is unique within the session and
// monotonic even when sends land on the same millisecond. Caller holds the
// lock.
func (e *Engine) nextTempID() int64 {
	id := time.Now().UnixMilli()
	if id <= e.lastTempID {
		id = e.lastTempID + 1
	}
	e.lastTempID = id
	return id
}

// =============================================================================
// REALTIME DELIVERY
// =============================================================================

// Receive folds a realtime delivery into the conversation state. Messages
// for other conversations and duplicates of an id already held are dropped.
// Returns true when the view changed.
func (e *Engine) Receive(msg model.Message) bool {
	if msg.ValidateInbound() != nil {
		return false
	}
	if !e.sess.IsActive(msg.Chat.ID) {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Append(msg)
}

// =============================================================================
// EDIT AND DELETE
// =============================================================================

// Edit rewrites a confirmed message's content. The local record is updated
// only after the server accepts the edit, so a failure leaves nothing to
// roll back. Pending messages cannot be edited.
func (e *Engine) Edit(ctx context.Context, key, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyMessage
	}

	e.mu.Lock()
	msg, ok := e.store.Get(key)
	e.mu.Unlock()
	if !ok {
		return ErrUnknownMessage
	}
	if !msg.Confirmed() {
		return fmt.Errorf("%w: %w", ErrEdit, ErrUnconfirmed)
	}

	if err := e.api.EditMessage(ctx, msg.ID, content); err != nil {
		return fmt.Errorf("%w: %v", ErrEdit, err)
	}

	e.mu.Lock()
	e.store.UpdateContent(msg.ID, content)
	e.mu.Unlock()
	return nil
}

// Delete removes a confirmed message. The local record is removed only
// after the server accepts the delete. Pending messages cannot be deleted.
func (e *Engine) Delete(ctx context.Context, key string) error {
	e.mu.Lock()
	msg, ok := e.store.Get(key)
	e.mu.Unlock()
	if !ok {
		return ErrUnknownMessage
	}
	if !msg.Confirmed() {
		return fmt.Errorf("%w: %w", ErrDelete, ErrUnconfirmed)
	}

	if err := e.api.DeleteMessage(ctx, msg.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}

	e.mu.Lock()
	e.store.Remove(msg.ID)
	e.mu.Unlock()
	return nil
}

// =============================================================================
// PEER TYPING
// =============================================================================

// SetPeerTyping records whether a peer in the active conversation is
// typing.
func (e *Engine) SetPeerTyping(typing bool) {
	e.mu.Lock()
	e.peerTyping = typing
	e.mu.Unlock()
}

// PeerTyping reports whether a peer is currently typing.
func (e *Engine) PeerTyping() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.peerTyping
}
