// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/chirpchat/chirp-tui/internal/model"
)

// typingEmitInterval is the minimum spacing between outbound typing
// signals. The debouncer upstream already collapses keystroke bursts; this
// limiter only protects the room from a caller that skips it.
const typingEmitInterval = 500 * time.Millisecond

// ErrNotConnected is returned when an emit is attempted without a live
// connection.
var ErrNotConnected = errors.New("transport not connected")

// =============================================================================
// EVENTS
// =============================================================================

// Events holds the callbacks a subscriber receives. Nil callbacks are
// skipped. Callbacks run on the read-pump goroutine; they must not block.
type Events struct {
	Connected       func()
	MessageReceived func(model.Message)
	Typing          func()
	StopTyping      func()
}

// Subscription is a conversation-scoped registration on the shared
// connection. Close releases it deterministically; closing twice is safe.
type Subscription struct {
	id     string
	chatID string
	events Events

	h      *Handle
	closed sync.Once
}

// ChatID returns the conversation this subscription is scoped to.
func (s *Subscription) ChatID() string {
	return s.chatID
}

// Close unregisters the subscription. No events are delivered after Close
// returns.
func (s *Subscription) Close() {
	s.closed.Do(func() {
		s.h.unsubscribe(s.id)
	})
}

// =============================================================================
// TRANSPORT HANDLE
// =============================================================================

// Handle owns the process-wide realtime connection.
type Handle struct {
	url string

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	subs      map[string]*Subscription

	// writeMu serializes writes; gorilla/websocket allows one writer.
	writeMu sync.Mutex

	typingLimiter *rate.Limiter
}

// New creates a handle for the given websocket URL. The connection is not
// opened until Connect is called.
func New(socketURL string) *Handle {
	return &Handle{
		url:           socketURL,
		subs:          make(map[string]*Subscription),
		typingLimiter: rate.NewLimiter(rate.Every(typingEmitInterval), 1),
	}
}

// Connect establishes the connection if it is not already up. Idempotent.
func (h *Handle) Connect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connected {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, h.url, nil)
	if err != nil {
		return err
	}

	h.conn = conn
	h.connected = true
	go h.readPump(conn)
	log.Printf("transport: connected to %s", h.url)
	return nil
}

// Disconnect tears the connection down. Safe to call when already closed.
// Subscriptions survive a disconnect; they simply stop receiving events.
func (h *Handle) Disconnect() {
	h.mu.Lock()
	conn := h.conn
	h.conn = nil
	h.connected = false
	h.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Connected reports whether the connection is currently up.
func (h *Handle) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

// =============================================================================
// OUTBOUND EVENTS
// =============================================================================

// Identify announces the current user to the server-side session registry.
// Must be called once per connection before room operations mean anything.
func (h *Handle) Identify(userID string) error {
	return h.emit(EventSetup, userID)
}

// JoinChat subscribes this connection to a conversation room. Call whenever
// the active conversation changes.
func (h *Handle) JoinChat(chatID string) error {
	return h.emit(EventJoinChat, chatID)
}

// EmitTyping signals that the local user is typing in the conversation.
// Fire-and-forget; throttled to one signal per half second.
func (h *Handle) EmitTyping(chatID string) error {
	if !h.typingLimiter.Allow() {
		return nil
	}
	return h.emit(EventTyping, chatID)
}

// EmitStopTyping signals that the local user stopped typing.
func (h *Handle) EmitStopTyping(chatID string) error {
	return h.emit(EventStopTyping, chatID)
}

// emit writes one envelope to the connection.
func (h *Handle) emit(event string, data any) error {
	h.mu.Lock()
	conn := h.conn
	ok := h.connected
	h.mu.Unlock()
	if !ok || conn == nil {
		return ErrNotConnected
	}

	env, err := newEnvelope(event, data)
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return conn.WriteJSON(env)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers callbacks scoped to one conversation. The caller owns
// the returned subscription and must Close it before subscribing for
// another conversation, otherwise both keep firing.
func (h *Handle) Subscribe(chatID string, events Events) *Subscription {
	sub := &Subscription{
		id:     uuid.New().String(),
		chatID: chatID,
		events: events,
		h:      h,
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

// unsubscribe removes a subscription by id.
func (h *Handle) unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// snapshotSubs copies the live subscriptions so dispatch runs without the
// lock held.
func (h *Handle) snapshotSubs() []*Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	return subs
}

// =============================================================================
// READ PUMP
// =============================================================================

// readPump consumes frames until the connection dies. Connection-level
// errors are not surfaced further; Connected() just turns false.
func (h *Handle) readPump(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		if h.conn == conn {
			h.conn = nil
			h.connected = false
		}
		h.mu.Unlock()
		conn.Close()
		log.Printf("transport: connection closed")
	}()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		h.dispatch(env)
	}
}

// dispatch routes one inbound envelope to the matching subscriptions.
func (h *Handle) dispatch(env Envelope) {
	switch env.Event {
	case EventConnected:
		for _, sub := range h.snapshotSubs() {
			if sub.events.Connected != nil {
				sub.events.Connected()
			}
		}

	case EventMessageReceived:
		var msg model.Message
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return
		}
		// Malformed payloads stop at the boundary.
		if err := msg.ValidateInbound(); err != nil {
			return
		}
		for _, sub := range h.snapshotSubs() {
			if sub.chatID == msg.Chat.ID && sub.events.MessageReceived != nil {
				sub.events.MessageReceived(msg)
			}
		}

	case EventTyping:
		// Typing signals arrive only for rooms this connection joined, so
		// every live subscription is the intended audience.
		for _, sub := range h.snapshotSubs() {
			if sub.events.Typing != nil {
				sub.events.Typing()
			}
		}

	case EventStopTyping:
		for _, sub := range h.snapshotSubs() {
			if sub.events.StopTyping != nil {
				sub.events.StopTyping()
			}
		}
	}
}
