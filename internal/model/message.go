// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"strconv"
	"time"
)

// =============================================================================
// USER TYPE
// =============================================================================

// User is a chat participant as the server represents it.
type User struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
}

// ChatRef identifies the conversation a message belongs to. The realtime
// socket delivers messages with the full owning chat inlined; only the id
// is used client-side.
type ChatRef struct {
	ID string `json:"_id"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message.
//
// A message created locally carries only a TempID until the server
// acknowledges the send and assigns the authoritative ID. The TempID is
// retained after confirmation for matching, but the authoritative ID is the
// sole identity used for de-duplication.
type Message struct {
	// Identity
	ID     string `json:"_id,omitempty"`
	TempID int64  `json:"tempId,omitempty"`

	// Content
	Content string `json:"content"`

	// Attribution
	Sender User    `json:"sender"`
	Chat   ChatRef `json:"chat"`

	// Server timestamp. Display order is insertion order, never this field.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// NewPending creates an unconfirmed outgoing message.
func NewPending(tempID int64, chatID, senderUsername, content string) *Message {
	return &Message{
		TempID:  tempID,
		Content: content,
		Sender:  User{Username: senderUsername},
		Chat:    ChatRef{ID: chatID},
	}
}

// Confirmed reports whether the server has assigned an authoritative ID.
func (m *Message) Confirmed() bool {
	return m.ID != ""
}

// Key returns the display identity of the message: the authoritative ID when
// confirmed, the temp id otherwise.
func (m *Message) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return "tmp_" + strconv.FormatInt(m.TempID, 10)
}

// =============================================================================
// BOUNDARY VALIDATION
// =============================================================================

// Validation errors for inbound payloads.
var (
	ErrMissingID     = errors.New("message has no authoritative id")
	ErrMissingChat   = errors.New("message has no owning chat id")
	ErrMissingSender = errors.New("message has no sender username")
)

// ValidateInbound checks a message arriving from the REST or socket boundary
// before it is allowed into the reconciliation engine. Inbound messages are
// always server-confirmed, so the authoritative id is required.
func (m *Message) ValidateInbound() error {
	if m.ID == "" {
		return ErrMissingID
	}
	if m.Chat.ID == "" {
		return ErrMissingChat
	}
	if m.Sender.Username == "" {
		return ErrMissingSender
	}
	return nil
}
