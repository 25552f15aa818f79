// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main view of the chirp TUI.
//
// This file defines the Bubble Tea message types used by the chat view,
// plus the Notifier that carries transport callbacks into the program.
package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpchat/chirp-tui/internal/config"
	"github.com/chirpchat/chirp-tui/internal/model"
)

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// ChatsLoadedMsg delivers the conversation list.
type ChatsLoadedMsg struct {
	Chats []model.Chat
	Err   error
}

// HistoryLoadedMsg signals that the active conversation's history load
// finished. The engine already holds the messages.
type HistoryLoadedMsg struct {
	ChatID string
	Err    error
}

// SendResultMsg signals that a send completed. On failure the optimistic
// record has already been rolled back.
type SendResultMsg struct {
	Err error
}

// EditResultMsg signals that an edit completed.
type EditResultMsg struct {
	Err error
}

// DeleteResultMsg signals that a delete completed.
type DeleteResultMsg struct {
	Err error
}

// =============================================================================
// REALTIME MESSAGES
// =============================================================================

// IncomingMsg delivers a realtime message for the active conversation.
type IncomingMsg struct {
	Message model.Message
}

// ConnectedMsg signals that the realtime connection is established.
type ConnectedMsg struct{}

// PeerTypingMsg signals that a peer started typing.
type PeerTypingMsg struct{}

// PeerStoppedTypingMsg signals that a peer stopped typing.
type PeerStoppedTypingMsg struct{}

// TypingTickMsg advances the typing-indicator animation.
type TypingTickMsg struct{}

// ConfigReloadedMsg delivers a freshly loaded configuration after the
// config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier forwards events from transport goroutines into the Bubble Tea
// program. It is created before the program exists and bound once the
// program is running; events arriving before Bind are dropped.
type Notifier struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewNotifier creates an unbound notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Bind attaches the program's send function.
func (n *Notifier) Bind(send func(tea.Msg)) {
	n.mu.Lock()
	n.send = send
	n.mu.Unlock()
}

// Notify delivers a message to the program, if bound.
func (n *Notifier) Notify(msg tea.Msg) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(msg)
	}
}
