// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpchat/chirp-tui/internal/model"
	"github.com/chirpchat/chirp-tui/internal/transport"
)

// errNothingToEdit is shown when an edit or delete command finds no
// confirmed message authored by the current user.
var errNothingToEdit = errors.New("no confirmed message of yours to target")

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refreshMessages()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChatsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.lastError = msg.Err
			m.statusMsg = ""
			return m, nil
		}
		m.lastError = nil
		m.statusMsg = ""
		m.chatList.SetChats(msg.Chats)
		return m, nil

	case HistoryLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.lastError = msg.Err
			return m, nil
		}
		m.lastError = nil
		m.refreshMessages()
		m.viewport.GotoBottom()
		return m, nil

	case SendResultMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
		}
		// On success the pending record was confirmed in place; on failure
		// it was rolled back. Either way the view changed.
		m.refreshMessages()
		return m, nil

	case EditResultMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
		}
		m.refreshMessages()
		return m, nil

	case DeleteResultMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
		}
		m.refreshMessages()
		return m, nil

	case IncomingMsg:
		if m.engine.Receive(msg.Message) {
			m.refreshMessages()
			m.viewport.GotoBottom()
		}
		return m, nil

	case ConnectedMsg:
		m.connected = true
		return m, nil

	case PeerTypingMsg:
		m.engine.SetPeerTyping(true)
		wasActive := m.typing.Active()
		m.typing.SetActive(true)
		if !wasActive {
			return m, typingTickCmd()
		}
		return m, nil

	case PeerStoppedTypingMsg:
		m.engine.SetPeerTyping(false)
		m.typing.SetActive(false)
		return m, nil

	case TypingTickMsg:
		if !m.typing.Active() {
			return m, nil
		}
		m.typing.Advance()
		return m, typingTickCmd()

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.input.CharLimit = msg.Config.Chat.InputCharLimit
		m.refreshMessages()
		return m, nil
	}

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes a keypress by focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.teardown()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keyMap.FocusNext) {
		return m.toggleFocus(), nil
	}

	switch m.focus {
	case FocusChatList:
		return m.handleChatListKey(msg)
	case FocusInput:
		return m.handleInputKey(msg)
	}
	return m, nil
}

// handleChatListKey drives the conversation list.
func (m Model) handleChatListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.chatList.MoveUp()
	case key.Matches(msg, m.keyMap.Down):
		m.chatList.MoveDown()
	case key.Matches(msg, m.keyMap.Open):
		if chat, ok := m.chatList.Selected(); ok {
			return m.openChat(chat)
		}
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
	}
	return m, nil
}

// handleInputKey drives the message composer.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.debouncer.Flush()
		m.focus = FocusChatList
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keyMap.Send):
		return m.submit()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.debouncer.Keystroke()
	}
	return m, cmd
}

// toggleFocus switches the focused pane.
func (m Model) toggleFocus() Model {
	if m.focus == FocusChatList {
		if m.sess.ActiveChat() == "" {
			return m
		}
		m.focus = FocusInput
		m.input.Focus()
	} else {
		m.debouncer.Flush()
		m.focus = FocusChatList
		m.input.Blur()
	}
	return m
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// openChat switches the active conversation: the previous subscription is
// closed, the engine state is reset, the room is joined, and the history
// load starts.
func (m Model) openChat(chat model.Chat) (tea.Model, tea.Cmd) {
	m.debouncer.Flush()
	if m.sub != nil {
		m.sub.Close()
	}

	m.engine.SwitchChat(chat.ID)
	m.typing.SetActive(false)
	m.lastError = nil
	m.loading = true
	m.refreshMessages()

	m.handle.JoinChat(chat.ID)
	m.sub = m.handle.Subscribe(chat.ID, transportEvents(m.notifier))

	m.focus = FocusInput
	m.input.Focus()
	m.input.Reset()
	return m, loadHistoryCmd(m.engine, chat.ID)
}

// teardown releases conversation resources before quitting.
func (m *Model) teardown() {
	m.debouncer.Cancel()
	if m.sub != nil {
		m.sub.Close()
		m.sub = nil
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

// submit sends the composed input, or runs a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()
	m.debouncer.Flush()

	if cmdText, ok := strings.CutPrefix(text, "/edit "); ok {
		return m.editLastOwn(strings.TrimSpace(cmdText))
	}
	if text == "/delete" {
		return m.deleteLastOwn()
	}

	tempID, err := m.engine.Stage(text)
	if err != nil {
		m.lastError = err
		return m, nil
	}
	m.lastError = nil
	m.refreshMessages()
	m.viewport.GotoBottom()
	return m, completeSendCmd(m.engine, tempID)
}

// editLastOwn rewrites the most recent confirmed message sent by the
// current user.
func (m Model) editLastOwn(content string) (tea.Model, tea.Cmd) {
	msgKey, ok := m.lastOwnConfirmedKey()
	if !ok {
		m.lastError = errNothingToEdit
		return m, nil
	}
	return m, editCmd(m.engine, msgKey, content)
}

// deleteLastOwn removes the most recent confirmed message sent by the
// current user.
func (m Model) deleteLastOwn() (tea.Model, tea.Cmd) {
	msgKey, ok := m.lastOwnConfirmedKey()
	if !ok {
		m.lastError = errNothingToEdit
		return m, nil
	}
	return m, deleteCmd(m.engine, msgKey)
}

// lastOwnConfirmedKey finds the newest confirmed message authored by the
// current user.
func (m Model) lastOwnConfirmedKey() (string, bool) {
	msgs := m.engine.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender.Username == m.sess.Username() && msgs[i].Confirmed() {
			return msgs[i].Key(), true
		}
	}
	return "", false
}

// =============================================================================
// TRANSPORT WIRING
// =============================================================================

// transportEvents adapts transport callbacks to program messages.
func transportEvents(n *Notifier) transport.Events {
	return transport.Events{
		Connected:       func() { n.Notify(ConnectedMsg{}) },
		MessageReceived: func(msg model.Message) { n.Notify(IncomingMsg{Message: msg}) },
		Typing:          func() { n.Notify(PeerTypingMsg{}) },
		StopTyping:      func() { n.Notify(PeerStoppedTypingMsg{}) },
	}
}
