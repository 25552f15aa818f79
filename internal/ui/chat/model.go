// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpchat/chirp-tui/internal/api"
	"github.com/chirpchat/chirp-tui/internal/config"
	"github.com/chirpchat/chirp-tui/internal/msgsync"
	"github.com/chirpchat/chirp-tui/internal/session"
	"github.com/chirpchat/chirp-tui/internal/transport"
	"github.com/chirpchat/chirp-tui/internal/ui/components"
	"github.com/chirpchat/chirp-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies which pane receives keyboard input.
type Focus int

const (
	FocusChatList Focus = iota // Selecting a conversation
	FocusInput                 // Composing a message
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chirp main view.
type Model struct {
	// Styling
	theme *styles.Theme
	cfg   *config.Config

	// Core wiring
	sess      *session.Session
	engine    *msgsync.Engine
	apiClient *api.Client
	handle    *transport.Handle
	notifier  *Notifier

	// Active conversation resources
	sub       *transport.Subscription // nil when no conversation is open
	debouncer *msgsync.Debouncer

	// UI components
	chatList *components.ChatList
	typing   components.TypingIndicator
	viewport viewport.Model
	input    textinput.Model
	keyMap   KeyMap

	// Layout
	width  int
	height int
	ready  bool

	// State
	focus     Focus
	connected bool
	loading   bool
	statusMsg string
	lastError error
}

// New creates the main view model. The transport connection must already be
// established (or establishing); the model subscribes per conversation.
func New(cfg *config.Config, sess *session.Session, engine *msgsync.Engine, apiClient *api.Client, handle *transport.Handle, notifier *Notifier) Model {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.CharLimit = cfg.Chat.InputCharLimit
	input.Prompt = "> "

	m := Model{
		theme:     styles.New(),
		cfg:       cfg,
		sess:      sess,
		engine:    engine,
		apiClient: apiClient,
		handle:    handle,
		notifier:  notifier,
		chatList:  components.NewChatList(sess.Username()),
		viewport:  viewport.New(0, 0),
		input:     input,
		keyMap:    DefaultKeyMap(),
		focus:     FocusChatList,
		loading:   true,
		statusMsg: "loading chats",
	}

	idle := time.Duration(cfg.Chat.TypingDebounceMs) * time.Millisecond
	m.debouncer = msgsync.NewDebouncer(idle,
		func() { handle.EmitTyping(sess.ActiveChat()) },
		func() { handle.EmitStopTyping(sess.ActiveChat()) },
	)
	return m
}

// Init starts the initial chat-list load.
func (m Model) Init() tea.Cmd {
	return loadChatsCmd(m.apiClient)
}

// ActiveSubscription returns the current conversation subscription, mainly
// for teardown on quit.
func (m Model) ActiveSubscription() *transport.Subscription {
	return m.sub
}
