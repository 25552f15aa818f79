// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the chirp TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/chirpchat/chirp-tui/internal/model"
	"github.com/chirpchat/chirp-tui/internal/ui/styles"
	"github.com/chirpchat/chirp-tui/internal/util"
)

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// ChatList is the left-pane list of conversations.
type ChatList struct {
	chats    []model.Chat
	selected int
	username string

	width  int
	height int
}

// NewChatList creates an empty conversation list for the given user. The
// username resolves display names for one-on-one chats.
func NewChatList(username string) *ChatList {
	return &ChatList{username: username}
}

// SetChats replaces the list contents, clamping the selection.
func (l *ChatList) SetChats(chats []model.Chat) {
	l.chats = chats
	if l.selected >= len(chats) {
		l.selected = len(chats) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// SetSize updates the pane dimensions.
func (l *ChatList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Len returns the number of conversations.
func (l *ChatList) Len() int {
	return len(l.chats)
}

// Selected returns the currently selected conversation, if any.
func (l *ChatList) Selected() (model.Chat, bool) {
	if len(l.chats) == 0 {
		return model.Chat{}, false
	}
	return l.chats[l.selected], true
}

// MoveUp moves the selection one row up.
func (l *ChatList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection one row down.
func (l *ChatList) MoveDown() {
	if l.selected < len(l.chats)-1 {
		l.selected++
	}
}

// View renders the pane.
func (l *ChatList) View(theme *styles.Theme) string {
	if len(l.chats) == 0 {
		return theme.ChatList.Render(theme.ShortcutDesc.Render("no conversations"))
	}

	// Inner width after the pane's padding and border column.
	inner := l.width - 4
	if inner < 4 {
		inner = 4
	}

	var b strings.Builder
	for i, chat := range l.chats {
		if l.height > 0 && i >= l.height {
			break
		}
		name := util.SingleLine(chat.DisplayName(l.username))
		if runewidth.StringWidth(name) > inner {
			name = util.Truncate(name, inner)
		}
		if i == l.selected {
			b.WriteString(theme.ChatItemSelected.Render("> " + name))
		} else {
			b.WriteString(theme.ChatItem.Render("  " + name))
		}
		if i < len(l.chats)-1 {
			b.WriteString("\n")
		}
	}
	return theme.ChatList.Render(b.String())
}
