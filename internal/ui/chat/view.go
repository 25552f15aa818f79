// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chirpchat/chirp-tui/internal/util"
)

// chatListWidth is the fixed width of the conversation pane.
const chatListWidth = 26

// =============================================================================
// LAYOUT
// =============================================================================

// layout recomputes component dimensions after a resize.
func (m *Model) layout() {
	// One line each for the header, the typing indicator, and the status
	// bar; two for the bordered input.
	contentHeight := m.height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}

	paneWidth := m.width - chatListWidth
	if paneWidth < 20 {
		paneWidth = 20
	}

	m.chatList.SetSize(chatListWidth, contentHeight)
	m.viewport.Width = paneWidth
	m.viewport.Height = contentHeight
	m.input.Width = paneWidth - 4
}

// refreshMessages re-renders the conversation into the viewport.
func (m *Model) refreshMessages() {
	m.viewport.SetContent(m.renderMessages())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.chatList.View(m.theme),
		m.viewport.View(),
	)
	typing := m.typing.View(m.theme)
	input := m.theme.InputContainer.Render(m.input.View())
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, typing, input, status)
}

// renderHeader draws the title line with the connection state.
func (m Model) renderHeader() string {
	conn := m.theme.StatusError.Render("offline")
	if m.connected {
		conn = m.theme.StatusOK.Render("online")
	}
	title := m.theme.Header.Render("chirp")
	user := m.theme.ShortcutDesc.Render("@" + m.sess.Username())
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", user, "  ", conn)
}

// renderStatusBar draws the bottom line: the last error when there is one,
// otherwise the shortcut help.
func (m Model) renderStatusBar() string {
	if m.lastError != nil {
		return m.theme.StatusBar.Render(
			m.theme.StatusError.Render(util.SingleLine(m.lastError.Error())),
		)
	}
	if m.loading {
		return m.theme.StatusBar.Render("loading...")
	}
	if m.statusMsg != "" {
		return m.theme.StatusBar.Render(m.statusMsg)
	}

	var parts []string
	for _, b := range m.keyMap.ShortHelp() {
		parts = append(parts,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// renderMessages formats the active conversation for the viewport.
func (m Model) renderMessages() string {
	msgs := m.engine.Messages()
	if len(msgs) == 0 {
		if m.sess.ActiveChat() == "" {
			return m.theme.ShortcutDesc.Render("select a conversation")
		}
		return m.theme.ShortcutDesc.Render("no messages yet")
	}

	var b strings.Builder
	for i, msg := range msgs {
		sender := m.theme.PeerSender.Render(msg.Sender.Username)
		if msg.Sender.Username == m.sess.Username() {
			sender = m.theme.OwnSender.Render(msg.Sender.Username)
		}

		line := fmt.Sprintf("%s %s", sender, m.theme.MessageBody.Render(msg.Content))
		if !msg.Confirmed() {
			line += " " + m.theme.PendingMarker.Render("(sending...)")
		} else if m.cfg.UI.ShowTimestamps && !msg.CreatedAt.IsZero() {
			line += " " + m.theme.Timestamp.Render(msg.CreatedAt.Local().Format("15:04"))
		}

		b.WriteString(line)
		if i < len(msgs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
