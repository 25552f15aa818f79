// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chirp TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR PALETTE
// =============================================================================

// Palette colors. Adaptive pairs pick the light variant on light terminals.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	colorOwn    = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#7DD3FC"}
	colorPeer   = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#86EFAC"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorError  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	ColorProfile termenv.Profile
	HasTrueColor bool

	// Application container
	App    lipgloss.Style
	Header lipgloss.Style

	// Conversation list (left pane)
	ChatList         lipgloss.Style
	ChatItem         lipgloss.Style
	ChatItemSelected lipgloss.Style
	ChatItemUnread   lipgloss.Style

	// Message rendering
	OwnSender       lipgloss.Style
	PeerSender      lipgloss.Style
	MessageBody     lipgloss.Style
	PendingMarker   lipgloss.Style
	Timestamp       lipgloss.Style
	TypingIndicator lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status line
	StatusBar    lipgloss.Style
	StatusOK     lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// New creates a theme, probing the terminal for color support.
func New() *Theme {
	profile := termenv.ColorProfile()
	return newWithProfile(profile)
}

// newWithProfile builds the style set for a known color profile.
func newWithProfile(profile termenv.Profile) *Theme {
	t := &Theme{
		ColorProfile: profile,
		HasTrueColor: profile == termenv.TrueColor,
	}

	t.App = lipgloss.NewStyle()
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Padding(0, 1)

	t.ChatList = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(colorBorder).
		Padding(0, 1)
	t.ChatItem = lipgloss.NewStyle().Padding(0, 1)
	t.ChatItemSelected = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(colorAccent)
	t.ChatItemUnread = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true)

	t.OwnSender = lipgloss.NewStyle().Bold(true).Foreground(colorOwn)
	t.PeerSender = lipgloss.NewStyle().Bold(true).Foreground(colorPeer)
	t.MessageBody = lipgloss.NewStyle()
	t.PendingMarker = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(colorMuted)
	t.TypingIndicator = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(colorBorder).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	t.StatusBar = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	t.StatusOK = lipgloss.NewStyle().Foreground(colorPeer)
	t.StatusError = lipgloss.NewStyle().Foreground(colorError)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(colorMuted)

	return t
}
