// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "github.com/chirpchat/chirp-tui/internal/ui/styles"

// typingFrames are the animation frames for the peer-typing indicator.
var typingFrames = []string{".", "..", "...", ".."}

// TypingIndicator renders the animated "peer is typing" line.
type TypingIndicator struct {
	frame  int
	active bool
}

// SetActive turns the indicator on or off. Turning it on restarts the
// animation.
func (ti *TypingIndicator) SetActive(active bool) {
	if active && !ti.active {
		ti.frame = 0
	}
	ti.active = active
}

// Active reports whether the indicator is showing.
func (ti *TypingIndicator) Active() bool {
	return ti.active
}

// Advance steps the animation one frame.
func (ti *TypingIndicator) Advance() {
	ti.frame = (ti.frame + 1) % len(typingFrames)
}

// View renders the indicator, or an empty string when inactive.
func (ti *TypingIndicator) View(theme *styles.Theme) string {
	if !ti.active {
		return ""
	}
	return theme.TypingIndicator.Render("typing" + typingFrames[ti.frame])
}
