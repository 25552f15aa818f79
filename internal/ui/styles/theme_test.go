// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/muesli/termenv"
)

func TestNewWithProfile(t *testing.T) {
	tests := []struct {
		name         string
		profile      termenv.Profile
		hasTrueColor bool
	}{
		{"true color", termenv.TrueColor, true},
		{"256 colors", termenv.ANSI256, false},
		{"16 colors", termenv.ANSI, false},
		{"monochrome", termenv.Ascii, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := newWithProfile(tt.profile)
			if theme.HasTrueColor != tt.hasTrueColor {
				t.Errorf("HasTrueColor = %v, want %v", theme.HasTrueColor, tt.hasTrueColor)
			}
			if theme.ColorProfile != tt.profile {
				t.Errorf("ColorProfile = %v, want %v", theme.ColorProfile, tt.profile)
			}
		})
	}
}

func TestStylesRender(t *testing.T) {
	theme := newWithProfile(termenv.Ascii)

	// Rendering must not panic and must preserve the text.
	for name, s := range map[string]string{
		"header":  theme.Header.Render("chirp"),
		"own":     theme.OwnSender.Render("alice"),
		"peer":    theme.PeerSender.Render("bob"),
		"pending": theme.PendingMarker.Render("sending..."),
		"error":   theme.StatusError.Render("send failed"),
	} {
		if s == "" {
			t.Errorf("%s rendered empty", name)
		}
	}
}
