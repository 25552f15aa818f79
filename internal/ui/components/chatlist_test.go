// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/chirpchat/chirp-tui/internal/model"
	"github.com/chirpchat/chirp-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	t := styles.New()
	// Force deterministic plain output regardless of the test terminal.
	t.ColorProfile = termenv.Ascii
	return t
}

func testChats() []model.Chat {
	return []model.Chat{
		{ID: "c1", Users: []model.User{{Username: "alice"}, {Username: "bob"}}},
		{ID: "c2", IsGroup: true, ChatName: "dev team"},
		{ID: "c3", Users: []model.User{{Username: "alice"}, {Username: "carol"}}},
	}
}

func TestChatListSelection(t *testing.T) {
	l := NewChatList("alice")
	l.SetChats(testChats())

	sel, ok := l.Selected()
	if !ok || sel.ID != "c1" {
		t.Fatalf("initial selection = %v %v, want c1", sel.ID, ok)
	}

	l.MoveDown()
	l.MoveDown()
	l.MoveDown() // clamped at the end
	sel, _ = l.Selected()
	if sel.ID != "c3" {
		t.Errorf("selection after moves = %s, want c3", sel.ID)
	}

	l.MoveUp()
	sel, _ = l.Selected()
	if sel.ID != "c2" {
		t.Errorf("selection after up = %s, want c2", sel.ID)
	}
}

func TestChatListSelectionClampedOnShrink(t *testing.T) {
	l := NewChatList("alice")
	l.SetChats(testChats())
	l.MoveDown()
	l.MoveDown()

	l.SetChats(testChats()[:1])
	sel, ok := l.Selected()
	if !ok || sel.ID != "c1" {
		t.Errorf("selection after shrink = %v %v, want c1", sel.ID, ok)
	}
}

func TestChatListEmpty(t *testing.T) {
	l := NewChatList("alice")
	if _, ok := l.Selected(); ok {
		t.Error("empty list should have no selection")
	}
	l.MoveDown()
	l.MoveUp()
	if got := l.View(testTheme()); !strings.Contains(got, "no conversations") {
		t.Errorf("empty view = %q", got)
	}
}

func TestChatListViewShowsDisplayNames(t *testing.T) {
	l := NewChatList("alice")
	l.SetChats(testChats())
	l.SetSize(30, 10)

	view := l.View(testTheme())
	if !strings.Contains(view, "bob") {
		t.Errorf("1:1 chat should show the peer's name, got %q", view)
	}
	if !strings.Contains(view, "dev team") {
		t.Errorf("group chat should show its name, got %q", view)
	}
	if strings.Contains(view, "alice") {
		t.Errorf("own username should not appear as a chat name, got %q", view)
	}
}

func TestTypingIndicator(t *testing.T) {
	var ti TypingIndicator
	theme := testTheme()

	if got := ti.View(theme); got != "" {
		t.Errorf("inactive indicator rendered %q", got)
	}

	ti.SetActive(true)
	first := ti.View(theme)
	if !strings.Contains(first, "typing") {
		t.Errorf("active indicator = %q", first)
	}

	ti.Advance()
	if second := ti.View(theme); second == first {
		t.Error("advancing should change the frame")
	}

	ti.SetActive(false)
	if got := ti.View(theme); got != "" {
		t.Errorf("deactivated indicator rendered %q", got)
	}
}
