// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "testing"

func TestNew(t *testing.T) {
	s := New("u1", "alice")
	if s.UserID() != "u1" || s.Username() != "alice" {
		t.Errorf("identity = %q/%q", s.UserID(), s.Username())
	}
	if s.ID() == "" {
		t.Error("session id should be generated")
	}
	if s.StartTime().IsZero() {
		t.Error("start time should be set")
	}
	if s.ActiveChat() != "" {
		t.Error("no chat should be active initially")
	}
}

func TestSetActiveChat(t *testing.T) {
	s := New("u1", "alice")

	prev := s.SetActiveChat("chatX")
	if prev != "" {
		t.Errorf("previous = %q, want empty", prev)
	}
	if !s.IsActive("chatX") {
		t.Error("chatX should be active")
	}

	prev = s.SetActiveChat("chatY")
	if prev != "chatX" {
		t.Errorf("previous = %q, want chatX", prev)
	}
	if s.IsActive("chatX") {
		t.Error("chatX should no longer be active")
	}
	if !s.IsActive("chatY") {
		t.Error("chatY should be active")
	}
}

func TestIsActive_EmptyNeverActive(t *testing.T) {
	s := New("u1", "alice")
	if s.IsActive("") {
		t.Error("empty chat id must never report active")
	}
}
