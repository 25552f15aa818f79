// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is a conversation as returned by GET /chat/chats. A 1:1 chat has two
// users and no chat name; a group chat carries its own name.
type Chat struct {
	ID       string `json:"_id"`
	IsGroup  bool   `json:"isGroup"`
	ChatName string `json:"chatName,omitempty"`
	Users    []User `json:"users"`
}

// DisplayName resolves the name shown for this chat: the group name for
// group chats, otherwise the username of the other participant.
func (c *Chat) DisplayName(currentUsername string) string {
	if c.IsGroup {
		if c.ChatName != "" {
			return c.ChatName
		}
		return "Unnamed group"
	}
	for _, u := range c.Users {
		if u.Username != currentUsername {
			return u.Username
		}
	}
	// Self-chat or malformed user list.
	if len(c.Users) > 0 {
		return c.Users[0].Username
	}
	return "Unknown"
}

// HasUser reports whether the given username participates in this chat.
func (c *Chat) HasUser(username string) bool {
	for _, u := range c.Users {
		if u.Username == username {
			return true
		}
	}
	return false
}
