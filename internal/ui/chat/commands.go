// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpchat/chirp-tui/internal/api"
	"github.com/chirpchat/chirp-tui/internal/msgsync"
)

// typingFrameInterval paces the typing-indicator animation.
const typingFrameInterval = 300 * time.Millisecond

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// loadChatsCmd fetches the conversation list.
func loadChatsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		chats, err := client.FetchChats(ctx)
		return ChatsLoadedMsg{Chats: chats, Err: err}
	}
}

// loadHistoryCmd fetches the history of chatID into the engine. The engine
// discards the result if the user has switched away by the time it lands.
func loadHistoryCmd(engine *msgsync.Engine, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		err := engine.LoadHistory(ctx, chatID)
		return HistoryLoadedMsg{ChatID: chatID, Err: err}
	}
}

// completeSendCmd runs the network half of a staged send. The optimistic
// record is already on screen.
func completeSendCmd(engine *msgsync.Engine, tempID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		_, err := engine.Complete(ctx, tempID)
		return SendResultMsg{Err: err}
	}
}

// editCmd rewrites a message's content.
func editCmd(engine *msgsync.Engine, key, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		return EditResultMsg{Err: engine.Edit(ctx, key, content)}
	}
}

// deleteCmd removes a message.
func deleteCmd(engine *msgsync.Engine, key string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()

		return DeleteResultMsg{Err: engine.Delete(ctx, key)}
	}
}

// typingTickCmd schedules the next typing-indicator frame.
func typingTickCmd() tea.Cmd {
	return tea.Tick(typingFrameInterval, func(time.Time) tea.Msg {
		return TypingTickMsg{}
	})
}
