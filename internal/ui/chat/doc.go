// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main view of the chirp TUI: the conversation
// list, the message pane, and the input line.
//
// The view is a Bubble Tea model. Realtime events from the transport are
// forwarded into the program through a Notifier so every state change goes
// through Update.
package chat
