// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport maintains the single realtime websocket connection to
// the Chirp server and fans incoming events out to conversation-scoped
// subscriptions.
//
// The connection is shared process-wide; subscriptions are handed out per
// conversation and must be closed when the view that owns them goes away.
// A subscription that is never closed keeps receiving events; duplicate
// deliveries after a conversation switch are a caller bug, not a transport
// concern.
package transport
