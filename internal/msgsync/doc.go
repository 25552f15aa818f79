// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package msgsync keeps the local view of a conversation consistent with
// the server: optimistic sends with temp-id reconciliation, id-based
// de-duplication of realtime deliveries, and the typing-indicator
// debounce.
//
// The engine owns exactly one conversation's message state at a time;
// switching conversations discards the previous state and reloads from
// the server. Display order is insertion order. Messages are never
// re-sorted by timestamp.
package msgsync
