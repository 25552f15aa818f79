// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the signed-in identity and API tokens for chirp.
//
// Message history is deliberately not persisted: the active conversation is
// refetched from the server whenever it is selected.
package storage
