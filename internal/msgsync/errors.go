// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package msgsync

import "errors"

// Engine error taxonomy. Operation failures wrap the per-operation
// sentinel so the UI can phrase the status line without string matching.
var (
	// ErrFetch wraps a failed history load.
	ErrFetch = errors.New("failed to load messages")

	// ErrSend wraps a failed send after the optimistic append was rolled
	// back.
	ErrSend = errors.New("failed to send message")

	// ErrEdit wraps a failed edit. Local state is untouched.
	ErrEdit = errors.New("failed to edit message")

	// ErrDelete wraps a failed delete. Local state is untouched.
	ErrDelete = errors.New("failed to delete message")

	// ErrEmptyMessage is returned when a send or edit would carry no
	// content after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoActiveChat is returned when an operation needs an active
	// conversation and none is selected.
	ErrNoActiveChat = errors.New("no active conversation")

	// ErrUnconfirmed is returned when an edit or delete targets a message
	// the server has not acknowledged yet.
	ErrUnconfirmed = errors.New("message not yet confirmed by server")

	// ErrUnknownMessage is returned when an edit or delete targets a
	// message the store does not hold.
	ErrUnknownMessage = errors.New("unknown message")
)
