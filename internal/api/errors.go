// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error variables for common API failures.
var (
	// ErrNotConfigured indicates the client has no access token.
	ErrNotConfigured = errors.New("api client has no credentials")

	// ErrUnauthorized indicates authentication failed even after a
	// refresh-token exchange.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError represents a non-2xx response from the Chirp API.
type APIError struct {
	Status  int
	Path    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (HTTP %d) on %s: %s", e.Status, e.Path, e.Message)
	}
	return fmt.Sprintf("api error (HTTP %d) on %s", e.Status, e.Path)
}
