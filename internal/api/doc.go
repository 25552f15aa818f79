// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the Chirp REST API.
//
// The client consumes the message and chat endpoints under /api, carries a
// bearer token, and transparently retries a request once after exchanging
// the refresh token when the server answers 401.
package api
