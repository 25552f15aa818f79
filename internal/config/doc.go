// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chirp.
//
// Configuration lives at ~/.chirp/config.toml with built-in defaults and
// environment variable overrides (CHIRP_SERVER_URL, CHIRP_SOCKET_URL,
// CHIRP_THEME).
package config
