// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chirpchat/chirp-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chirp configuration.
type Config struct {
	Version string `toml:"version"`

	// Server connectivity
	Server ServerConfig `toml:"server"`

	// Chat behavior
	Chat ChatConfig `toml:"chat"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains the endpoints of the Chirp backend.
type ServerConfig struct {
	// BaseURL is the HTTP origin of the REST API. The /api prefix is
	// appended by the API client.
	BaseURL string `toml:"base_url"`
	// SocketURL is the websocket endpoint for the realtime channel.
	// Empty means derive from BaseURL (http -> ws).
	SocketURL string `toml:"socket_url"`
	// RequestTimeoutSecs bounds each REST call. Default: 15.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
}

// ChatConfig contains chat behavior settings.
type ChatConfig struct {
	// TypingDebounceMs is the idle window after the last keystroke before
	// a stopTyping signal is emitted. Default: 2000.
	TypingDebounceMs int `toml:"typing_debounce_ms"`
	// InputCharLimit caps the message input length. Default: 4096.
	InputCharLimit int `toml:"input_char_limit"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowTimestamps displays message timestamps in the chat view
	ShowTimestamps bool `toml:"show_timestamps"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Server: ServerConfig{
			BaseURL:            "http://localhost:5000",
			SocketURL:          "",
			RequestTimeoutSecs: 15,
		},
		Chat: ChatConfig{
			TypingDebounceMs: 2000,
			InputCharLimit:   4096,
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: false,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the chirp configuration directory (~/.chirp).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chirp"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from ~/.chirp/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied
// last, then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path. A missing
// file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to ~/.chirp/config.toml atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path atomically.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies CHIRP_* environment variables over the loaded
// configuration. Environment always wins over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHIRP_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("CHIRP_SOCKET_URL"); v != "" {
		c.Server.SocketURL = v
	}
	if v := os.Getenv("CHIRP_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// SetDefaults fills zero values with defaults after a partial file load.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.RequestTimeoutSecs <= 0 {
		c.Server.RequestTimeoutSecs = def.Server.RequestTimeoutSecs
	}
	if c.Chat.TypingDebounceMs <= 0 {
		c.Chat.TypingDebounceMs = def.Chat.TypingDebounceMs
	}
	if c.Chat.InputCharLimit <= 0 {
		c.Chat.InputCharLimit = def.Chat.InputCharLimit
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validateURL(c.Server.BaseURL, "http", "https"); err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	if c.Server.SocketURL != "" {
		if err := validateURL(c.Server.SocketURL, "ws", "wss"); err != nil {
			return fmt.Errorf("server.socket_url: %w", err)
		}
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme: unknown theme %q", c.UI.Theme)
	}
	return nil
}

// validateURL checks that s parses and uses one of the allowed schemes.
func validateURL(s string, schemes ...string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme {
			if u.Host == "" {
				return fmt.Errorf("URL %q has no host", s)
			}
			return nil
		}
	}
	return fmt.Errorf("URL %q must use scheme %s", s, strings.Join(schemes, " or "))
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// ResolvedSocketURL returns the websocket endpoint, deriving it from the
// REST base URL when socket_url is not set explicitly.
func (c *Config) ResolvedSocketURL() string {
	if c.Server.SocketURL != "" {
		return c.Server.SocketURL
	}
	s := c.Server.BaseURL
	if strings.HasPrefix(s, "https://") {
		return "wss://" + strings.TrimPrefix(s, "https://") + "/socket"
	}
	return "ws://" + strings.TrimPrefix(s, "http://") + "/socket"
}
