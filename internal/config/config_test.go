// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"https base url", func(c *Config) { c.Server.BaseURL = "https://chirp.example.com" }, false},
		{"bad base url scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, true},
		{"base url without host", func(c *Config) { c.Server.BaseURL = "http://" }, true},
		{"explicit socket url", func(c *Config) { c.Server.SocketURL = "wss://chirp.example.com/socket" }, false},
		{"socket url wrong scheme", func(c *Config) { c.Server.SocketURL = "http://x.example.com" }, true},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

// =============================================================================
// LOAD / SAVE ROUND TRIP
// =============================================================================

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://chirp.example.com"
	cfg.Chat.TypingDebounceMs = 1500
	cfg.UI.Theme = "light"

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if loaded.Server.BaseURL != "https://chirp.example.com" {
		t.Errorf("BaseURL = %q", loaded.Server.BaseURL)
	}
	if loaded.Chat.TypingDebounceMs != 1500 {
		t.Errorf("TypingDebounceMs = %d", loaded.Chat.TypingDebounceMs)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != Default().Server.BaseURL {
		t.Errorf("expected default base url, got %q", cfg.Server.BaseURL)
	}
}

func TestLoadFromPath_PartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	partial := "[server]\nbase_url = \"http://10.0.0.1:5000\"\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "http://10.0.0.1:5000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Chat.TypingDebounceMs != 2000 {
		t.Errorf("TypingDebounceMs should default to 2000, got %d", cfg.Chat.TypingDebounceMs)
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CHIRP_SERVER_URL", "https://env.example.com")
	t.Setenv("CHIRP_THEME", "light")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "https://env.example.com" {
		t.Errorf("env override not applied, BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("env override not applied, Theme = %q", cfg.UI.Theme)
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

func TestResolvedSocketURL(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		socket string
		want   string
	}{
		{"explicit socket url wins", "http://a", "ws://b/socket", "ws://b/socket"},
		{"derived from http", "http://chirp.example.com:5000", "", "ws://chirp.example.com:5000/socket"},
		{"derived from https", "https://chirp.example.com", "", "wss://chirp.example.com/socket"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Server.BaseURL = tc.base
			cfg.Server.SocketURL = tc.socket
			if got := cfg.ResolvedSocketURL(); got != tc.want {
				t.Errorf("ResolvedSocketURL() = %q, want %q", got, tc.want)
			}
		})
	}
}
