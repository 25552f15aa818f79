// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chirpchat/chirp-tui/internal/util"
)

// =============================================================================
// CREDENTIALS TYPE
// =============================================================================

// Credentials holds the signed-in identity and the token pair used against
// the REST API. The browser client kept these in localStorage; here they
// live in an explicit file so every consumer gets them injected.
type Credentials struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Valid reports whether the credentials are usable for API calls.
func (c *Credentials) Valid() bool {
	return c.UserID != "" && c.Username != "" && c.AccessToken != ""
}

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// ErrNoCredentials is returned when no credentials file exists.
var ErrNoCredentials = &CredentialError{Message: "no stored credentials"}

// CredentialError represents a credential storage error.
type CredentialError struct {
	Message string
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *CredentialError) Is(target error) bool {
	t, ok := target.(*CredentialError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// CredentialStore reads and writes the credentials file.
type CredentialStore struct {
	mu   sync.Mutex
	path string
}

// NewCredentialStore creates a store rooted at ~/.chirp/credentials.json.
func NewCredentialStore() (*CredentialStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewCredentialStoreWithPath(filepath.Join(home, ".chirp", "credentials.json")), nil
}

// NewCredentialStoreWithPath creates a store at an explicit path.
func NewCredentialStoreWithPath(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Load reads the stored credentials. Returns ErrNoCredentials when the file
// does not exist.
func (s *CredentialStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Save persists the credentials atomically with owner-only permissions.
func (s *CredentialStore) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}

// UpdateTokens rewrites just the token pair, keeping identity fields.
// Used after a refresh-token exchange.
func (s *CredentialStore) UpdateTokens(access, refresh string) error {
	creds, err := s.Load()
	if err != nil {
		return err
	}
	creds.AccessToken = access
	if refresh != "" {
		creds.RefreshToken = refresh
	}
	return s.Save(creds)
}

// Clear removes the credentials file. Missing file is not an error.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
