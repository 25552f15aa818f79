// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *CredentialStore {
	t.Helper()
	return NewCredentialStoreWithPath(filepath.Join(t.TempDir(), "credentials.json"))
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	store := testStore(t)

	creds := &Credentials{
		UserID:       "u1",
		Username:     "alice",
		AccessToken:  "tok-access",
		RefreshToken: "tok-refresh",
	}
	if err := store.Save(creds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Username != "alice" || loaded.AccessToken != "tok-access" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set on save")
	}
	if !loaded.Valid() {
		t.Error("round-tripped credentials should be valid")
	}
}

func TestCredentialStore_LoadMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.Load()
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestCredentialStore_UpdateTokens(t *testing.T) {
	store := testStore(t)
	if err := store.Save(&Credentials{
		UserID: "u1", Username: "alice",
		AccessToken: "old-access", RefreshToken: "old-refresh",
	}); err != nil {
		t.Fatal(err)
	}

	if err := store.UpdateTokens("new-access", ""); err != nil {
		t.Fatalf("UpdateTokens: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.AccessToken != "new-access" {
		t.Errorf("AccessToken = %q", loaded.AccessToken)
	}
	if loaded.RefreshToken != "old-refresh" {
		t.Errorf("RefreshToken should be kept when empty, got %q", loaded.RefreshToken)
	}
	if loaded.Username != "alice" {
		t.Errorf("identity fields should survive token update, got %q", loaded.Username)
	}
}

func TestCredentialStore_Clear(t *testing.T) {
	store := testStore(t)
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file should succeed: %v", err)
	}

	store.Save(&Credentials{UserID: "u1", Username: "a", AccessToken: "t"})
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials after Clear, got %v", err)
	}
}

func TestCredentials_Valid(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"complete", Credentials{UserID: "u", Username: "a", AccessToken: "t"}, true},
		{"missing token", Credentials{UserID: "u", Username: "a"}, false},
		{"missing identity", Credentials{AccessToken: "t"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.creds.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
