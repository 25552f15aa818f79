// chirp TUI - A terminal client for the Chirp chat service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chirpchat/chirp-tui/internal/api"
	"github.com/chirpchat/chirp-tui/internal/config"
	"github.com/chirpchat/chirp-tui/internal/msgsync"
	"github.com/chirpchat/chirp-tui/internal/session"
	"github.com/chirpchat/chirp-tui/internal/storage"
	"github.com/chirpchat/chirp-tui/internal/transport"
	"github.com/chirpchat/chirp-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const connectTimeout = 10 * time.Second

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.chirp/config.toml)")
		serverURL   = flag.String("server", "", "override the server base URL")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("chirp %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	switch flag.Arg(0) {
	case "login":
		if err := handleLogin(flag.Args()[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "logout":
		if err := handleLogout(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "":
		if err := runTUI(*configPath, *serverURL); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `chirp - terminal client for the Chirp chat service

Usage:
  chirp [flags]                                  run the chat TUI
  chirp login <user-id> <username> <access-token> [refresh-token]
  chirp logout
  chirp -version

Flags:
`)
	flag.PrintDefaults()
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

// handleLogin stores the identity and token pair in the credentials file.
func handleLogin(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("usage: chirp login <user-id> <username> <access-token> [refresh-token]")
	}
	creds := &storage.Credentials{
		UserID:      args[0],
		Username:    args[1],
		AccessToken: args[2],
	}
	if len(args) == 4 {
		creds.RefreshToken = args[3]
	}

	store, err := storage.NewCredentialStore()
	if err != nil {
		return err
	}
	if err := store.Save(creds); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", creds.Username)
	return nil
}

// handleLogout removes the stored credentials.
func handleLogout() error {
	store, err := storage.NewCredentialStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// =============================================================================
// TUI
// =============================================================================

// runTUI wires the client together and runs the Bubble Tea program.
func runTUI(configPath, serverOverride string) error {
	if err := setupLogging(); err != nil {
		return err
	}

	// Configuration
	if configPath == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return err
	}
	if serverOverride != "" {
		cfg.Server.BaseURL = serverOverride
		cfg.Server.SocketURL = ""
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// Credentials
	credStore, err := storage.NewCredentialStore()
	if err != nil {
		return err
	}
	creds, err := credStore.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCredentials) {
			return fmt.Errorf("not logged in; run: chirp login <user-id> <username> <access-token>")
		}
		return err
	}
	if !creds.Valid() {
		return fmt.Errorf("stored credentials are incomplete; run chirp login again")
	}

	// Core wiring
	sess := session.New(creds.UserID, creds.Username)
	apiClient := api.New(cfg.Server.BaseURL, creds.AccessToken, creds.RefreshToken).
		WithTokenRefreshHook(func(access, refresh string) {
			if err := credStore.UpdateTokens(access, refresh); err != nil {
				log.Printf("main: failed to persist refreshed tokens: %v", err)
			}
		})
	engine := msgsync.NewEngine(apiClient, sess)
	handle := transport.New(cfg.ResolvedSocketURL())
	defer handle.Disconnect()

	notifier := chat.NewNotifier()
	m := chat.New(cfg, sess, engine, apiClient, handle, notifier)

	p := tea.NewProgram(m, tea.WithAltScreen())
	notifier.Bind(p.Send)

	// Realtime connection, in the background so a slow dial never blocks
	// the first paint.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := handle.Connect(ctx); err != nil {
			log.Printf("main: realtime connect failed: %v", err)
			return
		}
		if err := handle.Identify(sess.UserID()); err != nil {
			log.Printf("main: identify failed: %v", err)
			return
		}
		notifier.Notify(chat.ConnectedMsg{})
	}()

	// Live config reload
	watcher, err := config.NewWatcher(configPath, 250*time.Millisecond, func(next *config.Config) {
		notifier.Notify(chat.ConfigReloadedMsg{Config: next})
	})
	if err != nil {
		log.Printf("main: config watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chirp exited with an error: %w", err)
	}
	return nil
}

// setupLogging redirects the standard logger to ~/.chirp/chirp.log; stdout
// belongs to the TUI.
func setupLogging() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "chirp.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return nil
}
