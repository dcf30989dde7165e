// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/parlor/lib/config"
	"github.com/bureau-foundation/parlor/lib/credstore"
	"github.com/bureau-foundation/parlor/messaging"
)

// Connection carries the flags and loading logic shared by every
// subcommand that talks to the service.
type Connection struct {
	// ConfigPath is the --config flag: an explicit config file.
	ConfigPath string

	// ServerURL is the --server flag: overrides the configured server.
	ServerURL string

	// Verbose is the --verbose flag: debug-level logging to stderr.
	Verbose bool
}

// AddFlags registers the shared connection flags.
func (c *Connection) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ConfigPath, "config", "", "path to config file")
	flagSet.StringVar(&c.ServerURL, "server", "", "chat service URL (overrides config)")
	flagSet.BoolVar(&c.Verbose, "verbose", false, "debug logging to stderr")
}

// Logger builds the stderr logger for CLI runs. Warnings only unless
// --verbose.
func (c *Connection) Logger() *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadConfig resolves the effective configuration. A --server flag can
// stand in for a config file entirely.
func (c *Connection) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if errors.Is(err, config.ErrNotConfigured) {
		if c.ServerURL != "" {
			base, dirErr := os.UserConfigDir()
			if dirErr != nil {
				return nil, fmt.Errorf("resolving user config directory: %w", dirErr)
			}
			return &config.Config{
				ServerURL: c.ServerURL,
				StateDir:  filepath.Join(base, "parlor"),
			}, nil
		}
		return nil, Validation("no configuration found").
			WithHint("run 'parlor init --server <url>' or pass --server")
	}
	if err != nil {
		return nil, err
	}
	if c.ServerURL != "" {
		cfg.ServerURL = c.ServerURL
	}
	return cfg, nil
}

// Client builds the API client from the loaded configuration.
func (c *Connection) Client(logger *slog.Logger) (*messaging.Client, *config.Config, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := messaging.NewClient(messaging.ClientConfig{
		ServerURL: cfg.ServerURL,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// Session restores the saved session. Returns a login hint when no
// session is stored.
func (c *Connection) Session(logger *slog.Logger) (*messaging.Session, *credstore.Store, error) {
	client, cfg, err := c.Client(logger)
	if err != nil {
		return nil, nil, err
	}
	store := credstore.New(cfg.StateDir)
	creds, err := store.Load()
	if errors.Is(err, credstore.ErrNotLoggedIn) {
		return nil, nil, Validation("not logged in").WithHint("run 'parlor login <username>'")
	}
	if err != nil {
		return nil, nil, err
	}
	return client.Session(creds.DBKey, creds.SessionID, creds.Username), store, nil
}

// PromptPassword reads a password from the terminal without echo. The
// label goes to stderr so stdout stays scriptable.
func PromptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
