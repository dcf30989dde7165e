// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package credstore persists the logged-in Parlor session between
// invocations: the account credential key, the server-issued session
// ID, and the cached display username.
//
// The store is a single YAML file under the state directory, written
// with owner-only permissions. It is cleared wholesale on logout and
// account deletion, and whenever the service rejects the credential
// pair (the session may have expired or been invalidated server-side,
// which the service is free to do at any time).
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sessionFileName is the file holding the saved session, relative to
// the state directory.
const sessionFileName = "session.yaml"

// ErrNotLoggedIn is returned by Load when no session file exists.
// Callers show a "run parlor login" hint instead of a raw error.
var ErrNotLoggedIn = errors.New("credstore: not logged in")

// Credentials is the persisted session state.
type Credentials struct {
	// DBKey is the long-lived account credential token.
	DBKey string `yaml:"db_key"`

	// SessionID authenticates requests together with DBKey. Issued at
	// login, renewed server-side on every validated request.
	SessionID string `yaml:"session_id"`

	// Username is the display name cached at login so the client can
	// recognize its own member entry without an extra round trip.
	Username string `yaml:"username"`
}

// Store reads and writes the saved session under a state directory.
type Store struct {
	stateDir string
}

// New returns a Store rooted at stateDir. The directory is created on
// first Save, not here.
func New(stateDir string) *Store {
	return &Store{stateDir: stateDir}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return filepath.Join(s.stateDir, sessionFileName)
}

// Load reads the saved session. Returns ErrNotLoggedIn when the file
// does not exist, and a distinct parse error when it exists but is
// corrupt (the caller should surface that, not silently re-login).
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("credstore: reading %s: %w", s.Path(), err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("credstore: parsing %s: %w", s.Path(), err)
	}
	if creds.DBKey == "" || creds.SessionID == "" {
		return nil, fmt.Errorf("credstore: %s is missing credential fields", s.Path())
	}
	return &creds, nil
}

// Save writes the session file with owner-only permissions, creating
// the state directory if needed.
func (s *Store) Save(creds *Credentials) error {
	if creds.DBKey == "" || creds.SessionID == "" {
		return fmt.Errorf("credstore: refusing to save incomplete credentials")
	}
	if err := os.MkdirAll(s.stateDir, 0o700); err != nil {
		return fmt.Errorf("credstore: creating state directory %s: %w", s.stateDir, err)
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("credstore: encoding session: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("credstore: writing %s: %w", s.Path(), err)
	}
	return nil
}

// Clear removes the saved session. Removing an already-absent file is
// not an error: Clear is called on every validation failure and may
// race a previous Clear.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: removing %s: %w", s.Path(), err)
	}
	return nil
}
