// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Parlor.
//
// Configuration is loaded from a single YAML file specified by:
//   - the --config flag passed to the command, or
//   - the PARLOR_CONFIG environment variable, or
//   - the default path under the user config directory.
//
// There are no other fallbacks or automatic discovery. The one
// exception is PARLOR_SERVER, which overrides the server URL after the
// file is loaded, useful for pointing an existing installation at a
// staging deployment without editing the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "PARLOR_CONFIG"

// EnvServerURL overrides the configured server URL when set.
const EnvServerURL = "PARLOR_SERVER"

// ErrNotConfigured is returned by Load when no config file exists at
// any of the candidate locations. Callers show a setup hint instead of
// a raw file-not-found error.
var ErrNotConfigured = errors.New("config: no configuration file found")

// Config is the Parlor client configuration.
type Config struct {
	// ServerURL is the base URL of the chat service
	// (e.g., "https://chat.example.net"). Channel endpoints are
	// derived from it by swapping the scheme to ws/wss.
	ServerURL string `yaml:"server_url"`

	// StateDir is where Parlor keeps local state: the saved session
	// and downloaded files. Defaults to <user config dir>/parlor.
	StateDir string `yaml:"state_dir,omitempty"`
}

// DefaultPath returns the default config file location:
// <user config dir>/parlor/config.yaml.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving user config directory: %w", err)
	}
	return filepath.Join(base, "parlor", "config.yaml"), nil
}

// Load reads the configuration. explicitPath comes from the --config
// flag and wins when non-empty; otherwise PARLOR_CONFIG is consulted,
// then the default path. A missing file at an explicitly requested
// location is an error; a missing file at the default location returns
// ErrNotConfigured.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if override := os.Getenv(EnvServerURL); override != "" {
		cfg.ServerURL = override
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Write persists the configuration to path, creating parent
// directories as needed. Used by first-run setup.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: creating directory for %s: %w", path, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("config: resolving user config directory: %w", err)
		}
		c.StateDir = filepath.Join(base, "parlor")
	}
	return nil
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://: %q", c.ServerURL)
	}
	return nil
}
