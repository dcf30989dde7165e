// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfigFile(t, "server_url: https://chat.example.net\nstate_dir: /tmp/parlor-test\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.ServerURL != "https://chat.example.net" {
			t.Errorf("unexpected server URL: %s", cfg.ServerURL)
		}
		if cfg.StateDir != "/tmp/parlor-test" {
			t.Errorf("unexpected state dir: %s", cfg.StateDir)
		}
	})

	t.Run("environment variable path", func(t *testing.T) {
		path := writeConfigFile(t, "server_url: http://localhost:8000\n")
		t.Setenv(EnvConfigPath, path)
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.ServerURL != "http://localhost:8000" {
			t.Errorf("unexpected server URL: %s", cfg.ServerURL)
		}
	})

	t.Run("server URL override", func(t *testing.T) {
		path := writeConfigFile(t, "server_url: https://chat.example.net\n")
		t.Setenv(EnvServerURL, "http://localhost:9000")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.ServerURL != "http://localhost:9000" {
			t.Errorf("override not applied: %s", cfg.ServerURL)
		}
	})

	t.Run("explicit path missing is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Fatal("expected error for missing explicit config")
		}
		if errors.Is(err, ErrNotConfigured) {
			t.Error("explicit missing file must not map to ErrNotConfigured")
		}
	})

	t.Run("missing server_url", func(t *testing.T) {
		path := writeConfigFile(t, "state_dir: /tmp/x\n")
		if _, err := Load(path); err == nil {
			t.Fatal("expected error for missing server_url")
		}
	})

	t.Run("invalid scheme", func(t *testing.T) {
		path := writeConfigFile(t, "server_url: ftp://chat.example.net\n")
		if _, err := Load(path); err == nil {
			t.Fatal("expected error for non-http scheme")
		}
	})
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{ServerURL: "https://chat.example.net"}
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Write failed: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("round trip mismatch: %s", loaded.ServerURL)
	}
}
