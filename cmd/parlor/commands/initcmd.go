// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/lib/config"
	"github.com/bureau-foundation/parlor/messaging"
)

func initCommand() *cli.Command {
	var (
		server    string
		stateDir  string
		path      string
		skipCheck bool
	)
	return &cli.Command{
		Name:    "init",
		Summary: "write the config file",
		Description: `Write the parlor config file pointing at a chat service.

The config file is written to the default location unless --config
names another path. Subsequent commands read it automatically.`,
		Usage: "parlor init --server <url> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("init", pflag.ContinueOnError)
			flagSet.StringVar(&server, "server", "", "chat service URL (required)")
			flagSet.StringVar(&stateDir, "state-dir", "", "directory for local state (default: beside the config file)")
			flagSet.StringVar(&path, "config", "", "where to write the config file")
			flagSet.BoolVar(&skipCheck, "skip-check", false, "do not verify the service is reachable")
			return flagSet
		},
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			if server == "" {
				return cli.Validation("--server is required").
					WithHint("example: parlor init --server https://chat.example.net")
			}
			if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
				return cli.Validation("server URL must start with http:// or https://: %q", server)
			}

			if !skipCheck {
				client, err := messaging.NewClient(messaging.ClientConfig{ServerURL: server})
				if err != nil {
					return err
				}
				if err := client.Ping(context.Background()); err != nil {
					usage := &cli.UsageError{Err: err}
					return usage.WithHint("pass --skip-check to write the config anyway")
				}
			}

			if path == "" {
				defaultPath, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			cfg := &config.Config{ServerURL: server, StateDir: stateDir}
			if err := cfg.Write(path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
}
