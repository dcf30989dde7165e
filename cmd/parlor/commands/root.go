// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/lib/version"
)

// Root builds the parlor command tree. Running parlor with no
// subcommand opens the interactive UI.
func Root() *cli.Command {
	conn := &cli.Connection{}
	var showVersion bool
	return &cli.Command{
		Name:    "parlor",
		Summary: "client for the Parlor chat service",
		Description: `parlor is the command-line client for the Parlor chat service.

Run with no arguments to open the interactive UI. The subcommands
cover the same operations for scripts: account management, room
lifecycle, messaging, and file sharing.`,
		Usage: "parlor [command] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("parlor", pflag.ContinueOnError)
			flagSet.BoolVar(&showVersion, "version", false, "print version information")
			conn.AddFlags(flagSet)
			return flagSet
		},
		Subcommands: []*cli.Command{
			initCommand(),
			registerCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			passwdCommand(),
			deleteAccountCommand(),
			roomsCommand(),
			sendCommand(),
			uploadCommand(),
			downloadCommand(),
			openCommand(),
		},
		Run: func(_ *pflag.FlagSet, args []string) error {
			if showVersion {
				version.Print("parlor")
				return nil
			}
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			return runOpen(conn)
		},
	}
}
