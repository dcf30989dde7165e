// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// parlor is the command-line client for the Parlor chat service:
// account management, room lifecycle, messaging, and file sharing from
// scripts, plus the interactive terminal UI.
//
// Run "parlor" with no arguments to open the interactive UI, or see
// "parlor --help" for the scriptable subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/parlor/cmd/parlor/commands"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
