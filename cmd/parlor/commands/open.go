// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/realtime"
	"github.com/bureau-foundation/parlor/tui"
)

func openCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "open",
		Summary: "open the interactive UI",
		Usage:   "parlor open [flags]",
		Flags:   connectionFlags("open", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			return runOpen(conn)
		},
	}
}

// runOpen starts the interactive UI. Also the behavior of bare
// "parlor".
func runOpen(conn *cli.Connection) error {
	// Background logging goes into the UI's status bar, not stderr,
	// which the alt screen owns while the program runs.
	logHandler := tui.NewLogHandler(slog.LevelWarn)
	logger := slog.New(logHandler)

	session, store, err := conn.Session(logger)
	if err != nil {
		return err
	}

	notifications, err := realtime.DialNotifications(context.Background(),
		session.Client(), session.DBKey(), logger)
	if err != nil {
		return err
	}
	defer notifications.Close()

	model := tui.New(session, notifications, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	logHandler.SetProgram(program)

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	if m, ok := finalModel.(*tui.Model); ok && m.CredentialsRejected() {
		_ = store.Clear()
		return cli.Validation("session rejected by the service").
			WithHint("run 'parlor login <username>'")
	}
	return nil
}
