// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/lib/credstore"
	"github.com/bureau-foundation/parlor/messaging"
)

// clearOnRejection maps a credential rejection to a login hint after
// discarding the stale saved session. Other errors pass through.
func clearOnRejection(store *credstore.Store, err error) error {
	if messaging.IsValidationFail(err) {
		_ = store.Clear()
		return cli.Validation("session rejected by the service").
			WithHint("run 'parlor login <username>'")
	}
	return err
}

// connectionFlags builds the standard flag set carrying the shared
// connection flags.
func connectionFlags(name string, conn *cli.Connection) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
		conn.AddFlags(flagSet)
		return flagSet
	}
}

func registerCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "register",
		Summary: "create an account and log in",
		Description: `Create a new account on the chat service and log in.

Usernames are 5-16 characters with no whitespace; passwords are at
least 5 characters. The password is prompted, never passed on the
command line.`,
		Usage: "parlor register <username> [flags]",
		Flags: connectionFlags("register", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: parlor register <username>")
			}
			username := args[0]

			password, err := cli.PromptPassword("password")
			if err != nil {
				return err
			}
			confirm, err := cli.PromptPassword("confirm password")
			if err != nil {
				return err
			}
			if password != confirm {
				return cli.Validation("passwords do not match")
			}

			logger := conn.Logger()
			client, cfg, err := conn.Client(logger)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if _, err := client.CreateAccount(ctx, username, password); err != nil {
				return err
			}
			session, err := client.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("account created but login failed: %w", err)
			}
			store := credstore.New(cfg.StateDir)
			if err := store.Save(&credstore.Credentials{
				DBKey:     session.DBKey(),
				SessionID: session.SessionID(),
				Username:  username,
			}); err != nil {
				return err
			}
			fmt.Printf("registered and logged in as %s\n", username)
			return nil
		},
	}
}

func loginCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "login",
		Summary: "log in and save the session",
		Usage:   "parlor login <username> [flags]",
		Flags:   connectionFlags("login", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: parlor login <username>")
			}
			username := args[0]

			password, err := cli.PromptPassword("password")
			if err != nil {
				return err
			}

			logger := conn.Logger()
			client, cfg, err := conn.Client(logger)
			if err != nil {
				return err
			}
			session, err := client.Login(context.Background(), username, password)
			if err != nil {
				return err
			}
			store := credstore.New(cfg.StateDir)
			if err := store.Save(&credstore.Credentials{
				DBKey:     session.DBKey(),
				SessionID: session.SessionID(),
				Username:  username,
			}); err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", username)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "logout",
		Summary: "invalidate and discard the saved session",
		Usage:   "parlor logout [flags]",
		Flags:   connectionFlags("logout", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			// The saved session is discarded even when the server-side
			// logout fails: a rejected credential pair is already dead.
			logoutErr := session.Logout(context.Background())
			if err := store.Clear(); err != nil {
				return err
			}
			if logoutErr != nil && !messaging.IsValidationFail(logoutErr) {
				return logoutErr
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "whoami",
		Summary: "show the logged-in account",
		Usage:   "parlor whoami [flags]",
		Flags:   connectionFlags("whoami", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			summary, err := session.UserData(context.Background())
			if err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Printf("%s on %s (joined %s, member of %d rooms)\n",
				summary.Username, session.Client().ServerURL(),
				summary.JoinedAt, len(summary.Rooms))
			return nil
		},
	}
}

func passwdCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "passwd",
		Summary: "change the account password",
		Usage:   "parlor passwd [flags]",
		Flags:   connectionFlags("passwd", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			current, err := cli.PromptPassword("current password")
			if err != nil {
				return err
			}
			newPassword, err := cli.PromptPassword("new password")
			if err != nil {
				return err
			}
			confirm, err := cli.PromptPassword("confirm new password")
			if err != nil {
				return err
			}
			if newPassword != confirm {
				return cli.Validation("passwords do not match")
			}
			if err := session.ChangePassword(context.Background(), current, newPassword); err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Println("password changed")
			return nil
		},
	}
}

func deleteAccountCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "delete-account",
		Summary: "permanently delete the account",
		Description: `Permanently delete the logged-in account.

Rooms created by the account are removed for all their members, and
every shared file owned by the account is deleted. The current
password is prompted as confirmation.`,
		Usage: "parlor delete-account [flags]",
		Flags: connectionFlags("delete-account", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			password, err := cli.PromptPassword("password")
			if err != nil {
				return err
			}
			if err := session.DeleteAccount(context.Background(), password); err != nil {
				return clearOnRejection(store, err)
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("account deleted")
			return nil
		},
	}
}
