// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
)

func roomsCommand() *cli.Command {
	return &cli.Command{
		Name:    "rooms",
		Summary: "manage room memberships",
		Usage:   "parlor rooms <command> [flags]",
		Subcommands: []*cli.Command{
			roomsListCommand(),
			roomsCreateCommand(),
			roomsJoinCommand(),
			roomsLeaveCommand(),
		},
	}
}

func roomsListCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "list",
		Summary: "list joined rooms",
		Usage:   "parlor rooms list [flags]",
		Flags:   connectionFlags("list", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			summary, err := session.UserData(context.Background())
			if err != nil {
				return clearOnRejection(store, err)
			}
			if len(summary.Rooms) == 0 {
				fmt.Println("no rooms joined")
				return nil
			}

			unread := make(map[ref.RoomCode]bool, len(summary.Notifications))
			for _, code := range summary.Notifications {
				unread[code] = true
			}
			codes := make([]ref.RoomCode, 0, len(summary.Rooms))
			for code := range summary.Rooms {
				codes = append(codes, code)
			}
			slices.SortFunc(codes, func(a, b ref.RoomCode) int {
				if c := strings.Compare(summary.Rooms[a].Name, summary.Rooms[b].Name); c != 0 {
					return c
				}
				return strings.Compare(a.String(), b.String())
			})

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tROLE\tACTIVITY")
			for _, code := range codes {
				membership := summary.Rooms[code]
				role := "member"
				if membership.IsAdmin {
					role = "admin"
				}
				activity := ""
				if unread[code] {
					activity = "unread"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", code, membership.Name, role, activity)
			}
			return tw.Flush()
		},
	}
}

func roomsCreateCommand() *cli.Command {
	conn := &cli.Connection{}
	var (
		maxUsers     int
		withPassword bool
	)
	return &cli.Command{
		Name:    "create",
		Summary: "create a room",
		Description: `Create a room and print its join code.

The creator is the room's sole admin. With --password the room's join
password is prompted; rooms without one are open to anyone with the
code.`,
		Usage: "parlor rooms create <name> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.IntVar(&maxUsers, "users", messaging.MaxRoomUsers,
				fmt.Sprintf("member capacity (%d-%d)", messaging.MinRoomUsers, messaging.MaxRoomUsers))
			flagSet.BoolVar(&withPassword, "password", false, "prompt for a join password")
			conn.AddFlags(flagSet)
			return flagSet
		},
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: parlor rooms create <name>").
					WithHint("quote names containing spaces")
			}
			name := strings.TrimSpace(args[0])

			password := ""
			if withPassword {
				entered, err := cli.PromptPassword("room password")
				if err != nil {
					return err
				}
				password = entered
			}

			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			code, err := session.CreateRoom(context.Background(), name, maxUsers, password)
			if err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Printf("created %q with code %s\n", name, code)
			return nil
		},
	}
}

func roomsJoinCommand() *cli.Command {
	conn := &cli.Connection{}
	var withPassword bool
	return &cli.Command{
		Name:    "join",
		Summary: "join a room by code",
		Usage:   "parlor rooms join <code> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("join", pflag.ContinueOnError)
			flagSet.BoolVar(&withPassword, "password", false, "prompt for the room's join password")
			conn.AddFlags(flagSet)
			return flagSet
		},
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: parlor rooms join <code>")
			}
			code, err := ref.ParseRoomCode(args[0])
			if err != nil {
				return cli.Validation("%v", err)
			}

			password := ""
			if withPassword {
				entered, err := cli.PromptPassword("room password")
				if err != nil {
					return err
				}
				password = entered
			}

			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			name, err := session.JoinRoom(context.Background(), code, password)
			if err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Printf("joined %q\n", name)
			return nil
		},
	}
}

func roomsLeaveCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "leave",
		Summary: "leave a room",
		Description: `Leave a room.

Leaving a room you created deletes it for every member.`,
		Usage: "parlor rooms leave <code> [flags]",
		Flags: connectionFlags("leave", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: parlor rooms leave <code>")
			}
			code, err := ref.ParseRoomCode(args[0])
			if err != nil {
				return cli.Validation("%v", err)
			}

			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			if err := session.LeaveRoom(context.Background(), code); err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Printf("left %s\n", code)
			return nil
		},
	}
}
