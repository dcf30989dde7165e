// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/lib/ref"
)

func sendCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "send",
		Summary: "post a message to a room",
		Usage:   "parlor send <code> <message...> [flags]",
		Flags:   connectionFlags("send", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) < 2 {
				return cli.Validation("usage: parlor send <code> <message...>")
			}
			code, err := ref.ParseRoomCode(args[0])
			if err != nil {
				return cli.Validation("%v", err)
			}
			content := strings.Join(args[1:], " ")

			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			if err := session.AddMessage(context.Background(), code, content); err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Printf("sent to %s\n", code)
			return nil
		},
	}
}
