// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parlor/cmd/parlor/cli"
	"github.com/bureau-foundation/parlor/lib/ref"
)

func uploadCommand() *cli.Command {
	conn := &cli.Connection{}
	return &cli.Command{
		Name:    "upload",
		Summary: "share a file with a room",
		Usage:   "parlor upload <code> <path> [flags]",
		Flags:   connectionFlags("upload", conn),
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 2 {
				return cli.Validation("usage: parlor upload <code> <path>")
			}
			code, err := ref.ParseRoomCode(args[0])
			if err != nil {
				return cli.Validation("%v", err)
			}
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[1], err)
			}
			defer file.Close()

			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}
			uploaded, err := session.UploadFile(context.Background(), code,
				filepath.Base(args[1]), file)
			if err != nil {
				return clearOnRejection(store, err)
			}
			fmt.Printf("uploaded %s (id %s)\n", uploaded.Name, uploaded.ID)
			return nil
		},
	}
}

func downloadCommand() *cli.Command {
	conn := &cli.Connection{}
	var output string
	return &cli.Command{
		Name:    "download",
		Summary: "download a shared file",
		Description: `Download a shared file from a room.

The file ID comes from the room's file list in the interactive UI, or
from the upload command's output. Without --output the file is saved
under its ID in the current directory.`,
		Usage: "parlor download <code> <file-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("download", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "destination path")
			conn.AddFlags(flagSet)
			return flagSet
		},
		Run: func(_ *pflag.FlagSet, args []string) error {
			if len(args) != 2 {
				return cli.Validation("usage: parlor download <code> <file-id>")
			}
			code, err := ref.ParseRoomCode(args[0])
			if err != nil {
				return cli.Validation("%v", err)
			}
			fileID, err := ref.ParseFileID(args[1])
			if err != nil {
				return cli.Validation("%v", err)
			}
			if output == "" {
				output = fileID.String()
			}

			session, store, err := conn.Session(conn.Logger())
			if err != nil {
				return err
			}

			// O_EXCL so an existing file is never clobbered by a typo'd
			// destination.
			sink, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			written, err := session.DownloadFile(context.Background(), code, fileID, sink)
			if closeErr := sink.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(output)
				return clearOnRejection(store, err)
			}
			fmt.Printf("saved %s (%d bytes)\n", output, written)
			return nil
		},
	}
}
