// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a CLI command or subcommand.
type Command struct {
	// Name is the command name as typed by the user.
	Name string

	// Summary is the one-line description in the parent's help listing.
	Summary string

	// Description is the multi-line description in the command's own
	// help output.
	Description string

	// Usage is the usage line. Synthesized from the command path when
	// empty.
	Usage string

	// Flags returns a configured flag set, called lazily on first use.
	// Nil means the command takes no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are dispatched by the first positional argument.
	Subcommands []*Command

	// Run executes the command with the positional arguments remaining
	// after flag parsing. A command with subcommands and no Run shows
	// help when invoked bare.
	Run func(flagSet *pflag.FlagSet, args []string) error

	parent *Command
}

// Execute parses args and dispatches to a subcommand or this command's
// Run function.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name := args[0]
		for _, sub := range c.Subcommands {
			if sub.Name == name {
				sub.parent = c
				return sub.Execute(args[1:])
			}
		}
		return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage", name, c.fullName())
	}

	if c.Run == nil {
		c.PrintHelp(os.Stderr)
		if len(args) == 0 {
			return fmt.Errorf("subcommand required")
		}
		return fmt.Errorf("subcommand required (got %q)", args[0])
	}

	var flagSet *pflag.FlagSet
	if c.Flags != nil {
		flagSet = c.Flags()
	} else {
		flagSet = pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	}
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			c.PrintHelp(os.Stderr)
			return nil
		}
		return fmt.Errorf("%w\n\nRun '%s --help' for usage", err, c.fullName())
	}
	return c.Run(flagSet, flagSet.Args())
}

// PrintHelp writes the command's help text.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Description != "" {
		fmt.Fprintln(w, strings.TrimSpace(c.Description))
	} else if c.Summary != "" {
		fmt.Fprintln(w, c.Summary)
	}

	fmt.Fprintf(w, "\nUsage:\n  %s\n", c.usageLine())

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		fmt.Fprintf(w, "\nFlags:\n")
		flagSet.SetOutput(w)
		flagSet.PrintDefaults()
	}
}

func (c *Command) usageLine() string {
	if c.Usage != "" {
		return c.Usage
	}
	line := c.fullName()
	if len(c.Subcommands) > 0 {
		line += " <command>"
	}
	if c.Flags != nil {
		line += " [flags]"
	}
	return line
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "--help" || arg == "-h" || arg == "help"
}
