// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the parlor command tree: account management,
// room lifecycle, messaging and file transfer subcommands, and the
// interactive terminal UI.
package commands
