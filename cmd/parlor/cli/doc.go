// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the parlor command framework: the command tree
// with dispatch and help rendering, categorized errors with hints, and
// the shared plumbing every subcommand needs (configuration loading,
// the API client, the saved session, and password prompting).
package cli
