// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated identifier types for the Parlor
// client: room codes, file IDs, and usernames.
//
// All identifiers arrive from the chat service over the wire (REST
// responses, channel events, user input) and are parsed into these
// types at the boundary. Each type is an immutable value whose zero
// value is invalid; use IsZero to check. The types implement
// encoding.TextMarshaler and TextUnmarshaler so that encoding/json
// validates them automatically, including when they appear as map keys
// (the file register and the dashboard room set are keyed maps in the
// service's JSON).
package ref
