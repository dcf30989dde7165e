// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui implements Parlor's interactive terminal UI: the
// dashboard (room list with unread markers) and the in-room view
// (messages, members, shared files).
//
// The UI is a bubbletea program. [Model] is the root: it owns the
// authenticated session, the dashboard reducer, and the notification
// stream, and swaps between the dashboard view and a room view. Each
// view folds realtime events into its reducer and re-renders from the
// reducer's snapshot; no view keeps display state the reducer does not
// hold.
//
// WebSocket events reach the model through the bubbletea message loop:
// a pending tea.Cmd blocks on the stream's event channel and resolves
// to a message, and the Update handler immediately re-arms the next
// receive. Background log records take the same route via
// [LogHandler], so nothing writes to the terminal behind the
// renderer's back.
package tui
