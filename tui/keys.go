// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for both views. Room-only and
// admin-only bindings are ignored where they do not apply.
type KeyMap struct {
	// Navigation.
	Up   key.Binding
	Down key.Binding

	// Dashboard.
	Open   key.Binding // Enter the selected room.
	Create key.Binding // Open the create-room form.
	Join   key.Binding // Open the join-room form.
	Leave  key.Binding // Leave the selected room.

	// Room.
	Back     key.Binding // Return to the dashboard.
	Compose  key.Binding // Focus the message composer.
	Files    key.Binding // Toggle the file pane.
	Download key.Binding // Download the selected file.

	// Room, admin only.
	Lock   key.Binding // Toggle the room lock.
	Kick   key.Binding // Kick the selected member.
	Remove key.Binding // Remove the selected file.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open room"),
	),
	Create: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "create room"),
	),
	Join: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "join room"),
	),
	Leave: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "leave room"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "dashboard"),
	),
	Compose: key.NewBinding(
		key.WithKeys("i", "enter"),
		key.WithHelp("i", "compose"),
	),
	Files: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "files"),
	),
	Download: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "download"),
	),
	Lock: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "lock/unlock"),
	),
	Kick: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "kick member"),
	),
	Remove: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "remove file"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
