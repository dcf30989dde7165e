// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
)

// RoomEntry is one row in the dashboard's room list.
type RoomEntry struct {
	Code    ref.RoomCode
	Name    string
	IsAdmin bool

	// Unread reports activity in the room since the user's last visit.
	Unread bool
}

// Dashboard is the reducer behind the dashboard view: the room list
// with unread markers, fed by a bootstrap snapshot and updated by
// notification channel events.
//
// The notification channel is opened before the bootstrap snapshot is
// fetched, so events can arrive against a room list that does not
// exist yet. Those events are buffered and replayed exactly once when
// the bootstrap lands. All methods are safe for concurrent use.
type Dashboard struct {
	mu           sync.Mutex
	bootstrapped bool
	rooms        map[ref.RoomCode]*RoomEntry
	pending      []Notification
	logger       *slog.Logger
}

// NewDashboard returns an empty Dashboard awaiting its bootstrap.
// A nil logger defaults to slog.Default().
func NewDashboard(logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		rooms:  make(map[ref.RoomCode]*RoomEntry),
		logger: logger,
	}
}

// Bootstrap seeds the room list from the user data snapshot and
// replays any notifications that arrived while the snapshot was in
// flight. The buffer is discarded afterwards; a second Bootstrap
// starts from the new snapshot alone.
func (d *Dashboard) Bootstrap(summary *messaging.AccountSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rooms = make(map[ref.RoomCode]*RoomEntry, len(summary.Rooms))
	for code, membership := range summary.Rooms {
		d.rooms[code] = &RoomEntry{
			Code:    code,
			Name:    membership.Name,
			IsAdmin: membership.IsAdmin,
		}
	}
	for _, code := range summary.Notifications {
		if entry, ok := d.rooms[code]; ok {
			entry.Unread = true
		}
	}
	d.bootstrapped = true

	replay := d.pending
	d.pending = nil
	for _, n := range replay {
		d.apply(n)
	}
	if len(replay) > 0 {
		d.logger.Debug("replayed buffered notifications", "count", len(replay))
	}
}

// Apply folds one notification into the room list. Before the
// bootstrap it only buffers. Returns true when the visible state
// changed.
func (d *Dashboard) Apply(n Notification) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.bootstrapped {
		d.pending = append(d.pending, n)
		return false
	}
	return d.apply(n)
}

func (d *Dashboard) apply(n Notification) bool {
	entry, known := d.rooms[n.RoomCode]
	switch n.Tag {
	case NotifyRoomActivity:
		if !known {
			// A notification can outlive its room: buffered activity
			// for a room removed before the bootstrap landed.
			d.logger.Debug("activity for unknown room", "room", n.RoomCode)
			return false
		}
		if entry.Unread {
			return false
		}
		entry.Unread = true
		return true
	case NotifyRoomRemoved, NotifyKicked:
		if !known {
			return false
		}
		delete(d.rooms, n.RoomCode)
		return true
	default:
		d.logger.Warn("dropping unhandled notification", "tag", n.Tag)
		return false
	}
}

// MarkRead clears a room's unread marker, typically on entering the
// room.
func (d *Dashboard) MarkRead(code ref.RoomCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if entry, ok := d.rooms[code]; ok {
		entry.Unread = false
	}
}

// Remove drops a room from the list, for local actions (leaving a
// room) that the notification channel does not echo back to the actor.
func (d *Dashboard) Remove(code ref.RoomCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.rooms, code)
}

// Add inserts a room after a local create or join. Inserting an
// already-listed room updates its entry in place.
func (d *Dashboard) Add(code ref.RoomCode, name string, isAdmin bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms[code] = &RoomEntry{Code: code, Name: name, IsAdmin: isAdmin}
}

// Rooms returns the room list sorted by name, ties broken by code.
func (d *Dashboard) Rooms() []RoomEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := make([]RoomEntry, 0, len(d.rooms))
	for _, entry := range d.rooms {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Code.String() < entries[j].Code.String()
	})
	return entries
}

// Bootstrapped reports whether the bootstrap snapshot has been
// applied.
func (d *Dashboard) Bootstrapped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bootstrapped
}
