// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
)

// Phase is the lifecycle state of a room visit.
type Phase int

const (
	// PhaseConnecting means the channel is open but the bootstrap
	// snapshot has not been applied. Events are buffered.
	PhaseConnecting Phase = iota

	// PhaseLive means the view reflects the snapshot plus every event
	// applied since.
	PhaseLive

	// PhaseTerminated means the visit ended. Terminal: no event or
	// bootstrap moves the room out of this phase.
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseLive:
		return "live"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// CloseReason says why a room visit terminated.
type CloseReason int

const (
	// CloseNone: the visit has not terminated.
	CloseNone CloseReason = iota

	// CloseRoomRemoved: the room was deleted.
	CloseRoomRemoved

	// CloseKicked: the admin kicked the local user.
	CloseKicked

	// CloseConnectionLost: the channel dropped without a terminal
	// event.
	CloseConnectionLost
)

func (r CloseReason) String() string {
	switch r {
	case CloseNone:
		return "none"
	case CloseRoomRemoved:
		return "room removed"
	case CloseKicked:
		return "kicked"
	case CloseConnectionLost:
		return "connection lost"
	default:
		return "unknown"
	}
}

// FileEntry is one row in the room's file register, for display.
type FileEntry struct {
	ID     ref.FileID
	Name   string
	Author string
	Size   int64
}

// RoomSnapshot is an immutable copy of the room view for rendering.
type RoomSnapshot struct {
	Phase       Phase
	CloseReason CloseReason

	Name        string
	Creator     string
	DateCreated string
	Locked      bool
	MaxUsers    int

	// Members is in arrival order: bootstrap order first, then joins.
	Members []string

	// Messages is oldest first.
	Messages []messaging.Message

	// Files is sorted by name, ties broken by ID.
	Files []FileEntry
}

// Room is the reducer behind the in-room view. It folds the bootstrap
// snapshot and room channel events into a single consistent state.
//
// The channel opens before the snapshot is fetched, so an event can
// both precede the bootstrap (buffered, replayed once) and duplicate
// what the snapshot already holds (absorbed: membership and file
// mutations are idempotent by key). All methods are safe for
// concurrent use.
type Room struct {
	mu sync.Mutex

	// self is the local username, for deciding whether a kick ends
	// this visit or just removes another member.
	self string

	phase       Phase
	closeReason CloseReason
	pending     []RoomEvent

	name        string
	creator     string
	dateCreated string
	locked      bool
	maxUsers    int

	members   []string
	memberSet map[string]struct{}
	messages  []messaging.Message
	files     map[ref.FileID]FileEntry

	logger *slog.Logger
}

// NewRoom returns a Room in PhaseConnecting for the given local
// username. A nil logger defaults to slog.Default().
func NewRoom(selfUsername string, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.Default()
	}
	return &Room{
		self:      selfUsername,
		memberSet: make(map[string]struct{}),
		files:     make(map[ref.FileID]FileEntry),
		logger:    logger,
	}
}

// Bootstrap seeds the view from the room data snapshot, moves the
// visit to PhaseLive, and replays events buffered while the snapshot
// was in flight. A replayed terminal event terminates the visit here.
// Bootstrap on a terminated room is a no-op.
func (r *Room) Bootstrap(state *messaging.RoomState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseTerminated {
		return
	}

	r.name = state.Name
	r.creator = state.Creator
	r.dateCreated = state.DateCreated
	r.locked = bool(state.IsLocked)
	r.maxUsers = state.MaxUsers

	// The snapshot's member list excludes the admin, who is tracked in
	// a separate field, and the service never emits a join event for
	// them. Seed the admin first so they head the arrival order.
	admin := state.AdminUsername
	if admin == "" {
		admin = state.Creator
	}
	r.members = r.members[:0]
	r.memberSet = make(map[string]struct{}, len(state.Members)+1)
	if admin != "" {
		r.insertMember(admin)
	}
	for _, member := range state.Members {
		r.insertMember(member)
	}

	r.messages = append([]messaging.Message(nil), state.Messages...)

	r.files = make(map[ref.FileID]FileEntry, len(state.Files))
	for id, info := range state.Files {
		r.files[id] = FileEntry{ID: id, Name: info.Name, Author: info.Author, Size: info.Size}
	}

	r.phase = PhaseLive

	replay := r.pending
	r.pending = nil
	for _, event := range replay {
		if r.phase == PhaseTerminated {
			break
		}
		r.apply(event)
	}
	if len(replay) > 0 {
		r.logger.Debug("replayed buffered room events", "count", len(replay))
	}
}

// Apply folds one room channel event into the view. During
// PhaseConnecting it buffers; after termination it ignores. Returns
// true when the visible state changed.
func (r *Room) Apply(event RoomEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.phase {
	case PhaseConnecting:
		r.pending = append(r.pending, event)
		return false
	case PhaseTerminated:
		return false
	}
	return r.apply(event)
}

func (r *Room) apply(event RoomEvent) bool {
	switch e := event.(type) {
	case MessageAdded:
		// The service should never emit blank messages; drop them
		// rather than rendering empty rows if one slips through.
		if strings.TrimSpace(e.Content) == "" {
			r.logger.Warn("dropping blank message", "author", e.Author)
			return false
		}
		r.messages = append(r.messages, messaging.Message{Author: e.Author, Content: e.Content})
		return true

	case MemberJoined:
		return r.insertMember(e.Username)

	case MemberLeft:
		return r.removeMember(e.Username)

	case MemberKicked:
		if e.Username == r.self {
			r.terminate(CloseKicked)
			return true
		}
		return r.removeMember(e.Username)

	case FileAdded:
		if _, exists := r.files[e.ID]; exists {
			return false
		}
		r.files[e.ID] = FileEntry{ID: e.ID, Name: e.Name, Author: e.Author, Size: e.Size}
		return true

	case FileRemoved:
		if _, exists := r.files[e.ID]; !exists {
			return false
		}
		delete(r.files, e.ID)
		return true

	case LockStateChanged:
		if r.locked == bool(e.Locked) {
			return false
		}
		r.locked = bool(e.Locked)
		return true

	case RoomRemoved:
		r.terminate(CloseRoomRemoved)
		return true

	default:
		r.logger.Warn("dropping unhandled room event", "type", event)
		return false
	}
}

func (r *Room) insertMember(username string) bool {
	if _, exists := r.memberSet[username]; exists {
		return false
	}
	r.memberSet[username] = struct{}{}
	r.members = append(r.members, username)
	return true
}

func (r *Room) removeMember(username string) bool {
	if _, exists := r.memberSet[username]; !exists {
		return false
	}
	delete(r.memberSet, username)
	for i, member := range r.members {
		if member == username {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	return true
}

func (r *Room) terminate(reason CloseReason) {
	r.phase = PhaseTerminated
	r.closeReason = reason
	r.pending = nil
	r.logger.Info("room visit terminated", "room", r.name, "reason", reason)
}

// ConnectionLost terminates the visit when the channel drops without a
// terminal event. A visit already terminated keeps its original
// reason.
func (r *Room) ConnectionLost() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseTerminated {
		return
	}
	r.terminate(CloseConnectionLost)
}

// Snapshot returns an immutable copy of the view for rendering.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]FileEntry, 0, len(r.files))
	for _, entry := range r.files {
		files = append(files, entry)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].ID.String() < files[j].ID.String()
	})

	return RoomSnapshot{
		Phase:       r.phase,
		CloseReason: r.closeReason,
		Name:        r.name,
		Creator:     r.creator,
		DateCreated: r.dateCreated,
		Locked:      r.locked,
		MaxUsers:    r.maxUsers,
		Members:     append([]string(nil), r.members...),
		Messages:    append([]messaging.Message(nil), r.messages...),
		Files:       files,
	}
}

// MemberCount returns the current member count and the room capacity.
func (r *Room) MemberCount() (current, max int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members), r.maxUsers
}

// Phase returns the visit's lifecycle state.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// CloseReason returns why the visit terminated, or CloseNone.
func (r *Room) CloseReason() CloseReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeReason
}
