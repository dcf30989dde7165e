// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
)

// NotificationTag identifies a notification channel event.
type NotificationTag string

// Notification channel tags as the service sends them.
const (
	// NotifyRoomActivity signals new activity (a message or file) in a
	// room the user belongs to but is not currently visiting.
	NotifyRoomActivity NotificationTag = "ROOM_NOTIFICATION"

	// NotifyRoomRemoved signals that a room the user belongs to was
	// deleted. Carries the room name for display.
	NotifyRoomRemoved NotificationTag = "RM_ROOM"

	// NotifyKicked signals that the user was kicked from a room.
	// Carries the room name for display.
	NotifyKicked NotificationTag = "ROOM_KICK"
)

// Notification is a dashboard-level event from the notification
// channel.
type Notification struct {
	Tag      NotificationTag `json:"status"`
	RoomCode ref.RoomCode    `json:"room_code"`

	// RoomName is set on NotifyRoomRemoved and NotifyKicked, where the
	// room may already be gone from the local room list by the time
	// the event is rendered.
	RoomName string `json:"room_name,omitempty"`
}

// DecodeNotification parses a notification channel payload. Unknown
// tags are an error: the caller logs and drops the event rather than
// guessing at its meaning.
func DecodeNotification(payload []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Notification{}, fmt.Errorf("realtime: decoding notification: %w", err)
	}
	switch n.Tag {
	case NotifyRoomActivity, NotifyRoomRemoved, NotifyKicked:
	default:
		return Notification{}, fmt.Errorf("realtime: unknown notification tag %q", n.Tag)
	}
	if n.RoomCode.IsZero() {
		return Notification{}, fmt.Errorf("realtime: notification %s has no room code", n.Tag)
	}
	return n, nil
}

// RoomEvent is an in-room event from the room channel. The concrete
// types are [MessageAdded], [MemberJoined], [MemberLeft],
// [MemberKicked], [FileAdded], [FileRemoved], [LockStateChanged], and
// [RoomRemoved].
type RoomEvent interface {
	roomEvent()
}

// MessageAdded is a new chat message.
type MessageAdded struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// MemberJoined reports a user entering the room's member list.
type MemberJoined struct {
	Username string `json:"username"`
}

// MemberLeft reports a user leaving the room voluntarily.
type MemberLeft struct {
	Username string `json:"username"`
}

// MemberKicked reports the admin removing a member. When the named
// member is the local user, the room visit is over.
type MemberKicked struct {
	Username string `json:"username"`
}

// FileAdded reports a new entry in the room's file register.
type FileAdded struct {
	ID     ref.FileID `json:"fileid"`
	Name   string     `json:"name"`
	Author string     `json:"author"`
	Size   int64      `json:"size"`
}

// FileRemoved reports a file leaving the room's file register.
type FileRemoved struct {
	ID ref.FileID `json:"fileid"`
}

// LockStateChanged reports the admin toggling whether the room accepts
// new joins.
type LockStateChanged struct {
	Locked messaging.BitBool `json:"state"`
}

// RoomRemoved reports the room being deleted. The visit is over for
// every member.
type RoomRemoved struct{}

func (MessageAdded) roomEvent()     {}
func (MemberJoined) roomEvent()     {}
func (MemberLeft) roomEvent()       {}
func (MemberKicked) roomEvent()     {}
func (FileAdded) roomEvent()        {}
func (FileRemoved) roomEvent()      {}
func (LockStateChanged) roomEvent() {}
func (RoomRemoved) roomEvent()      {}

// Room channel tags as the service sends them.
const (
	tagAddMessage      = "ADD_MSG"
	tagUserJoin        = "USER_JOIN"
	tagUserLeft        = "USER_LEFT"
	tagKickMember      = "KICK_MEMBER"
	tagAddFile         = "ADD_FILE"
	tagRemoveFile      = "RM_FILE"
	tagUpdateLockState = "UPDATE_LOCK_STATE"
	tagRemoveRoom      = "RM_ROOM"
)

// DecodeRoomEvent parses a room channel payload into its typed event.
// Unknown tags are an error so newer service versions degrade to a
// logged drop instead of silent misinterpretation.
func DecodeRoomEvent(payload []byte) (RoomEvent, error) {
	var env struct {
		Tag  string          `json:"status"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("realtime: decoding room event: %w", err)
	}

	switch env.Tag {
	case tagAddMessage:
		return decodeEventData[MessageAdded](env.Tag, env.Data)
	case tagUserJoin:
		return decodeEventData[MemberJoined](env.Tag, env.Data)
	case tagUserLeft:
		return decodeEventData[MemberLeft](env.Tag, env.Data)
	case tagKickMember:
		return decodeEventData[MemberKicked](env.Tag, env.Data)
	case tagAddFile:
		return decodeEventData[FileAdded](env.Tag, env.Data)
	case tagRemoveFile:
		return decodeEventData[FileRemoved](env.Tag, env.Data)
	case tagUpdateLockState:
		return decodeEventData[LockStateChanged](env.Tag, env.Data)
	case tagRemoveRoom:
		return RoomRemoved{}, nil
	default:
		return nil, fmt.Errorf("realtime: unknown room event tag %q", env.Tag)
	}
}

func decodeEventData[T RoomEvent](tag string, data json.RawMessage) (RoomEvent, error) {
	var event T
	if len(data) == 0 {
		return nil, fmt.Errorf("realtime: room event %s has no data", tag)
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("realtime: decoding %s data: %w", tag, err)
	}
	return event, nil
}
