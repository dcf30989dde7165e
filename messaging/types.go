// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/parlor/lib/ref"
)

// BitBool is a boolean the service encodes as the JSON numbers 0 and 1.
// It also tolerates true/false for forward compatibility.
type BitBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *BitBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "false":
		*b = false
	case "1", "true":
		*b = true
	default:
		return fmt.Errorf("messaging: invalid boolean value %q", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler, producing 0 or 1 to match the
// service's own encoding.
func (b BitBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// envelope is the outer shape of every service response. Status false
// means the operation was rejected and ErrMsg says why.
type envelope struct {
	Status bool   `json:"status"`
	ErrMsg string `json:"err_msg"`
}

// auth is the credential pair the service expects in the body of every
// authenticated request.
type auth struct {
	DBKey     string `json:"db_key"`
	SessionID string `json:"session_id"`
}

// AccountSummary is the dashboard bootstrap snapshot returned by
// [Session.UserData]: the account profile plus the membership list the
// notification channel updates incrementally.
type AccountSummary struct {
	// Username is the account's display name.
	Username string `json:"username"`

	// JoinedAt is the account creation date as the service formats it.
	JoinedAt string `json:"joined_at"`

	// Rooms maps room code to membership info for every room the
	// account belongs to.
	Rooms map[ref.RoomCode]RoomMembership `json:"rooms"`

	// Notifications lists codes of rooms with activity since the
	// account's last visit.
	Notifications []ref.RoomCode `json:"notifications"`
}

// RoomMembership is one entry in the dashboard room list.
type RoomMembership struct {
	// Name is the room's display name.
	Name string `json:"name"`

	// IsAdmin reports whether this account created the room.
	IsAdmin bool `json:"is_admin"`
}

// RoomConnection is the result of [Session.Connect]: the per-visit
// room key plus the caller's role in the room. The key addresses both
// the room data endpoint and the room WebSocket channel, and is only
// valid while the visit lasts.
type RoomConnection struct {
	RoomKey string `json:"room_key"`
	IsAdmin bool   `json:"is_admin"`
}

// RoomState is the room bootstrap snapshot returned by
// [Session.RoomData]. The room WebSocket channel updates every mutable
// field incrementally; the client never re-fetches.
type RoomState struct {
	// Name is the room's display name.
	Name string `json:"name"`

	// Creator is the username of the room's creator and sole admin.
	Creator string `json:"creator"`

	// DateCreated is the creation date as the service formats it.
	DateCreated string `json:"date_created"`

	// MaxUsers is the room's member capacity, between 2 and 5.
	MaxUsers int `json:"max_users"`

	// IsPassword reports whether joining requires a password.
	IsPassword BitBool `json:"is_password"`

	// IsLocked reports whether the room currently rejects new joins.
	IsLocked BitBool `json:"is_locked"`

	// Members lists the usernames currently present in the room,
	// excluding the admin, who arrives in AdminUsername instead.
	Members []string `json:"members"`

	// AdminUsername is the room admin. The admin counts against
	// capacity but is never listed in Members.
	AdminUsername string `json:"admin_username"`

	// Messages is the room's message history, oldest first.
	Messages []Message `json:"messages"`

	// Files maps file ID to metadata for every shared file.
	Files map[ref.FileID]FileInfo `json:"files"`
}

// Message is a single chat message.
type Message struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// FileInfo is the metadata of a shared file.
type FileInfo struct {
	// Name is the original filename as uploaded.
	Name string `json:"name"`

	// Author is the uploader's username, or "?" when the service could
	// not resolve the uploader.
	Author string `json:"author"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// UploadedFile is the result of [Session.UploadFile].
type UploadedFile struct {
	ID   ref.FileID `json:"id"`
	Name string     `json:"name"`
}

// Request payloads. The service reads credentials from the body, so
// authenticated requests embed auth.

type createAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	auth
	Current string `json:"current"`
	New     string `json:"new"`
}

type deleteAccountRequest struct {
	auth
	Password string `json:"password"`
}

type createRoomRequest struct {
	auth
	Name     string `json:"name"`
	MaxUsers int    `json:"max_users"`
	Password string `json:"password,omitempty"`
}

type joinRoomRequest struct {
	auth
	RoomCode ref.RoomCode `json:"room_code"`
	Password string       `json:"password,omitempty"`
}

type roomRequest struct {
	auth
	RoomCode ref.RoomCode `json:"room_code"`
}

type addMessageRequest struct {
	auth
	RoomCode ref.RoomCode `json:"room_code"`
	Content  string       `json:"content"`
}

type downloadFileRequest struct {
	auth
	RoomCode ref.RoomCode `json:"room_code"`
	FileID   ref.FileID   `json:"fileid"`
}

type setLockStateRequest struct {
	auth
	RoomCode ref.RoomCode `json:"room_code"`
	State    BitBool      `json:"state"`
}

type kickMemberRequest struct {
	auth
	RoomCode   ref.RoomCode `json:"room_code"`
	MemberName string       `json:"member_name"`
}

type removeFileRequest struct {
	auth
	RoomCode ref.RoomCode `json:"room_code"`
	FileID   ref.FileID   `json:"fileid"`
}

// Response payloads beyond the bare envelope.

type createAccountResponse struct {
	envelope
	DBKey string `json:"db_key"`
}

type loginResponse struct {
	envelope
	DBKey     string `json:"db_key"`
	SessionID string `json:"session_id"`
}

type userDataResponse struct {
	envelope
	Data AccountSummary `json:"data"`
}

type createRoomResponse struct {
	envelope
	Code ref.RoomCode `json:"code"`
}

type joinRoomResponse struct {
	envelope
	Name string `json:"name"`
}

type connectResponse struct {
	envelope
	RoomConnection
}

type roomDataResponse struct {
	envelope
	Data RoomState `json:"data"`
}

type uploadFileResponse struct {
	envelope
	UploadedFile
}

func marshalJSON(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("messaging: encoding request: %w", err)
	}
	return data, nil
}

func unmarshalBody[T any](data []byte) (*T, error) {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("messaging: decoding response: %w", err)
	}
	return &value, nil
}
