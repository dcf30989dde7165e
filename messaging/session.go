// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/parlor/lib/ref"
)

// Session is an authenticated client for a single account. Sessions
// are created by [Client.Login] or restored from saved credentials via
// [Client.Session].
//
// The service renews the session ID server-side as it validates
// requests; the client keeps using the ID it was issued at login until
// the service rejects it (see [IsValidationFail]).
type Session struct {
	client   *Client
	username string
	auth     auth
}

// Username returns the display name this session logged in with.
func (s *Session) Username() string {
	return s.username
}

// DBKey returns the account credential key, for persisting the
// session.
func (s *Session) DBKey() string {
	return s.auth.DBKey
}

// SessionID returns the server-issued session ID, for persisting the
// session.
func (s *Session) SessionID() string {
	return s.auth.SessionID
}

// Client returns the underlying Client.
func (s *Session) Client() *Client {
	return s.client
}

// Logout invalidates the session server-side. The saved credentials
// should be cleared regardless of the outcome.
func (s *Session) Logout(ctx context.Context) error {
	if _, err := s.client.postJSON(ctx, "accounts/logout", s.auth); err != nil {
		return fmt.Errorf("messaging: logging out: %w", err)
	}
	return nil
}

// ChangePassword replaces the account password. The session stays
// valid afterwards.
func (s *Session) ChangePassword(ctx context.Context, current, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	_, err := s.client.postJSON(ctx, "accounts/changePassword", changePasswordRequest{
		auth:    s.auth,
		Current: current,
		New:     newPassword,
	})
	if err != nil {
		return fmt.Errorf("messaging: changing password: %w", err)
	}
	return nil
}

// DeleteAccount permanently removes the account and everything it
// owns, including rooms it created. Requires the current password as
// confirmation.
func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	_, err := s.client.postJSON(ctx, "accounts/delete", deleteAccountRequest{
		auth:     s.auth,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("messaging: deleting account: %w", err)
	}
	s.client.logger.Info("account deleted", "username", s.username)
	return nil
}

// UserData fetches the dashboard bootstrap snapshot: profile, room
// memberships, and pending notifications.
func (s *Session) UserData(ctx context.Context) (*AccountSummary, error) {
	body, err := s.client.postJSON(ctx, "accounts/userData", s.auth)
	if err != nil {
		return nil, fmt.Errorf("messaging: fetching user data: %w", err)
	}
	response, err := unmarshalBody[userDataResponse](body)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// CreateRoom creates a room and returns its join code. An empty
// password makes the room open. maxUsers outside the service's 2-5
// range is clamped, matching the service's own behavior.
func (s *Session) CreateRoom(ctx context.Context, name string, maxUsers int, password string) (ref.RoomCode, error) {
	if err := validateRoomName(name); err != nil {
		return ref.RoomCode{}, err
	}
	if password != "" {
		if err := validatePassword(password); err != nil {
			return ref.RoomCode{}, err
		}
	}
	if maxUsers < MinRoomUsers {
		maxUsers = MinRoomUsers
	} else if maxUsers > MaxRoomUsers {
		maxUsers = MaxRoomUsers
	}

	body, err := s.client.postJSON(ctx, "rooms/create", createRoomRequest{
		auth:     s.auth,
		Name:     name,
		MaxUsers: maxUsers,
		Password: password,
	})
	if err != nil {
		return ref.RoomCode{}, fmt.Errorf("messaging: creating room: %w", err)
	}
	response, err := unmarshalBody[createRoomResponse](body)
	if err != nil {
		return ref.RoomCode{}, err
	}
	s.client.logger.Info("room created", "name", name, "code", response.Code)
	return response.Code, nil
}

// JoinRoom adds the account to a room's member list and returns the
// room's display name. Joining a room the account already belongs to
// is rejected by the service.
func (s *Session) JoinRoom(ctx context.Context, code ref.RoomCode, password string) (string, error) {
	body, err := s.client.postJSON(ctx, "rooms/joinRoom", joinRoomRequest{
		auth:     s.auth,
		RoomCode: code,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("messaging: joining room %s: %w", code, err)
	}
	response, err := unmarshalBody[joinRoomResponse](body)
	if err != nil {
		return "", err
	}
	return response.Name, nil
}

// LeaveRoom removes the account from a room's member list. If the
// account is the room's creator, the service deletes the room for
// everyone.
func (s *Session) LeaveRoom(ctx context.Context, code ref.RoomCode) error {
	if _, err := s.client.postJSON(ctx, "rooms/leaveRoom", roomRequest{
		auth:     s.auth,
		RoomCode: code,
	}); err != nil {
		return fmt.Errorf("messaging: leaving room %s: %w", code, err)
	}
	return nil
}

// Connect starts a room visit, returning the per-visit room key used
// by RoomData and the room WebSocket channel.
func (s *Session) Connect(ctx context.Context, code ref.RoomCode) (*RoomConnection, error) {
	body, err := s.client.postJSON(ctx, "rooms/connect", roomRequest{
		auth:     s.auth,
		RoomCode: code,
	})
	if err != nil {
		return nil, fmt.Errorf("messaging: connecting to room %s: %w", code, err)
	}
	response, err := unmarshalBody[connectResponse](body)
	if err != nil {
		return nil, err
	}
	return &response.RoomConnection, nil
}

// RoomData fetches the room bootstrap snapshot for a room key obtained
// from Connect.
func (s *Session) RoomData(ctx context.Context, roomKey string) (*RoomState, error) {
	body, err := s.client.getJSON(ctx, "rooms/roomData/"+roomKey)
	if err != nil {
		return nil, fmt.Errorf("messaging: fetching room data: %w", err)
	}
	response, err := unmarshalBody[roomDataResponse](body)
	if err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// AddMessage posts a chat message to a room. Blank messages and
// messages over MaxMessageLength characters are rejected locally.
func (s *Session) AddMessage(ctx context.Context, code ref.RoomCode, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("messaging: message is empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return fmt.Errorf("messaging: message exceeds %d characters", MaxMessageLength)
	}
	if _, err := s.client.postJSON(ctx, "rooms/addMessage", addMessageRequest{
		auth:     s.auth,
		RoomCode: code,
		Content:  content,
	}); err != nil {
		return fmt.Errorf("messaging: sending message: %w", err)
	}
	return nil
}

// UploadFile shares a file with a room. The upload endpoint takes a
// multipart form rather than JSON, with the credentials as form
// fields.
func (s *Session) UploadFile(ctx context.Context, code ref.RoomCode, filename string, content io.Reader) (*UploadedFile, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("messaging: building upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("messaging: reading upload content: %w", err)
	}
	fields := map[string]string{
		"db_key":     s.auth.DBKey,
		"session_id": s.auth.SessionID,
		"room_code":  code.String(),
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("messaging: building upload form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("messaging: finalizing upload form: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.client.serverURL+"/rooms/uploadFile", &buf)
	if err != nil {
		return nil, fmt.Errorf("messaging: building upload request: %w", err)
	}
	request.Header.Set("Content-Type", form.FormDataContentType())

	body, err := s.client.doWith(s.client.transferClient, request)
	if err != nil {
		return nil, fmt.Errorf("messaging: uploading %s: %w", filename, err)
	}
	response, err := unmarshalBody[uploadFileResponse](body)
	if err != nil {
		return nil, err
	}
	s.client.logger.Info("file uploaded", "name", response.Name, "id", response.ID, "room", code)
	return &response.UploadedFile, nil
}

// DownloadFile streams a shared file's content to w and returns the
// number of bytes written.
func (s *Session) DownloadFile(ctx context.Context, code ref.RoomCode, fileID ref.FileID, w io.Writer) (int64, error) {
	encoded, err := marshalJSON(downloadFileRequest{
		auth:     s.auth,
		RoomCode: code,
		FileID:   fileID,
	})
	if err != nil {
		return 0, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.client.serverURL+"/rooms/downloadFile", bytes.NewReader(encoded))
	if err != nil {
		return 0, fmt.Errorf("messaging: building download request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	written, err := s.client.download(request, w)
	if err != nil {
		return written, fmt.Errorf("messaging: downloading file %s: %w", fileID, err)
	}
	return written, nil
}

// SetRoomLockState sets whether the room accepts new joins. Admin
// only. Setting the current state again is a no-op server-side.
func (s *Session) SetRoomLockState(ctx context.Context, code ref.RoomCode, locked bool) error {
	if _, err := s.client.postJSON(ctx, "rooms/admin/setRoomLockState", setLockStateRequest{
		auth:     s.auth,
		RoomCode: code,
		State:    BitBool(locked),
	}); err != nil {
		return fmt.Errorf("messaging: setting lock state: %w", err)
	}
	return nil
}

// KickMember removes a member from the room. Admin only.
func (s *Session) KickMember(ctx context.Context, code ref.RoomCode, memberName string) error {
	if _, err := s.client.postJSON(ctx, "rooms/admin/kickMember", kickMemberRequest{
		auth:       s.auth,
		RoomCode:   code,
		MemberName: memberName,
	}); err != nil {
		return fmt.Errorf("messaging: kicking %s: %w", memberName, err)
	}
	return nil
}

// RemoveFile deletes a shared file from the room. Admin only.
func (s *Session) RemoveFile(ctx context.Context, code ref.RoomCode, fileID ref.FileID) error {
	if _, err := s.client.postJSON(ctx, "rooms/admin/removeFile", removeFileRequest{
		auth:     s.auth,
		RoomCode: code,
		FileID:   fileID,
	}); err != nil {
		return fmt.Errorf("messaging: removing file %s: %w", fileID, err)
	}
	return nil
}
