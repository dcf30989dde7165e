// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/bureau-foundation/parlor/lib/ref"
)

func mustRoomCode(t *testing.T, code string) ref.RoomCode {
	t.Helper()
	parsed, err := ref.ParseRoomCode(code)
	if err != nil {
		t.Fatalf("parsing room code %q: %v", code, err)
	}
	return parsed
}

func mustFileID(t *testing.T, id string) ref.FileID {
	t.Helper()
	parsed, err := ref.ParseFileID(id)
	if err != nil {
		t.Fatalf("parsing file ID %q: %v", id, err)
	}
	return parsed
}

// newTestSession wires a Session with fixed credentials to a test
// server.
func newTestSession(t *testing.T, handlers map[string]http.HandlerFunc) *Session {
	t.Helper()
	client := newTestClient(t, handlers)
	return client.Session("test-db-key", "test-session-id", "alice42")
}

func TestUserData(t *testing.T) {
	session := newTestSession(t, map[string]http.HandlerFunc{
		"/accounts/userData": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				DBKey     string `json:"db_key"`
				SessionID string `json:"session_id"`
			}
			decodeRequest(t, r, &req)
			if req.DBKey != "test-db-key" || req.SessionID != "test-session-id" {
				t.Errorf("credentials not in request body: %+v", req)
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": true,
				"data": map[string]any{
					"username":  "alice42",
					"joined_at": "2026-08-01",
					"rooms": map[string]any{
						"a1b2c3": map[string]any{"name": "book club", "is_admin": true},
						"d4e5f6": map[string]any{"name": "study hall", "is_admin": false},
					},
					"notifications": []string{"d4e5f6"},
				},
			})
		},
	})

	summary, err := session.UserData(context.Background())
	if err != nil {
		t.Fatalf("UserData failed: %v", err)
	}
	if summary.Username != "alice42" {
		t.Errorf("unexpected username: %s", summary.Username)
	}
	if len(summary.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(summary.Rooms))
	}
	bookClub := summary.Rooms[mustRoomCode(t, "a1b2c3")]
	if bookClub.Name != "book club" || !bookClub.IsAdmin {
		t.Errorf("unexpected membership: %+v", bookClub)
	}
	if len(summary.Notifications) != 1 || summary.Notifications[0] != mustRoomCode(t, "d4e5f6") {
		t.Errorf("unexpected notifications: %v", summary.Notifications)
	}
}

func TestCreateRoom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		session := newTestSession(t, map[string]http.HandlerFunc{
			"/rooms/create": func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					Name     string `json:"name"`
					MaxUsers int    `json:"max_users"`
					Password string `json:"password"`
				}
				decodeRequest(t, r, &req)
				if req.Name != "book club" || req.MaxUsers != 4 {
					t.Errorf("unexpected request: %+v", req)
				}
				writeJSON(t, w, http.StatusOK, map[string]any{
					"status": true,
					"code":   "a1b2c3",
				})
			},
		})
		code, err := session.CreateRoom(context.Background(), "book club", 4, "")
		if err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		if code != mustRoomCode(t, "a1b2c3") {
			t.Errorf("unexpected code: %s", code)
		}
	})

	t.Run("capacity clamped", func(t *testing.T) {
		session := newTestSession(t, map[string]http.HandlerFunc{
			"/rooms/create": func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					MaxUsers int `json:"max_users"`
				}
				decodeRequest(t, r, &req)
				if req.MaxUsers != MaxRoomUsers {
					t.Errorf("max_users = %d, want clamped to %d", req.MaxUsers, MaxRoomUsers)
				}
				writeJSON(t, w, http.StatusOK, map[string]any{
					"status": true,
					"code":   "a1b2c3",
				})
			},
		})
		if _, err := session.CreateRoom(context.Background(), "book club", 99, ""); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		session := newTestSession(t, nil)
		if _, err := session.CreateRoom(context.Background(), "ab", 4, ""); err == nil {
			t.Error("expected error for short room name")
		}
	})
}

func TestRoomData(t *testing.T) {
	session := newTestSession(t, map[string]http.HandlerFunc{
		"/rooms/roomData/visit-key-7": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("room data must be a GET, got %s", r.Method)
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": true,
				"data": map[string]any{
					"name":           "book club",
					"creator":        "alice42",
					"date_created":   "2026-08-01",
					"max_users":      4,
					"is_password":    1,
					"is_locked":      0,
					"members":        []string{"alice42", "bob_the_1st"},
					"admin_username": "alice42",
					"messages": []map[string]string{
						{"author": "alice42", "content": "welcome"},
					},
					"files": map[string]any{
						strings.Repeat("ab", 20): map[string]any{
							"name": "notes.pdf", "author": "alice42", "size": 1256341,
						},
					},
				},
			})
		},
	})

	state, err := session.RoomData(context.Background(), "visit-key-7")
	if err != nil {
		t.Fatalf("RoomData failed: %v", err)
	}
	if !state.IsPassword || state.IsLocked {
		t.Errorf("0/1 booleans decoded wrong: is_password=%v is_locked=%v",
			state.IsPassword, state.IsLocked)
	}
	if len(state.Members) != 2 || len(state.Messages) != 1 {
		t.Errorf("unexpected snapshot: %+v", state)
	}
	info, ok := state.Files[mustFileID(t, strings.Repeat("ab", 20))]
	if !ok || info.Name != "notes.pdf" {
		t.Errorf("file map not keyed by file ID: %+v", state.Files)
	}
}

func TestAddMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		session := newTestSession(t, map[string]http.HandlerFunc{
			"/rooms/addMessage": func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					RoomCode string `json:"room_code"`
					Content  string `json:"content"`
				}
				decodeRequest(t, r, &req)
				if req.RoomCode != "a1b2c3" || req.Content != "hello" {
					t.Errorf("unexpected request: %+v", req)
				}
				writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
			},
		})
		if err := session.AddMessage(context.Background(), mustRoomCode(t, "a1b2c3"), "hello"); err != nil {
			t.Fatalf("AddMessage failed: %v", err)
		}
	})

	t.Run("blank rejected locally", func(t *testing.T) {
		session := newTestSession(t, nil)
		if err := session.AddMessage(context.Background(), mustRoomCode(t, "a1b2c3"), "   \t"); err == nil {
			t.Error("expected error for whitespace-only message")
		}
	})

	t.Run("oversized rejected locally", func(t *testing.T) {
		session := newTestSession(t, nil)
		long := strings.Repeat("x", MaxMessageLength+1)
		if err := session.AddMessage(context.Background(), mustRoomCode(t, "a1b2c3"), long); err == nil {
			t.Error("expected error for oversized message")
		}
	})
}

func TestUploadFile(t *testing.T) {
	session := newTestSession(t, map[string]http.HandlerFunc{
		"/rooms/uploadFile": func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parsing multipart form: %v", err)
			}
			if got := r.FormValue("db_key"); got != "test-db-key" {
				t.Errorf("db_key form field = %q", got)
			}
			if got := r.FormValue("room_code"); got != "a1b2c3" {
				t.Errorf("room_code form field = %q", got)
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("reading file part: %v", err)
			}
			defer file.Close()
			if header.Filename != "notes.txt" {
				t.Errorf("unexpected filename: %s", header.Filename)
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": true,
				"id":     strings.Repeat("cd", 20),
				"name":   "notes.txt",
			})
		},
	})

	uploaded, err := session.UploadFile(context.Background(),
		mustRoomCode(t, "a1b2c3"), "notes.txt", strings.NewReader("file body"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if uploaded.ID != mustFileID(t, strings.Repeat("cd", 20)) {
		t.Errorf("unexpected file ID: %s", uploaded.ID)
	}
}

func TestDownloadFile(t *testing.T) {
	fileID := strings.Repeat("cd", 20)

	t.Run("binary body streamed", func(t *testing.T) {
		content := []byte("binary file content")
		session := newTestSession(t, map[string]http.HandlerFunc{
			"/rooms/downloadFile": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/octet-stream")
				w.Write(content)
			},
		})
		var buf bytes.Buffer
		n, err := session.DownloadFile(context.Background(),
			mustRoomCode(t, "a1b2c3"), mustFileID(t, fileID), &buf)
		if err != nil {
			t.Fatalf("DownloadFile failed: %v", err)
		}
		if n != int64(len(content)) || !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("streamed %d bytes: %q", n, buf.Bytes())
		}
	})

	t.Run("json rejection surfaced", func(t *testing.T) {
		session := newTestSession(t, map[string]http.HandlerFunc{
			"/rooms/downloadFile": func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{
					"status":  false,
					"err_msg": ErrMsgRoomValidationFail,
				})
			},
		})
		var buf bytes.Buffer
		_, err := session.DownloadFile(context.Background(),
			mustRoomCode(t, "a1b2c3"), mustFileID(t, fileID), &buf)
		if !IsRoomValidationFail(err) {
			t.Fatalf("expected room validation failure, got: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("rejection body must not be written to the sink: %q", buf.Bytes())
		}
	})
}

func TestAdminOperations(t *testing.T) {
	code := "a1b2c3"
	fileID := strings.Repeat("ef", 20)

	var gotLockState, gotKick, gotRemove bool
	session := newTestSession(t, map[string]http.HandlerFunc{
		"/rooms/admin/setRoomLockState": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				State int `json:"state"`
			}
			decodeRequest(t, r, &req)
			if req.State != 1 {
				t.Errorf("state = %d, want 1", req.State)
			}
			gotLockState = true
			writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
		},
		"/rooms/admin/kickMember": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				MemberName string `json:"member_name"`
			}
			decodeRequest(t, r, &req)
			if req.MemberName != "bob_the_1st" {
				t.Errorf("member_name = %q", req.MemberName)
			}
			gotKick = true
			writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
		},
		"/rooms/admin/removeFile": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				FileID string `json:"fileid"`
			}
			decodeRequest(t, r, &req)
			if req.FileID != fileID {
				t.Errorf("fileid = %q", req.FileID)
			}
			gotRemove = true
			writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
		},
	})

	ctx := context.Background()
	roomCode := mustRoomCode(t, code)
	if err := session.SetRoomLockState(ctx, roomCode, true); err != nil {
		t.Fatalf("SetRoomLockState failed: %v", err)
	}
	if err := session.KickMember(ctx, roomCode, "bob_the_1st"); err != nil {
		t.Fatalf("KickMember failed: %v", err)
	}
	if err := session.RemoveFile(ctx, roomCode, mustFileID(t, fileID)); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	if !gotLockState || !gotKick || !gotRemove {
		t.Error("not every admin endpoint was hit")
	}
}

func TestLeaveRoomAndLogout(t *testing.T) {
	var gotLeave, gotLogout bool
	session := newTestSession(t, map[string]http.HandlerFunc{
		"/rooms/leaveRoom": func(w http.ResponseWriter, r *http.Request) {
			gotLeave = true
			writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
		},
		"/accounts/logout": func(w http.ResponseWriter, r *http.Request) {
			gotLogout = true
			writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
		},
	})

	ctx := context.Background()
	if err := session.LeaveRoom(ctx, mustRoomCode(t, "a1b2c3")); err != nil {
		t.Fatalf("LeaveRoom failed: %v", err)
	}
	if err := session.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !gotLeave || !gotLogout {
		t.Error("endpoints not hit")
	}
}
