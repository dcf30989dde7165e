// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient returns a Client pointed at a test server serving the
// given handlers by path.
func newTestClient(t *testing.T, handlers map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func decodeRequest(t *testing.T, r *http.Request, into any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
}

func TestNewClient(t *testing.T) {
	cases := []struct {
		name      string
		serverURL string
		wantErr   bool
	}{
		{"https URL", "https://chat.example.net", false},
		{"http URL with port", "http://localhost:8000", false},
		{"trailing slash", "https://chat.example.net/", false},
		{"missing scheme", "chat.example.net", true},
		{"wrong scheme", "ftp://chat.example.net", true},
		{"empty", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(ClientConfig{ServerURL: tc.serverURL})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.serverURL)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient failed: %v", err)
			}
			if got := client.ServerURL(); got != "" && got[len(got)-1] == '/' {
				t.Errorf("ServerURL retains trailing slash: %q", got)
			}
		})
	}
}

func TestWebSocketURL(t *testing.T) {
	cases := []struct {
		serverURL string
		path      string
		want      string
	}{
		{"https://chat.example.net", "rooms/room_ws/abc", "wss://chat.example.net/rooms/room_ws/abc"},
		{"http://localhost:8000", "rooms/notificationServer/key", "ws://localhost:8000/rooms/notificationServer/key"},
	}
	for _, tc := range cases {
		client, err := NewClient(ClientConfig{ServerURL: tc.serverURL})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if got := client.WebSocketURL(tc.path); got != tc.want {
			t.Errorf("WebSocketURL(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"status": true})
		},
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	down, err := NewClient(ClientConfig{ServerURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := down.Ping(context.Background()); err == nil {
		t.Fatal("expected error pinging an unreachable service")
	}
}

func TestCreateAccount(t *testing.T) {
	client := newTestClient(t, map[string]http.HandlerFunc{
		"/accounts/create": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			decodeRequest(t, r, &req)
			if req.Username != "alice42" || req.Password != "hunter22" {
				t.Errorf("unexpected request: %+v", req)
			}
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status": true,
				"db_key": "0beec7b5ea3f0fdbc95d0dd47f3c5bc275da8a33",
			})
		},
	})

	dbKey, err := client.CreateAccount(context.Background(), "alice42", "hunter22")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if dbKey != "0beec7b5ea3f0fdbc95d0dd47f3c5bc275da8a33" {
		t.Errorf("unexpected db_key: %s", dbKey)
	}
}

func TestCreateAccountLocalValidation(t *testing.T) {
	// No server: validation must reject before any request is made.
	client, err := NewClient(ClientConfig{ServerURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "al", "hunter22"},
		{"username too long", "this-username-is-much-too-long", "hunter22"},
		{"username with space", "alice smith", "hunter22"},
		{"password too short", "alice42", "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := client.CreateAccount(context.Background(), tc.username, tc.password); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, map[string]http.HandlerFunc{
		"/accounts/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status":     true,
				"db_key":     "aabb",
				"session_id": "ccdd",
			})
		},
	})

	session, err := client.Login(context.Background(), "alice42", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.DBKey() != "aabb" || session.SessionID() != "ccdd" {
		t.Errorf("unexpected credentials: %s / %s", session.DBKey(), session.SessionID())
	}
	if session.Username() != "alice42" {
		t.Errorf("unexpected username: %s", session.Username())
	}
}

func TestLoginRejected(t *testing.T) {
	client := newTestClient(t, map[string]http.HandlerFunc{
		"/accounts/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, map[string]any{
				"status":  false,
				"err_msg": "Invalid username or password.",
			})
		},
	})

	_, err := client.Login(context.Background(), "alice42", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got: %v", err)
	}
	if apiErr.ErrMsg != "Invalid username or password." {
		t.Errorf("unexpected err_msg: %s", apiErr.ErrMsg)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status code: %d", apiErr.StatusCode)
	}
}

// The service can reject with HTTP 200, so the envelope must be
// authoritative.
func TestEnvelopeRejectionWithHTTP200(t *testing.T) {
	client := newTestClient(t, map[string]http.HandlerFunc{
		"/rooms/connect": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"status":  false,
				"err_msg": ErrMsgRoomValidationFail,
			})
		},
	})
	session := client.Session("aabb", "ccdd", "alice42")

	_, err := session.Connect(context.Background(), mustRoomCode(t, "a1b2c3"))
	if !IsRoomValidationFail(err) {
		t.Fatalf("expected room validation failure, got: %v", err)
	}
	if IsValidationFail(err) {
		t.Error("room validation failure must not match IsValidationFail")
	}
}

func TestNonJSONResponse(t *testing.T) {
	client := newTestClient(t, map[string]http.HandlerFunc{
		"/accounts/login": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
		},
	})

	_, err := client.Login(context.Background(), "alice42", "hunter22")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("non-JSON response must not be reported as an APIError")
	}
}

func TestSentinelPredicates(t *testing.T) {
	validationErr := error(&APIError{ErrMsg: ErrMsgValidationFail, StatusCode: 400})
	roomErr := error(&APIError{ErrMsg: ErrMsgRoomValidationFail, StatusCode: 200})
	plainErr := errors.New("network down")

	if !IsValidationFail(validationErr) || IsValidationFail(roomErr) || IsValidationFail(plainErr) {
		t.Error("IsValidationFail misclassified")
	}
	if !IsRoomValidationFail(roomErr) || IsRoomValidationFail(validationErr) || IsRoomValidationFail(plainErr) {
		t.Error("IsRoomValidationFail misclassified")
	}
}
