// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
	"github.com/bureau-foundation/parlor/realtime"
)

func mustRoomCode(t *testing.T, code string) ref.RoomCode {
	t.Helper()
	parsed, err := ref.ParseRoomCode(code)
	if err != nil {
		t.Fatalf("parsing room code %q: %v", code, err)
	}
	return parsed
}

// testModel builds a Model around a session that never talks to a real
// server. Commands that would issue requests are not executed by these
// tests; only the synchronous Update/View behavior is exercised.
func testModel(t *testing.T) *Model {
	t.Helper()
	client, err := messaging.NewClient(messaging.ClientConfig{ServerURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	session := client.Session("test-db-key", "test-session-id", "alice42")
	m := New(session, nil, slog.New(slog.DiscardHandler))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func bootstrapDashboard(t *testing.T, m *Model) {
	t.Helper()
	m.Update(dashboardLoadedMsg{summary: &messaging.AccountSummary{
		Username: "alice42",
		Rooms: map[ref.RoomCode]messaging.RoomMembership{
			mustRoomCode(t, "a1b2c3"): {Name: "book club", IsAdmin: true},
			mustRoomCode(t, "d4e5f6"): {Name: "study hall", IsAdmin: false},
		},
		Notifications: []ref.RoomCode{mustRoomCode(t, "d4e5f6")},
	}})
}

func TestDashboardRendering(t *testing.T) {
	m := testModel(t)

	if !strings.Contains(m.View(), "loading") {
		t.Error("pre-bootstrap view must show the loading state")
	}

	bootstrapDashboard(t, m)
	rendered := m.View()
	for _, want := range []string{"book club", "study hall", "a1b2c3", "admin", "alice42"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("dashboard view missing %q:\n%s", want, rendered)
		}
	}
	if !strings.Contains(rendered, "●") {
		t.Error("unread room has no marker")
	}
}

func TestDashboardCursor(t *testing.T) {
	m := testModel(t)
	bootstrapDashboard(t, m)

	if m.dash.cursor != 0 {
		t.Fatalf("cursor starts at %d", m.dash.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.dash.cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.dash.cursor)
	}
	// Clamped at the end of the list.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.dash.cursor != 1 {
		t.Errorf("cursor = %d, must clamp at 1", m.dash.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.dash.cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.dash.cursor)
	}
}

func TestDashboardForms(t *testing.T) {
	m := testModel(t)
	bootstrapDashboard(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if m.dash.form != formCreate {
		t.Fatal("c did not open the create form")
	}
	if !strings.Contains(m.View(), "create room") {
		t.Error("create form not rendered")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.dash.form != formNone {
		t.Error("Esc did not close the form")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("J")})
	if m.dash.form != formJoin {
		t.Fatal("J did not open the join form")
	}
}

func TestNotificationUpdatesDashboard(t *testing.T) {
	m := testModel(t)
	bootstrapDashboard(t, m)

	m.Update(notificationMsg{ok: true, notification: realtime.Notification{
		Tag:      realtime.NotifyRoomRemoved,
		RoomCode: mustRoomCode(t, "a1b2c3"),
		RoomName: "book club",
	}})

	if strings.Contains(m.View(), "a1b2c3") {
		t.Error("removed room still rendered")
	}
	if m.notice.text == "" || !strings.Contains(m.notice.text, "book club") {
		t.Errorf("removal notice missing: %q", m.notice.text)
	}
}

func TestCredentialRejectionQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(dashboardLoadedMsg{
		err: &messaging.APIError{ErrMsg: messaging.ErrMsgValidationFail, StatusCode: 400},
	})
	if !m.CredentialsRejected() {
		t.Fatal("credential rejection not recorded")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
}

func TestRoomViewLifecycle(t *testing.T) {
	m := testModel(t)
	bootstrapDashboard(t, m)

	reducer := realtime.NewRoom("alice42", slog.New(slog.DiscardHandler))
	reducer.Bootstrap(&messaging.RoomState{
		Name:          "book club",
		Creator:       "alice42",
		AdminUsername: "alice42",
		DateCreated:   "2026-08-01",
		MaxUsers:      4,
		Members:       []string{"bob_the_1st"},
		Messages:      []messaging.Message{{Author: "bob_the_1st", Content: "hello"}},
	})
	visit := &roomVisit{code: mustRoomCode(t, "a1b2c3"), isAdmin: true, reducer: reducer}
	m.openVisit(visit)

	rendered := m.View()
	for _, want := range []string{
		"book club", "2/4 members", "by alice42", "2026-08-01", "bob_the_1st", "hello",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("room view missing %q:\n%s", want, rendered)
		}
	}
	// Another member's messages carry the other-author color; 150 is
	// used nowhere else in the palette.
	if !strings.Contains(rendered, "38;5;150m") {
		t.Error("message author not styled")
	}

	// An event flows through Update into the reducer and the view.
	m.Update(roomEventMsg{visit: visit, ok: true, event: realtime.MessageAdded{
		Author: "bob_the_1st", Content: "second",
	}})
	if !strings.Contains(m.View(), "second") {
		t.Error("applied event not rendered")
	}

	// Termination renders the closing screen; a key returns to the
	// dashboard.
	m.Update(roomEventMsg{visit: visit, ok: true, event: realtime.RoomRemoved{}})
	if !strings.Contains(m.View(), "removed") {
		t.Error("closing screen not rendered")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewDashboard {
		t.Error("key on closing screen did not return to the dashboard")
	}
}

func TestStaleRoomEventDiscarded(t *testing.T) {
	m := testModel(t)
	bootstrapDashboard(t, m)

	reducer := realtime.NewRoom("alice42", slog.New(slog.DiscardHandler))
	reducer.Bootstrap(&messaging.RoomState{Name: "book club", MaxUsers: 4})
	current := &roomVisit{code: mustRoomCode(t, "a1b2c3"), reducer: reducer}
	m.openVisit(current)

	stale := &roomVisit{code: mustRoomCode(t, "d4e5f6"), reducer: realtime.NewRoom("alice42", nil)}
	_, cmd := m.Update(roomEventMsg{visit: stale, ok: true, event: realtime.MessageAdded{
		Author: "x", Content: "ghost",
	}})
	if cmd != nil {
		t.Error("stale event must not re-arm the receive")
	}
	if strings.Contains(m.View(), "ghost") {
		t.Error("stale event leaked into the active room view")
	}
}

func TestNoticeFadeGenerations(t *testing.T) {
	var n notice
	n.show("first", slog.LevelInfo)
	staleFade := noticeFadeMsg{generation: n.generation}
	n.show("second", slog.LevelWarn)

	n.fade(staleFade)
	if n.text != "second" {
		t.Error("stale fade cleared a newer notice")
	}
	n.fade(noticeFadeMsg{generation: n.generation})
	if n.text != "" {
		t.Error("matching fade did not clear the notice")
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1256341, "1.2 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, tc := range cases {
		if got := formatSize(tc.bytes); got != tc.want {
			t.Errorf("formatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
