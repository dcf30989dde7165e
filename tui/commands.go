// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
	"github.com/bureau-foundation/parlor/realtime"
)

// callTimeout bounds the REST calls issued from the message loop.
const callTimeout = 15 * time.Second

// dashboardLoadedMsg carries the dashboard bootstrap snapshot.
type dashboardLoadedMsg struct {
	summary *messaging.AccountSummary
	err     error
}

// notificationMsg carries one notification channel event. ok is false
// when the channel ended.
type notificationMsg struct {
	notification realtime.Notification
	ok           bool
}

// roomEventMsg carries one room channel event. ok is false when the
// channel ended. visit identifies the connection the event belongs to,
// so an event from an abandoned visit can be discarded.
type roomEventMsg struct {
	visit *roomVisit
	event realtime.RoomEvent
	ok    bool
}

// roomOpenedMsg carries a freshly connected room visit.
type roomOpenedMsg struct {
	visit *roomVisit
	err   error
}

// actionDoneMsg reports an asynchronous API call. info is shown as a
// status notice on success when non-empty.
type actionDoneMsg struct {
	info string
	err  error
}

// roomLeftMsg reports a leave-room call for the given code.
type roomLeftMsg struct {
	code ref.RoomCode
	err  error
}

// roomCreatedMsg reports a create-room call.
type roomCreatedMsg struct {
	code ref.RoomCode
	name string
	err  error
}

// roomJoinedMsg reports a join-room call.
type roomJoinedMsg struct {
	code ref.RoomCode
	name string
	err  error
}

// downloadDoneMsg reports a file download.
type downloadDoneMsg struct {
	path    string
	written int64
	err     error
}

// roomVisit bundles everything belonging to one room connection. The
// stream and reducer live exactly as long as the visit.
type roomVisit struct {
	code    ref.RoomCode
	isAdmin bool
	reducer *realtime.Room
	stream  *realtime.RoomStream
}

func (v *roomVisit) close() {
	if v.stream != nil {
		v.stream.Close()
	}
}

func loadDashboard(session *messaging.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		summary, err := session.UserData(ctx)
		return dashboardLoadedMsg{summary: summary, err: err}
	}
}

// awaitNotification blocks on the notification stream and resolves to
// the next event. The Update handler re-arms it after every delivery.
func awaitNotification(stream *realtime.NotificationStream) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-stream.Events()
		return notificationMsg{notification: n, ok: ok}
	}
}

// awaitRoomEvent blocks on a visit's room stream. The visit pointer
// travels with the command so a stale command from a previous visit
// can be recognized and discarded.
func awaitRoomEvent(visit *roomVisit) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-visit.stream.Events()
		return roomEventMsg{visit: visit, event: event, ok: ok}
	}
}

// openRoom connects a room visit: the connect call for the room key,
// the room channel dial, then the bootstrap snapshot. The channel is
// dialed before the snapshot is fetched so no event falls between
// them; events racing the fetch are absorbed by the reducer's
// idempotent replay.
func openRoom(session *messaging.Session, self string, code ref.RoomCode, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		connection, err := session.Connect(ctx, code)
		if err != nil {
			return roomOpenedMsg{err: err}
		}
		stream, err := realtime.DialRoom(ctx, session.Client(), connection.RoomKey, logger)
		if err != nil {
			return roomOpenedMsg{err: err}
		}
		state, err := session.RoomData(ctx, connection.RoomKey)
		if err != nil {
			stream.Close()
			return roomOpenedMsg{err: err}
		}

		reducer := realtime.NewRoom(self, logger)
		reducer.Bootstrap(state)
		return roomOpenedMsg{visit: &roomVisit{
			code:    code,
			isAdmin: connection.IsAdmin,
			reducer: reducer,
			stream:  stream,
		}}
	}
}

func sendMessage(session *messaging.Session, code ref.RoomCode, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return actionDoneMsg{err: session.AddMessage(ctx, code, content)}
	}
}

func setLockState(session *messaging.Session, code ref.RoomCode, locked bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return actionDoneMsg{err: session.SetRoomLockState(ctx, code, locked)}
	}
}

func kickMember(session *messaging.Session, code ref.RoomCode, member string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		err := session.KickMember(ctx, code, member)
		return actionDoneMsg{info: "kicked " + member, err: err}
	}
}

func removeFile(session *messaging.Session, code ref.RoomCode, id ref.FileID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return actionDoneMsg{err: session.RemoveFile(ctx, code, id)}
	}
}

func leaveRoom(session *messaging.Session, code ref.RoomCode) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return roomLeftMsg{code: code, err: session.LeaveRoom(ctx, code)}
	}
}

func createRoom(session *messaging.Session, name string, maxUsers int, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		code, err := session.CreateRoom(ctx, name, maxUsers, password)
		return roomCreatedMsg{code: code, name: name, err: err}
	}
}

func joinRoom(session *messaging.Session, code ref.RoomCode, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		name, err := session.JoinRoom(ctx, code, password)
		return roomJoinedMsg{code: code, name: name, err: err}
	}
}

// downloadFile streams a shared file into the current working
// directory. Downloads get a generous timeout: large files over slow
// links are the normal case, not the pathological one.
func downloadFile(session *messaging.Session, code ref.RoomCode, id ref.FileID, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		path := filepath.Base(name)
		if path == "." || path == string(filepath.Separator) {
			return downloadDoneMsg{err: fmt.Errorf("tui: unusable file name %q", name)}
		}
		out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return downloadDoneMsg{err: err}
		}

		written, err := session.DownloadFile(ctx, code, id, out)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(path)
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path, written: written}
	}
}
