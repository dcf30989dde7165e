// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/parlor/messaging"
	"github.com/bureau-foundation/parlor/realtime"
)

// view identifies which screen is active.
type view int

const (
	viewDashboard view = iota
	viewRoom
)

// Model is the root bubbletea model. It owns the authenticated
// session, the dashboard reducer, and the notification stream, and
// routes input to the active view.
type Model struct {
	session *messaging.Session
	logger  *slog.Logger
	keys    KeyMap
	theme   Theme

	dashboard     *realtime.Dashboard
	notifications *realtime.NotificationStream

	width  int
	height int

	view view
	dash dashboardView
	room *roomView

	notice  notice
	loading bool

	// credentialsRejected is set when the service rejects the session
	// credentials mid-run. The CLI clears the saved session after the
	// program exits.
	credentialsRejected bool
}

// New builds the root model around an authenticated session and its
// already-dialed notification stream.
func New(session *messaging.Session, notifications *realtime.NotificationStream, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		session:       session,
		logger:        logger,
		keys:          DefaultKeyMap,
		theme:         DefaultTheme,
		dashboard:     realtime.NewDashboard(logger),
		notifications: notifications,
		loading:       true,
	}
	m.dash = newDashboardView(m)
	return m
}

// CredentialsRejected reports whether the run ended because the
// service rejected the session credentials. Read after Run returns.
func (m *Model) CredentialsRejected() bool {
	return m.credentialsRejected
}

// Init starts the dashboard bootstrap and arms the notification
// receive.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		loadDashboard(m.session),
		awaitNotification(m.notifications),
	)
}

// Update is the single message handler for the whole UI.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.room != nil {
			m.room.resize(msg.Width, msg.Height)
		}
		return m, nil

	case logRecordMsg:
		return m, m.notice.show(msg.Summary, msg.Level)

	case noticeFadeMsg:
		m.notice.fade(msg)
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.dashboard.Bootstrap(msg.summary)
		return m, nil

	case notificationMsg:
		return m.handleNotification(msg)

	case roomOpenedMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.openVisit(msg.visit)
		return m, awaitRoomEvent(msg.visit)

	case roomEventMsg:
		return m.handleRoomEvent(msg)

	case roomCreatedMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.dashboard.Add(msg.code, msg.name, true)
		return m, m.notice.show("room created: "+msg.code.String(), slog.LevelInfo)

	case roomJoinedMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.dashboard.Add(msg.code, msg.name, false)
		return m, m.notice.show("joined "+msg.name, slog.LevelInfo)

	case roomLeftMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.dashboard.Remove(msg.code)
		if m.room != nil && m.room.visit.code == msg.code {
			m.closeVisit()
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		if msg.info != "" {
			return m, m.notice.show(msg.info, slog.LevelInfo)
		}
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		return m, m.notice.show("saved "+msg.path, slog.LevelInfo)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewRoom && m.room != nil {
		return m.room.handleKey(m, msg)
	}
	return m.dash.handleKey(m, msg)
}

func (m *Model) handleNotification(msg notificationMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		var cmd tea.Cmd
		if err := m.notifications.Err(); err != nil {
			cmd = m.notice.show("notification channel lost", slog.LevelWarn)
		}
		return m, cmd
	}

	n := msg.notification
	m.dashboard.Apply(n)

	var cmd tea.Cmd
	switch n.Tag {
	case realtime.NotifyRoomRemoved:
		cmd = m.notice.show("room removed: "+n.RoomName, slog.LevelWarn)
	case realtime.NotifyKicked:
		cmd = m.notice.show("kicked from "+n.RoomName, slog.LevelWarn)
	}
	return m, tea.Batch(cmd, awaitNotification(m.notifications))
}

func (m *Model) handleRoomEvent(msg roomEventMsg) (tea.Model, tea.Cmd) {
	// A command from a visit the user already left can still resolve;
	// its events belong to a closed stream and are discarded.
	if m.room == nil || m.room.visit != msg.visit {
		return m, nil
	}
	if !msg.ok {
		m.room.visit.reducer.ConnectionLost()
		return m, nil
	}
	m.room.visit.reducer.Apply(msg.event)
	m.room.refresh()
	return m, awaitRoomEvent(msg.visit)
}

// fail routes an async error: credential rejection ends the program,
// room rejection abandons the room view, anything else becomes a
// status notice.
func (m *Model) fail(err error) tea.Cmd {
	if messaging.IsValidationFail(err) {
		m.credentialsRejected = true
		return tea.Quit
	}
	if messaging.IsRoomValidationFail(err) {
		m.closeVisit()
		return tea.Batch(
			m.notice.show("room is no longer available", slog.LevelWarn),
			loadDashboard(m.session),
		)
	}
	m.logger.Warn("request failed", "error", err)
	text := err.Error()
	var apiErr *messaging.APIError
	if errors.As(err, &apiErr) {
		text = apiErr.ErrMsg
	}
	return m.notice.show(text, slog.LevelError)
}

// openVisit swaps to the room view for a connected visit.
func (m *Model) openVisit(visit *roomVisit) {
	if m.room != nil {
		m.room.visit.close()
	}
	m.room = newRoomView(m, visit)
	m.room.resize(m.width, m.height)
	m.view = viewRoom
	m.dashboard.MarkRead(visit.code)
}

// closeVisit tears the current room visit down and returns to the
// dashboard.
func (m *Model) closeVisit() {
	if m.room != nil {
		m.room.visit.close()
		m.room = nil
	}
	m.view = viewDashboard
}

// View renders the active screen.
func (m *Model) View() string {
	if m.view == viewRoom && m.room != nil {
		return m.room.render(m)
	}
	return m.dash.render(m)
}

// renderStatusBar shows the current notice, or the help line when
// nothing demands attention.
func (m *Model) renderStatusBar(help string) string {
	if m.notice.text == "" {
		return style().Foreground(m.theme.HelpText).Render(help)
	}
	color := m.theme.NoticeInfo
	switch {
	case m.notice.level >= slog.LevelError:
		color = m.theme.NoticeError
	case m.notice.level >= slog.LevelWarn:
		color = m.theme.NoticeWarn
	}
	return style().Foreground(color).Render(m.notice.text)
}
