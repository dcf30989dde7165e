// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/parlor/lib/ref"
	"github.com/bureau-foundation/parlor/messaging"
	"github.com/bureau-foundation/parlor/realtime"
)

// formMode says which input form overlays the dashboard, if any.
type formMode int

const (
	formNone formMode = iota
	formCreate
	formJoin
)

// dashboardView renders the room list and hosts the create/join
// forms.
type dashboardView struct {
	cursor int

	form      formMode
	formFocus int
	inputs    []textinput.Model
}

func newDashboardView(*Model) dashboardView {
	return dashboardView{}
}

// openCreateForm prepares the three create-room inputs.
func (d *dashboardView) openCreateForm() {
	name := textinput.New()
	name.Placeholder = "room name"
	name.CharLimit = messaging.MaxRoomNameLength
	name.Focus()

	capacity := textinput.New()
	capacity.Placeholder = fmt.Sprintf("capacity (%d-%d)", messaging.MinRoomUsers, messaging.MaxRoomUsers)
	capacity.CharLimit = 1

	password := textinput.New()
	password.Placeholder = "password (optional)"
	password.EchoMode = textinput.EchoPassword

	d.form = formCreate
	d.formFocus = 0
	d.inputs = []textinput.Model{name, capacity, password}
}

// openJoinForm prepares the two join-room inputs.
func (d *dashboardView) openJoinForm() {
	code := textinput.New()
	code.Placeholder = "room code"
	code.CharLimit = 6
	code.Focus()

	password := textinput.New()
	password.Placeholder = "password (if required)"
	password.EchoMode = textinput.EchoPassword

	d.form = formJoin
	d.formFocus = 0
	d.inputs = []textinput.Model{code, password}
}

func (d *dashboardView) closeForm() {
	d.form = formNone
	d.inputs = nil
}

func (d *dashboardView) handleKey(m *Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if d.form != formNone {
		return d.handleFormKey(m, msg)
	}

	rooms := m.dashboard.Rooms()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if d.cursor < len(rooms)-1 {
			d.cursor++
		}

	case key.Matches(msg, m.keys.Open):
		if d.cursor < len(rooms) {
			entry := rooms[d.cursor]
			return m, openRoom(m.session, m.session.Username(), entry.Code, m.logger)
		}

	case key.Matches(msg, m.keys.Create):
		d.openCreateForm()

	case key.Matches(msg, m.keys.Join):
		d.openJoinForm()

	case key.Matches(msg, m.keys.Leave):
		if d.cursor < len(rooms) {
			return m, leaveRoom(m.session, rooms[d.cursor].Code)
		}
	}
	return m, nil
}

func (d *dashboardView) handleFormKey(m *Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.closeForm()
		return m, nil

	case "tab", "down":
		d.focusInput((d.formFocus + 1) % len(d.inputs))
		return m, nil

	case "shift+tab", "up":
		d.focusInput((d.formFocus + len(d.inputs) - 1) % len(d.inputs))
		return m, nil

	case "enter":
		if d.formFocus < len(d.inputs)-1 {
			d.focusInput(d.formFocus + 1)
			return m, nil
		}
		return d.submitForm(m)
	}

	var cmd tea.Cmd
	d.inputs[d.formFocus], cmd = d.inputs[d.formFocus].Update(msg)
	return m, cmd
}

func (d *dashboardView) focusInput(index int) {
	d.inputs[d.formFocus].Blur()
	d.formFocus = index
	d.inputs[index].Focus()
}

func (d *dashboardView) submitForm(m *Model) (tea.Model, tea.Cmd) {
	switch d.form {
	case formCreate:
		name := strings.TrimSpace(d.inputs[0].Value())
		capacity, err := strconv.Atoi(strings.TrimSpace(d.inputs[1].Value()))
		if err != nil {
			capacity = messaging.MaxRoomUsers
		}
		password := d.inputs[2].Value()
		d.closeForm()
		return m, createRoom(m.session, name, capacity, password)

	case formJoin:
		code, err := ref.ParseRoomCode(strings.TrimSpace(d.inputs[0].Value()))
		if err != nil {
			return m, m.notice.show("invalid room code", slog.LevelError)
		}
		password := d.inputs[1].Value()
		d.closeForm()
		return m, joinRoom(m.session, code, password)
	}
	d.closeForm()
	return m, nil
}

func (d *dashboardView) render(m *Model) string {
	theme := m.theme
	headerStyle := style().Foreground(theme.HeaderForeground).Bold(true)
	faint := style().Foreground(theme.FaintText)

	var b strings.Builder
	b.WriteString(headerStyle.Render("parlor") + faint.Render("  "+m.session.Username()) + "\n\n")

	rooms := m.dashboard.Rooms()
	switch {
	case m.loading:
		b.WriteString(faint.Render("loading rooms...") + "\n")
	case len(rooms) == 0:
		b.WriteString(faint.Render("no rooms yet · c to create, J to join") + "\n")
	default:
		if d.cursor >= len(rooms) {
			d.cursor = len(rooms) - 1
		}
		for index, entry := range rooms {
			b.WriteString(d.renderRow(theme, entry, index == d.cursor) + "\n")
		}
	}

	if d.form != formNone {
		b.WriteString("\n" + d.renderForm(theme))
	}

	b.WriteString("\n" + m.renderStatusBar(dashboardHelp))
	return b.String()
}

func (d *dashboardView) renderRow(theme Theme, entry realtime.RoomEntry, selected bool) string {
	marker := "  "
	if entry.Unread {
		marker = style().Foreground(theme.UnreadAccent).Render("● ")
	}

	label := fmt.Sprintf("%-18s %s", entry.Name, entry.Code)
	if entry.IsAdmin {
		label += style().Foreground(theme.AdminAccent).Render("  admin")
	}

	rowStyle := style().Foreground(theme.NormalText)
	if selected {
		rowStyle = rowStyle.
			Background(theme.SelectedBackground).
			Foreground(theme.SelectedForeground)
	}
	return marker + rowStyle.Render(label)
}

func (d *dashboardView) renderForm(theme Theme) string {
	title := "create room"
	if d.form == formJoin {
		title = "join room"
	}

	var b strings.Builder
	b.WriteString(style().Foreground(theme.HeaderForeground).Render(title) + "\n")
	for _, input := range d.inputs {
		b.WriteString(input.View() + "\n")
	}
	b.WriteString(style().Foreground(theme.HelpText).Render("Enter next/submit · Esc cancel"))

	return style().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Render(b.String())
}

const dashboardHelp = "j/k move · Enter open · c create · J join · D leave · q quit"
