// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/parlor/messaging"
	"github.com/bureau-foundation/parlor/realtime"
)

// sidebarWidth is the members/files pane width, including its border.
const sidebarWidth = 28

// roomView renders one room visit: the message log, the composer, and
// a sidebar showing either members or shared files.
type roomView struct {
	visit *roomVisit

	// self and theme are captured at construction so refresh can style
	// message authors without reaching back into the Model.
	self  string
	theme Theme

	messages viewport.Model
	composer textinput.Model

	composing bool
	showFiles bool
	cursor    int

	width  int
	height int
}

func newRoomView(m *Model, visit *roomVisit) *roomView {
	composer := textinput.New()
	composer.Placeholder = "message"
	composer.CharLimit = messaging.MaxMessageLength
	composer.Prompt = "> "

	v := &roomView{
		visit:    visit,
		self:     m.session.Username(),
		theme:    m.theme,
		messages: viewport.New(0, 0),
		composer: composer,
	}
	v.refresh()
	return v
}

func (v *roomView) resize(width, height int) {
	v.width = width
	v.height = height
	// Header, composer, and status bar each take a line.
	bodyHeight := height - 3
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	v.messages.Width = width - sidebarWidth
	v.messages.Height = bodyHeight
	v.composer.Width = width - 4
	v.refresh()
}

// refresh re-renders the message log from the reducer snapshot and
// keeps the viewport pinned to the newest message.
func (v *roomView) refresh() {
	snapshot := v.visit.reducer.Snapshot()
	atBottom := v.messages.AtBottom()

	var b strings.Builder
	for _, message := range snapshot.Messages {
		authorColor := v.theme.OtherAuthor
		if message.Author == v.self {
			authorColor = v.theme.SelfAuthor
		}
		author := style().Foreground(authorColor).Render(message.Author)
		b.WriteString(author + ": " + message.Content + "\n")
	}
	v.messages.SetContent(b.String())
	if atBottom {
		v.messages.GotoBottom()
	}

	// Keep the sidebar cursor inside the shrinking list it points at.
	limit := len(snapshot.Members)
	if v.showFiles {
		limit = len(snapshot.Files)
	}
	if v.cursor >= limit {
		v.cursor = limit - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *roomView) handleKey(m *Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snapshot := v.visit.reducer.Snapshot()

	// A terminated visit renders a closing screen; any key returns to
	// the dashboard.
	if snapshot.Phase == realtime.PhaseTerminated {
		m.closeVisit()
		return m, nil
	}

	if v.composing {
		return v.handleComposerKey(m, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.closeVisit()
		return m, nil

	case key.Matches(msg, m.keys.Compose):
		v.composing = true
		return m, v.composer.Focus()

	case key.Matches(msg, m.keys.Files):
		v.showFiles = !v.showFiles
		v.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		v.messages.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		limit := len(snapshot.Members)
		if v.showFiles {
			limit = len(snapshot.Files)
		}
		if v.cursor < limit-1 {
			v.cursor++
		}
		v.messages.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.Download):
		if v.showFiles && v.cursor < len(snapshot.Files) {
			file := snapshot.Files[v.cursor]
			return m, downloadFile(m.session, v.visit.code, file.ID, file.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Lock):
		if v.visit.isAdmin {
			return m, setLockState(m.session, v.visit.code, !snapshot.Locked)
		}
		return m, nil

	case key.Matches(msg, m.keys.Kick):
		if v.visit.isAdmin && !v.showFiles && v.cursor < len(snapshot.Members) {
			member := snapshot.Members[v.cursor]
			if member != m.session.Username() {
				return m, kickMember(m.session, v.visit.code, member)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		if v.visit.isAdmin && v.showFiles && v.cursor < len(snapshot.Files) {
			return m, removeFile(m.session, v.visit.code, snapshot.Files[v.cursor].ID)
		}
		return m, nil
	}
	return m, nil
}

func (v *roomView) handleComposerKey(m *Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.composing = false
		v.composer.Blur()
		return m, nil

	case "enter":
		content := v.composer.Value()
		if strings.TrimSpace(content) == "" {
			return m, nil
		}
		v.composer.SetValue("")
		return m, sendMessage(m.session, v.visit.code, content)
	}

	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return m, cmd
}

func (v *roomView) render(m *Model) string {
	snapshot := v.visit.reducer.Snapshot()
	theme := m.theme

	if snapshot.Phase == realtime.PhaseTerminated {
		return v.renderClosed(theme, snapshot)
	}

	header := v.renderHeader(theme, snapshot)
	sidebar := v.renderSidebar(m, snapshot)
	body := lipgloss.JoinHorizontal(lipgloss.Top, v.messages.View(), sidebar)

	composer := v.composer.View()
	if !v.composing {
		composer = style().Foreground(theme.FaintText).Render("i to compose")
	}

	help := roomHelp
	if v.visit.isAdmin {
		help = roomAdminHelp
	}
	return strings.Join([]string{header, body, composer, m.renderStatusBar(help)}, "\n")
}

func (v *roomView) renderHeader(theme Theme, snapshot realtime.RoomSnapshot) string {
	lock := style().Foreground(theme.UnlockedAccent).Render("open")
	if snapshot.Locked {
		lock = style().Foreground(theme.LockedAccent).Render("locked")
	}
	title := style().Foreground(theme.HeaderForeground).Bold(true).Render(snapshot.Name)
	count := style().Foreground(theme.FaintText).
		Render(fmt.Sprintf("%d/%d members", len(snapshot.Members), snapshot.MaxUsers))
	origin := "by " + snapshot.Creator
	if snapshot.DateCreated != "" {
		origin += " · " + snapshot.DateCreated
	}
	return fmt.Sprintf("%s  %s  %s  %s  %s", title, v.visit.code, count, lock,
		style().Foreground(theme.FaintText).Render(origin))
}

func (v *roomView) renderSidebar(m *Model, snapshot realtime.RoomSnapshot) string {
	theme := m.theme
	var b strings.Builder

	if v.showFiles {
		b.WriteString(style().Foreground(theme.HeaderForeground).Render("files") + "\n")
		if len(snapshot.Files) == 0 {
			b.WriteString(style().Foreground(theme.FaintText).Render("(none)") + "\n")
		}
		for index, file := range snapshot.Files {
			line := fmt.Sprintf("%s %s", file.Name, formatSize(file.Size))
			b.WriteString(v.renderSidebarRow(theme, line, index == v.cursor) + "\n")
		}
	} else {
		b.WriteString(style().Foreground(theme.HeaderForeground).Render("members") + "\n")
		for index, member := range snapshot.Members {
			line := member
			if member == snapshot.Creator {
				line += " ★"
			}
			if member == m.session.Username() {
				line = style().Foreground(theme.SelfAuthor).Render(line)
			}
			b.WriteString(v.renderSidebarRow(theme, line, index == v.cursor) + "\n")
		}
	}

	return style().
		Width(sidebarWidth - 2).
		Height(v.messages.Height).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.BorderColor).
		PaddingLeft(1).
		Render(b.String())
}

func (v *roomView) renderSidebarRow(theme Theme, line string, selected bool) string {
	if selected {
		return style().
			Background(theme.SelectedBackground).
			Foreground(theme.SelectedForeground).
			Render(line)
	}
	return line
}

func (v *roomView) renderClosed(theme Theme, snapshot realtime.RoomSnapshot) string {
	reason := "connection lost"
	switch snapshot.CloseReason {
	case realtime.CloseRoomRemoved:
		reason = "this room was removed"
	case realtime.CloseKicked:
		reason = "you were kicked from this room"
	}
	message := style().Foreground(theme.NoticeWarn).Render(reason)
	hint := style().Foreground(theme.HelpText).Render("press any key to return to the dashboard")
	return fmt.Sprintf("\n  %s\n\n  %s\n", message, hint)
}

// formatSize renders a byte count the way people read it.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes)
	suffixes := []string{"KB", "MB", "GB", "TB"}
	for _, suffix := range suffixes {
		value /= unit
		if value < unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f PB", value/unit)
}

const (
	roomHelp      = "i compose · f files · d download · Esc back · q quit"
	roomAdminHelp = "i compose · f files · d download · L lock · K kick · X remove · Esc back"
)
