// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// status bar. Only records at or above the handler's configured level
// are delivered.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// LogHandler is a slog.Handler that routes log records into the
// bubbletea program as messages, so background logging (stream
// consumers, async calls) shows up in the status bar instead of
// corrupting the alt-screen display.
//
// Create the handler before the program starts and call SetProgram
// once the tea.Program exists. Records arriving before SetProgram are
// dropped. Handlers derived via WithAttrs/WithGroup share the same
// program pointer, so a single SetProgram call covers all of them.
type LogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
}

// NewLogHandler creates a handler delivering records at or above the
// given level.
func NewLogHandler(level slog.Level) *LogHandler {
	return &LogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the bubbletea program that receives log messages.
// Safe to call from any goroutine.
func (handler *LogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled reports whether the handler wants records at the given
// level.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as a one-line summary and sends it to the
// program. Dropped silently when the program is not set yet.
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}

	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	program.Send(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

// WithAttrs returns a derived handler with the attributes appended.
// It shares the program pointer with its parent.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(handler.attrs)+len(attrs))
	merged = append(merged, handler.attrs...)
	merged = append(merged, attrs...)
	return &LogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   merged,
	}
}

// WithGroup returns the handler unchanged: the status bar summary is
// flat, so grouping adds nothing.
func (handler *LogHandler) WithGroup(string) slog.Handler {
	return handler
}

// noticeFadeMsg clears a status bar notice after its display time.
type noticeFadeMsg struct {
	generation int
}

// noticeFadeDelay is how long a notice stays visible before the status
// bar falls back to the keyboard help line.
const noticeFadeDelay = 4 * time.Second

// notice is the current status bar message.
type notice struct {
	text       string
	level      slog.Level
	generation int
}

// show replaces the notice and returns the fade command for it. The
// generation counter lets a fade for an older notice expire harmlessly
// after a newer one replaced it.
func (n *notice) show(text string, level slog.Level) tea.Cmd {
	n.text = text
	n.level = level
	n.generation++
	generation := n.generation
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{generation: generation}
	})
}

// fade clears the notice if the fade belongs to it.
func (n *notice) fade(msg noticeFadeMsg) {
	if msg.generation == n.generation {
		n.text = ""
	}
}
