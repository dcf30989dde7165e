// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// renderer forces the ANSI256 color profile. UI output is always for
// terminal display, and auto-detection produces uncolored output when
// stdout is not a TTY. SetColorProfile is required because
// lipgloss.Renderer.ColorProfile() ignores the termenv.Output profile
// and re-detects from the environment unless set explicitly.
var renderer = lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))

func init() {
	renderer.SetColorProfile(termenv.ANSI256)
}

// style starts a lipgloss style on the forced-profile renderer.
func style() lipgloss.Style {
	return renderer.NewStyle()
}

// Theme defines the color palette for Parlor's terminal UI. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Unread marker on dashboard rows.
	UnreadAccent lipgloss.Color

	// Admin badge next to rooms the user administers.
	AdminAccent lipgloss.Color

	// Message authors: self vs everyone else.
	SelfAuthor  lipgloss.Color
	OtherAuthor lipgloss.Color

	// Lock indicator in the room header.
	LockedAccent   lipgloss.Color
	UnlockedAccent lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Status bar notices.
	NoticeInfo  lipgloss.Color
	NoticeWarn  lipgloss.Color
	NoticeError lipgloss.Color
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	UnreadAccent:       lipgloss.Color("214"),
	AdminAccent:        lipgloss.Color("141"),
	SelfAuthor:         lipgloss.Color("81"),
	OtherAuthor:        lipgloss.Color("150"),
	LockedAccent:       lipgloss.Color("203"),
	UnlockedAccent:     lipgloss.Color("71"),
	HeaderForeground:   lipgloss.Color("81"),
	BorderColor:        lipgloss.Color("240"),
	HelpText:           lipgloss.Color("243"),
	NoticeInfo:         lipgloss.Color("75"),
	NoticeWarn:         lipgloss.Color("214"),
	NoticeError:        lipgloss.Color("203"),
}
