// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"
)

// ExitError signals a non-zero exit code without printing an extra
// error line. Commands that already wrote their own output return this
// so main does not duplicate it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode is checked by main to distinguish a handled non-zero exit
// from an unexpected error.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// UsageError is a command error caused by the caller's input, with an
// optional hint on how to proceed.
type UsageError struct {
	Err  error
	Hint string
}

func (e *UsageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *UsageError) Unwrap() error { return e.Err }

// WithHint attaches a next-step hint shown under the error message.
func (e *UsageError) WithHint(format string, args ...any) *UsageError {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// Validation creates a UsageError for invalid input.
func Validation(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}
