// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides network and HTTP I/O utilities for Parlor.
//
// ReadResponse bounds response body reads at MaxResponseSize to prevent
// unbounded memory allocation from a misbehaving server. It is for JSON
// API responses, not for file downloads, which stream incrementally
// with io.Copy. ErrorBody renders a read body for error messages.
//
// Connection error helpers (IsExpectedCloseError) classify errors that
// occur during normal channel teardown, so a deliberate disconnect is
// not logged as a failure.
package netutil

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// MaxResponseSize is the bound on JSON API response body reads: 64 MB.
// This exists solely to prevent a pathological response from exhausting
// memory. Legitimate responses from the chat service are orders of
// magnitude smaller; the largest is a room bootstrap with a full
// message history.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody renders an already-read response body for inclusion in an
// error message: whitespace-trimmed and truncated, so an HTML error
// page from a proxy does not flood the log.
func ErrorBody(body []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// IsExpectedCloseError reports whether err is a normal connection
// termination: EOF, closed connection, broken pipe, or connection
// reset. Channel consumers hit these when the user navigates away and
// the consumer closes the socket underneath its own read loop, or when
// the service drops a room channel after the room is removed.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
