// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"testing"
)

type failReader struct{}

func (*failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader([]byte(`{"status":true}`)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"status":true}` {
			t.Fatalf("got %q, want %q", data, `{"status":true}`)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 0 {
			t.Fatalf("expected empty, got %d bytes", len(data))
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if _, err := ReadResponse(&failReader{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestErrorBody(t *testing.T) {
	if body := ErrorBody([]byte("  server exploded\n")); body != "server exploded" {
		t.Fatalf("got %q", body)
	}
	long := bytes.Repeat([]byte("x"), 600)
	if body := ErrorBody(long); len(body) != 515 || !strings.HasSuffix(body, "...") {
		t.Fatalf("long body not truncated: %q", body)
	}
}

func TestIsExpectedCloseError(t *testing.T) {
	expected := []error{
		io.EOF,
		net.ErrClosed,
		fmt.Errorf("write: %w", syscall.EPIPE),
		fmt.Errorf("read: %w", syscall.ECONNRESET),
	}
	for _, err := range expected {
		if !IsExpectedCloseError(err) {
			t.Errorf("IsExpectedCloseError(%v) = false, want true", err)
		}
	}

	unexpected := []error{
		nil,
		fmt.Errorf("some other failure"),
		syscall.ECONNREFUSED,
	}
	for _, err := range unexpected {
		if IsExpectedCloseError(err) {
			t.Errorf("IsExpectedCloseError(%v) = true, want false", err)
		}
	}
}
