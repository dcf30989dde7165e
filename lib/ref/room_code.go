// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
)

// roomCodeLength is the fixed length of a room code. The service
// derives codes from a hash of the room name and truncates to six
// characters; this is the public identifier members type to join.
const roomCodeLength = 6

// RoomCode is a validated six-character room identifier.
//
// Codes are server-assigned and opaque; the client never constructs
// them, only receives them from room creation responses, the dashboard
// bootstrap, and notification channel events. Comparison is exact
// (codes are case-sensitive on the service side).
//
// RoomCode is an immutable value type. The zero value is not valid;
// use IsZero to check.
type RoomCode struct {
	code string
}

// ParseRoomCode validates and wraps a raw room code string. Returns an
// error if the string is not exactly six ASCII letters or digits.
func ParseRoomCode(raw string) (RoomCode, error) {
	if raw == "" {
		return RoomCode{}, fmt.Errorf("empty room code")
	}
	if len(raw) != roomCodeLength {
		return RoomCode{}, fmt.Errorf("room code must be %d characters: %q", roomCodeLength, raw)
	}
	for i := 0; i < len(raw); i++ {
		if !isAlphanumeric(raw[i]) {
			return RoomCode{}, fmt.Errorf("room code contains invalid character %q: %q", raw[i], raw)
		}
	}
	return RoomCode{code: raw}, nil
}

// String returns the six-character code.
func (c RoomCode) String() string { return c.code }

// IsZero reports whether the RoomCode is the zero value (uninitialized).
func (c RoomCode) IsZero() bool { return c.code == "" }

// MarshalText implements encoding.TextMarshaler.
func (c RoomCode) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero room code")
	}
	return []byte(c.code), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating codes
// as they are decoded from JSON (including map keys).
func (c *RoomCode) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
