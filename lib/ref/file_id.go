// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
)

// maxFileIDLength bounds file IDs well above the service's current
// 40-character hash form, so a service-side format change does not
// break the client while still rejecting garbage.
const maxFileIDLength = 128

// FileID is a validated file identifier, unique within a room's file
// register. The service derives IDs from a hash of the uploader and
// file name; the client treats them as opaque hex strings.
//
// FileID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type FileID struct {
	id string
}

// ParseFileID validates and wraps a raw file ID string. Returns an
// error if the string is empty, too long, or contains characters
// outside lowercase hex.
func ParseFileID(raw string) (FileID, error) {
	if raw == "" {
		return FileID{}, fmt.Errorf("empty file ID")
	}
	if len(raw) > maxFileIDLength {
		return FileID{}, fmt.Errorf("file ID too long (%d characters)", len(raw))
	}
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if (b < '0' || b > '9') && (b < 'a' || b > 'f') {
			return FileID{}, fmt.Errorf("file ID contains invalid character %q: %q", b, raw)
		}
	}
	return FileID{id: raw}, nil
}

// String returns the file ID string.
func (f FileID) String() string { return f.id }

// IsZero reports whether the FileID is the zero value (uninitialized).
func (f FileID) IsZero() bool { return f.id == "" }

// MarshalText implements encoding.TextMarshaler.
func (f FileID) MarshalText() ([]byte, error) {
	if f.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero file ID")
	}
	return []byte(f.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The file register
// arrives as a JSON object keyed by file ID, so map-key decoding flows
// through here.
func (f *FileID) UnmarshalText(text []byte) error {
	parsed, err := ParseFileID(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
