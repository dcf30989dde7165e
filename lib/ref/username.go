// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"unicode"
)

// Account name length limits enforced by the service at registration.
// ValidateNewUsername mirrors them so registration fails locally with
// the same wording family the service would use.
const (
	minUsernameLength = 5
	maxUsernameLength = 16
)

// ValidateNewUsername checks a username against the service's
// registration rules: 5–16 characters, no whitespace or control
// characters. Existing member names arriving over the wire are NOT
// passed through this; the service is authoritative for accounts it
// already created, and member-list handling must never drop an event
// because an old account predates a rule change.
func ValidateNewUsername(username string) error {
	if len(username) < minUsernameLength {
		return fmt.Errorf("username is too short (minimum %d characters)", minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("username is too long (maximum %d characters)", maxUsernameLength)
	}
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("username contains whitespace or control characters")
		}
	}
	return nil
}
