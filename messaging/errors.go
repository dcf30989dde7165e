// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
)

// APIError represents a rejected operation from the chat service.
// Callers can use errors.As to extract the structured information:
//
//	var apiErr *messaging.APIError
//	if errors.As(err, &apiErr) {
//	    toast(apiErr.ErrMsg)
//	}
type APIError struct {
	// ErrMsg is the service's error string. Other than the two
	// sentinel values below, it is human-readable and shown to the
	// user verbatim.
	ErrMsg string `json:"err_msg"`
	// StatusCode is the HTTP status code of the response. The service
	// uses 400 for most rejections but is not consistent about it, so
	// callers must key off ErrMsg, never the status code.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat service: %s (%d)", e.ErrMsg, e.StatusCode)
}

// Sentinel err_msg values with dedicated client behavior. Everything
// else in err_msg is displayable text.
const (
	// ErrMsgValidationFail means the db_key/session_id pair was
	// rejected. The saved session must be cleared and the user sent
	// back to login.
	ErrMsgValidationFail = "@VALIDATION_FAIL"

	// ErrMsgRoomValidationFail means the room is gone, expired, or the
	// user is not a member. The room view must be abandoned for the
	// dashboard; the account session itself is still good.
	ErrMsgRoomValidationFail = "@ROOM_VALIDATION_FAIL"
)

// IsValidationFail reports whether err is the service rejecting the
// account credentials.
func IsValidationFail(err error) bool {
	return isAPIError(err, ErrMsgValidationFail)
}

// IsRoomValidationFail reports whether err is the service rejecting
// room access.
func IsRoomValidationFail(err error) bool {
	return isAPIError(err, ErrMsgRoomValidationFail)
}

func isAPIError(err error, errMsg string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrMsg == errMsg
	}
	return false
}
