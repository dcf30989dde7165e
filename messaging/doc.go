// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the chat service's REST API for Parlor's
// account, room, and file operations.
//
// The package provides two core types. [Client] is an unauthenticated
// client that handles account creation and login, returning
// authenticated [Session] values. Client holds the service base URL
// and HTTP transport, shared across all Sessions derived from it.
//
// [Session] wraps a Client with the db_key + session_id credential
// pair for authenticated operations: account lifecycle (logout,
// password change, deletion), the dashboard bootstrap (UserData), room
// lifecycle (create, join, leave, connect), the room bootstrap
// (RoomData), messaging, file upload and download, and the admin calls
// (lock state, member kick, file removal). The service authenticates
// via credential fields in each request body rather than headers, so
// Session injects them into every payload.
//
// Every response carries a "status" boolean. Failed operations surface
// as [*APIError] wrapping the service's err_msg string and the HTTP
// status code. Two err_msg values are sentinels with dedicated
// predicates: [IsValidationFail] (credentials rejected: clear the
// saved session and re-login) and [IsRoomValidationFail] (room access
// rejected: leave the room view). Every other err_msg is a
// user-displayable message shown verbatim.
//
// Real-time events are not handled here: package realtime consumes the
// service's WebSocket channels and reconciles them against the
// bootstrap snapshots these calls return.
package messaging
