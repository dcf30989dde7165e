// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package realtime keeps client-side views synchronized with the chat
// service without polling.
//
// The service pushes incremental updates over two WebSocket channels.
// The notification channel (one per logged-in account) carries
// dashboard-level events: activity in a room the user belongs to, a
// room being removed, the user being kicked. The room channel (one per
// room visit) carries in-room events: messages, membership changes,
// file register changes, lock state changes, and room removal.
//
// Each channel pairs with a REST bootstrap snapshot: the dashboard
// bootstraps from the user data endpoint, a room visit from the room
// data endpoint. Because the channel is opened before the snapshot is
// fetched, events can arrive that the snapshot already reflects or
// that refer to state the view does not hold yet. The reducers
// ([Dashboard], [Room]) absorb this: events arriving before the
// bootstrap are buffered and replayed exactly once after it, and every
// mutation is idempotent, so applying an event the snapshot already
// contains leaves the state unchanged.
//
// [NotificationStream] and [RoomStream] own the WebSocket connections.
// They deliver decoded events on a channel and drop malformed or
// unrecognized payloads after logging them. A closed connection ends
// the stream; there is no automatic reconnect; the user re-enters the
// view to resynchronize, which refetches the bootstrap and starts a
// fresh channel.
package realtime
