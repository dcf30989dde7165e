// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/bureau-foundation/parlor/lib/netutil"
	"github.com/bureau-foundation/parlor/messaging"
)

// NotificationStream consumes the per-account notification channel.
type NotificationStream struct {
	*stream[Notification]
}

// DialNotifications opens the notification channel for the account
// identified by dbKey. Events arrive on Events until the connection
// ends; there is no automatic reconnect.
func DialNotifications(ctx context.Context, client *messaging.Client, dbKey string, logger *slog.Logger) (*NotificationStream, error) {
	s, err := dial(ctx, client.WebSocketURL("rooms/notificationServer/"+dbKey),
		"notifications", DecodeNotification, logger)
	if err != nil {
		return nil, err
	}
	return &NotificationStream{stream: s}, nil
}

// RoomStream consumes the per-visit room channel.
type RoomStream struct {
	*stream[RoomEvent]
}

// DialRoom opens the room channel for a room key obtained from the
// connect endpoint. Events arrive on Events until the connection ends;
// there is no automatic reconnect.
func DialRoom(ctx context.Context, client *messaging.Client, roomKey string, logger *slog.Logger) (*RoomStream, error) {
	s, err := dial(ctx, client.WebSocketURL("rooms/room_ws/"+roomKey),
		"room", DecodeRoomEvent, logger)
	if err != nil {
		return nil, err
	}
	return &RoomStream{stream: s}, nil
}

// stream owns one WebSocket connection and a goroutine that decodes
// incoming payloads onto a channel. Malformed payloads are logged and
// dropped; the stream stays up. Read errors end the stream: Events is
// closed and Err reports the cause, nil for a deliberate Close or a
// normal remote close.
type stream[T any] struct {
	conn    *websocket.Conn
	events  chan T
	logger  *slog.Logger
	channel string

	closeOnce sync.Once
	closed    chan struct{}

	mu  sync.Mutex
	err error
}

func dial[T any](ctx context.Context, url, channel string, decode func([]byte) (T, error), logger *slog.Logger) (*stream[T], error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime: dialing %s channel: %w", channel, err)
	}

	s := &stream[T]{
		conn:    conn,
		events:  make(chan T, 16),
		logger:  logger,
		channel: channel,
		closed:  make(chan struct{}),
	}
	go s.readLoop(decode)
	logger.Debug("channel connected", "channel", channel)
	return s, nil
}

func (s *stream[T]) readLoop(decode func([]byte) (T, error)) {
	defer close(s.events)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.finish(err)
			return
		}
		event, err := decode(payload)
		if err != nil {
			s.logger.Warn("dropping malformed payload",
				"channel", s.channel, "error", err)
			continue
		}
		select {
		case s.events <- event:
		case <-s.closed:
			s.finish(nil)
			return
		}
	}
}

// finish records the stream outcome. Deliberate closes and normal
// connection teardown are not errors.
func (s *stream[T]) finish(err error) {
	select {
	case <-s.closed:
		err = nil
	default:
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		netutil.IsExpectedCloseError(err) {
		err = nil
	}
	if err != nil {
		s.logger.Warn("channel read failed", "channel", s.channel, "error", err)
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Events returns the decoded event channel. It is closed when the
// connection ends.
func (s *stream[T]) Events() <-chan T {
	return s.events
}

// Err reports why the stream ended, nil for a deliberate Close or a
// normal remote close. Only meaningful after Events is closed.
func (s *stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the connection down. The read loop exits and Events is
// closed. Safe to call multiple times and concurrently with reads.
func (s *stream[T]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		// Best effort: tell the service we are leaving before
		// dropping the TCP connection.
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteMessage(websocket.CloseMessage, message)
		err = s.conn.Close()
	})
	return err
}
