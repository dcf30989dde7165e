// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/parlor/lib/netutil"
	"github.com/bureau-foundation/parlor/lib/ref"
)

// Client-side limits mirroring the service's validation rules, checked
// before a request is sent so the user gets immediate feedback.
const (
	// MinPasswordLength is the shortest accepted account or room
	// password.
	MinPasswordLength = 5

	// MinRoomNameLength and MaxRoomNameLength bound room display
	// names.
	MinRoomNameLength = 5
	MaxRoomNameLength = 16

	// MinRoomUsers and MaxRoomUsers bound room capacity. The service
	// silently clamps out-of-range values, so the client clamps too
	// rather than rejecting.
	MinRoomUsers = 2
	MaxRoomUsers = 5

	// MaxMessageLength is the longest accepted chat message, in
	// characters.
	MaxMessageLength = 1024
)

// ClientConfig configures a Client. ServerURL is required; everything
// else has sensible defaults.
type ClientConfig struct {
	// ServerURL is the base URL of the chat service, e.g.
	// "https://chat.example.net". A trailing slash is tolerated.
	ServerURL string

	// HTTPClient is the HTTP client for requests. Defaults to a
	// client with a 30-second timeout for API calls; file transfers
	// use an untimed client and rely on the request context, so a
	// large upload or download is not cut off mid-stream. Providing
	// HTTPClient replaces both.
	HTTPClient *http.Client

	// Logger receives structured logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the chat service's unauthenticated endpoints and
// mints authenticated Sessions via Login.
type Client struct {
	serverURL string
	logger    *slog.Logger

	httpClient     *http.Client
	transferClient *http.Client
}

// NewClient validates the configuration and returns a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	parsed, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("messaging: invalid server URL %q: %w", cfg.ServerURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("messaging: server URL %q must use http or https", cfg.ServerURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("messaging: server URL %q has no host", cfg.ServerURL)
	}

	httpClient := cfg.HTTPClient
	transferClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
		transferClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		serverURL:      strings.TrimRight(cfg.ServerURL, "/"),
		httpClient:     httpClient,
		transferClient: transferClient,
		logger:         logger,
	}, nil
}

// ServerURL returns the configured base URL without a trailing slash.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// WebSocketURL returns the ws:// or wss:// URL for a channel path
// under the service, e.g. "rooms/room_ws/<key>".
func (c *Client) WebSocketURL(path string) string {
	wsBase := c.serverURL
	if strings.HasPrefix(wsBase, "https://") {
		wsBase = "wss://" + strings.TrimPrefix(wsBase, "https://")
	} else {
		wsBase = "ws://" + strings.TrimPrefix(wsBase, "http://")
	}
	return wsBase + "/" + path
}

// Ping checks that the service is reachable and responding. The
// service's root endpoint exists for exactly this.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.getJSON(ctx, ""); err != nil {
		return fmt.Errorf("messaging: pinging service: %w", err)
	}
	return nil
}

// CreateAccount registers a new account and returns the credential key
// identifying it. The caller still needs Login to obtain a session.
func (c *Client) CreateAccount(ctx context.Context, username, password string) (string, error) {
	if err := ref.ValidateNewUsername(username); err != nil {
		return "", fmt.Errorf("messaging: %w", err)
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	body, err := c.postJSON(ctx, "accounts/create", createAccountRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("messaging: creating account: %w", err)
	}
	response, err := unmarshalBody[createAccountResponse](body)
	if err != nil {
		return "", err
	}
	c.logger.Info("account created", "username", username)
	return response.DBKey, nil
}

// Login authenticates and returns a Session carrying the credential
// pair for subsequent operations.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	body, err := c.postJSON(ctx, "accounts/login", loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("messaging: logging in: %w", err)
	}
	response, err := unmarshalBody[loginResponse](body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("logged in", "username", username)
	return c.Session(response.DBKey, response.SessionID, username), nil
}

// Session wraps previously obtained credentials without a login round
// trip. Used when restoring a saved session from disk.
func (c *Client) Session(dbKey, sessionID, username string) *Session {
	return &Session{
		client:   c,
		username: username,
		auth:     auth{DBKey: dbKey, SessionID: sessionID},
	}
}

// postJSON sends a JSON POST to the given service path and returns the
// response body after envelope validation. A rejected operation comes
// back as *APIError.
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.serverURL+"/"+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(request)
}

// getJSON sends a GET to the given service path and returns the
// response body after envelope validation.
func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.serverURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	return c.do(request)
}

// do executes the request and checks the response envelope. The
// service does not use HTTP status codes consistently (a rejected
// room operation can arrive with 200), so the envelope's status field
// is authoritative and the HTTP code only informational.
func (c *Client) do(request *http.Request) ([]byte, error) {
	return c.doWith(c.httpClient, request)
}

func (c *Client) doWith(httpClient *http.Client, request *http.Request) ([]byte, error) {
	response, err := httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer response.Body.Close()
	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (HTTP %d): %s",
			response.StatusCode, netutil.ErrorBody(body))
	}
	if !env.Status {
		return nil, &APIError{ErrMsg: env.ErrMsg, StatusCode: response.StatusCode}
	}
	return body, nil
}

// download executes the request expecting a binary body and streams it
// to w. A JSON body means the service rejected the request.
func (c *Client) download(request *http.Request, w io.Writer) (int64, error) {
	response, err := c.transferClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("sending request: %w", err)
	}
	defer response.Body.Close()

	contentType := response.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		body, err := netutil.ReadResponse(response.Body)
		if err != nil {
			return 0, fmt.Errorf("reading response body: %w", err)
		}
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && !env.Status {
			return 0, &APIError{ErrMsg: env.ErrMsg, StatusCode: response.StatusCode}
		}
		return 0, fmt.Errorf("unexpected response (HTTP %d): %s",
			response.StatusCode, netutil.ErrorBody(body))
	}

	written, err := io.Copy(w, response.Body)
	if err != nil {
		return written, fmt.Errorf("streaming response body: %w", err)
	}
	return written, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("messaging: password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func validateRoomName(name string) error {
	length := utf8.RuneCountInString(name)
	if length < MinRoomNameLength || length > MaxRoomNameLength {
		return fmt.Errorf("messaging: room name must be %d-%d characters",
			MinRoomNameLength, MaxRoomNameLength)
	}
	return nil
}
