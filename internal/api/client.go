// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chirpchat/chirp-tui/internal/model"
)

// Configuration constants for the Chirp API client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 15 * time.Second

	// MaxResponseSize bounds response bodies read into memory.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB
)

// sharedHTTPClient pools connections across all API requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Chirp REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// onTokenRefresh is called after a successful refresh-token exchange
	// so the new token pair can be persisted.
	onTokenRefresh func(access, refresh string)
}

// New creates a client for the API at baseURL (the /api prefix is appended
// per request). Tokens may be empty; calls then fail with ErrNotConfigured.
func New(baseURL, accessToken, refreshToken string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   sharedHTTPClient,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
}

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTokenRefreshHook registers a callback invoked with the new token pair
// after every successful refresh exchange.
func (c *Client) WithTokenRefreshHook(fn func(access, refresh string)) *Client {
	c.onTokenRefresh = fn
	return c
}

// IsConfigured returns true when an access token is present.
func (c *Client) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// FetchChats retrieves the conversation list (GET /api/chat/chats).
func (c *Client) FetchChats(ctx context.Context) ([]model.Chat, error) {
	var chats []model.Chat
	if err := c.call(ctx, http.MethodGet, "/chat/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// =============================================================================
// MESSAGE ENDPOINTS
// =============================================================================

// FetchMessages retrieves the full message history of a conversation
// (GET /api/message/{chatId}), oldest first.
func (c *Client) FetchMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	var msgs []model.Message
	if err := c.call(ctx, http.MethodGet, "/message/"+chatID, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// sendRequest is the body of POST /api/message.
type sendRequest struct {
	Content string `json:"content"`
	ChatID  string `json:"chatId"`
}

// SendMessage posts a new message and returns the server-confirmed record
// including its authoritative id.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) (model.Message, error) {
	var msg model.Message
	err := c.call(ctx, http.MethodPost, "/message", sendRequest{Content: content, ChatID: chatID}, &msg)
	return msg, err
}

// editRequest is the body of PUT /api/message.
type editRequest struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

// EditMessage rewrites the content of an existing message.
func (c *Client) EditMessage(ctx context.Context, messageID, content string) error {
	return c.call(ctx, http.MethodPut, "/message", editRequest{MessageID: messageID, Content: content}, nil)
}

// DeleteMessage removes a message (DELETE /api/message/{messageId}).
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.call(ctx, http.MethodDelete, "/message/"+messageID, nil, nil)
}

// =============================================================================
// TOKEN REFRESH
// =============================================================================

// refreshRequest is the body of POST /api/user/refresh-token.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshResponse is the reply to a refresh-token exchange. The server may
// rotate the refresh token; when it does not, the old one stays valid.
type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// refresh exchanges the refresh token for a new access token. Called at
// most once per request, on a 401 response.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.refreshToken
	c.mu.Unlock()
	if token == "" {
		return ErrUnauthorized
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: token})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/user/refresh-token", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: refresh token rejected", ErrUnauthorized)
	}

	var rr refreshResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return fmt.Errorf("failed to parse refresh response: %w", err)
	}
	if rr.AccessToken == "" {
		return fmt.Errorf("%w: refresh response had no access token", ErrUnauthorized)
	}

	c.mu.Lock()
	c.accessToken = rr.AccessToken
	if rr.RefreshToken != "" {
		c.refreshToken = rr.RefreshToken
	}
	access, refreshed := c.accessToken, c.refreshToken
	hook := c.onTokenRefresh
	c.mu.Unlock()

	if hook != nil {
		hook(access, refreshed)
	}
	return nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// call performs one API request, decoding the JSON reply into out when out
// is non-nil. On a 401 it refreshes the token pair once and retries.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	resp, data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		resp, data, err = c.do(ctx, method, path, body)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, path, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
	}
	return nil
}

// do performs a single HTTP request against /api and reads the body.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	log.Printf("api: %s %s -> %d (%v)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	data, err := readBody(resp)
	if err != nil {
		return nil, nil, err
	}
	return resp, data, nil
}

// readBody reads a response body with a size bound.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", int64(MaxResponseSize))
	}
	return data, nil
}

// apiErrorResponse is the error envelope the server uses.
type apiErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorFromResponse maps an HTTP error response onto the error taxonomy.
func errorFromResponse(status int, path string, body []byte) error {
	msg := ""
	var er apiErrorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if er.Message != "" {
			msg = er.Message
		} else {
			msg = er.Error
		}
	}

	switch status {
	case http.StatusUnauthorized:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return ErrNotFound
	default:
		return &APIError{Status: status, Path: path, Message: msg}
	}
}
