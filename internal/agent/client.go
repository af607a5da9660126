// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CLIENT CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the default agent service address.
	DefaultBaseURL = "http://localhost:8787"

	// DefaultChatPath is the streaming chat endpoint.
	DefaultChatPath = "/api/chat"

	// DefaultHealthPath is the health probe endpoint.
	DefaultHealthPath = "/api/health"

	// DefaultTimeout bounds non-streaming requests.
	DefaultTimeout = 30 * time.Second

	// MaxEventSize is the maximum allowed size of a single stream event
	// line. Prevents memory exhaustion from a misbehaving server.
	MaxEventSize = 1024 * 1024

	userAgent = "agentdeck/0.1.0"
)

var (
	// ErrServiceUnhealthy indicates the health probe answered success:false.
	ErrServiceUnhealthy = errors.New("agent service reported unhealthy")

	// ErrStreamClosed indicates the stream ended without a finish event.
	ErrStreamClosed = errors.New("stream closed before finish")
)

// sharedHTTPClient serves health checks and other bounded requests.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// sharedStreamingClient serves generation streams. No timeout; lifetime is
// controlled by the request context.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	},
}

// =============================================================================
// ERRORS
// =============================================================================

// APIError represents a non-2xx answer from the agent service.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("agent error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("agent error (HTTP %d)", e.Status)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the agent service. The zero value is not usable; use
// NewClient.
type Client struct {
	baseURL    string
	chatPath   string
	healthPath string
	httpClient *http.Client
	streamer   *http.Client
}

// NewClient creates a client for the given base URL. An empty base URL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		chatPath:   DefaultChatPath,
		healthPath: DefaultHealthPath,
		httpClient: sharedHTTPClient,
		streamer:   sharedStreamingClient,
	}
}

// WithChatPath overrides the chat endpoint path.
func (c *Client) WithChatPath(path string) *Client {
	c.chatPath = path
	return c
}

// WithHealthPath overrides the health endpoint path.
func (c *Client) WithHealthPath(path string) *Client {
	c.healthPath = path
	return c
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// healthResponse is the health endpoint's answer body.
type healthResponse struct {
	Success bool `json:"success"`
}

// CheckHealth performs one GET against the health endpoint. A transport
// error, a non-2xx status, or success:false all return an error. The
// caller decides what to do with the failure; the client never retries.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.healthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("EVENT | health_check | status=%d duration=%s", resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: "health endpoint"}
	}

	var health healthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxEventSize)).Decode(&health); err != nil {
		return fmt.Errorf("failed to parse health response: %w", err)
	}
	if !health.Success {
		return ErrServiceUnhealthy
	}
	return nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// chatRequest is the body POSTed to the chat endpoint. A request carries
// the transcript so far, plus an optional tool result when the turn is a
// continuation after a confirmation decision.
type chatRequest struct {
	ConversationID string       `json:"conversation_id"`
	Messages       []wireMessage `json:"messages"`
	ToolResult     *ToolResult  `json:"tool_result,omitempty"`
}

// EventCallback receives each parsed stream event in arrival order.
type EventCallback func(ev StreamEvent)

// Stream POSTs a chat request and invokes the callback for each ndjson
// event until the stream finishes, the context is canceled, or the server
// reports an error. Malformed lines are skipped. There is no retry; a
// broken stream is the caller's problem to surface.
func (c *Client) Stream(ctx context.Context, req chatRequest, callback EventCallback) error {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.chatPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.streamer.Do(httpReq)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxEventSize))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	return c.processStream(ctx, resp.Body, callback)
}

// processStream reads ndjson events line by line.
func (c *Client) processStream(ctx context.Context, body io.Reader, callback EventCallback) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxEventSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev StreamEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			// Skip malformed events rather than killing the stream.
			continue
		}

		switch ev.Type {
		case EventError:
			return fmt.Errorf("stream error: %s", ev.Error)
		case EventFinish:
			callback(ev)
			return nil
		default:
			callback(ev)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return ErrStreamClosed
}
