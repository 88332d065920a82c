// Package api implements the HTTP client for the GadgetLoop storefront
// backend. It owns bearer authentication, JSON encoding, and the mapping from
// transport and status failures onto the error taxonomy consumed by the
// stores.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gadgetloop/storefront/internal/errors"
	"github.com/gadgetloop/storefront/internal/log"
)

// DefaultTimeout is the transport-level timeout applied when the caller does
// not supply one. The stores apply no timeout of their own.
const DefaultTimeout = 30 * time.Second

// Client is the storefront backend API client.
//
// The bearer token is a single process-wide value replaced wholesale by
// login/logout; readers take a snapshot at call time and must not assume it
// is stable across an async boundary.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new storefront API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer credential attached to authenticated requests.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns a snapshot of the current bearer credential.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether a bearer credential is currently set.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

// Do performs an HTTP request against the backend and decodes the JSON
// response into out (which may be nil for opaque-success endpoints).
//
// Failures are normalized onto the error taxonomy:
//   - transport errors and 5xx responses become REMOTE-001 (unavailable)
//   - 401/403 become AUTH-001 (unauthenticated)
//   - other 4xx become REMOTE-002 (rejected), upgraded to a recognized
//     rejection code when the payload matches a known gateway reason
//   - undecodable success bodies become REMOTE-003 (malformed response)
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The caller cannot distinguish "bad token" from "server
		// unreachable" here; both degrade the same way upstream.
		return errors.NewRemoteUnavailableError(method+" "+path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api response", "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(method+" "+path, resp)
	}

	if out == nil {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewRemoteUnavailableError(method+" "+path, err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.NewMalformedResponseError(method+" "+path, err)
	}

	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// errorBody is the error payload shape the backend produces on 4xx.
// The gateway nests its own reasons under "error".
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		ErrorKey string `json:"error_key"`
		Detail   string `json:"detail"`
	} `json:"error"`
}

func (c *Client) statusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode >= 500:
		return errors.NewRemoteUnavailableError(operation,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.NewUnauthenticatedError(operation)
	}

	var payload errorBody
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != nil {
		detail := payload.Error.Detail
		switch {
		case payload.Error.ErrorKey == "validation_error" && strings.Contains(detail, "Amount should be between"):
			return errors.NewAmountOutOfRangeError()
		case strings.Contains(detail, "Invalid token"):
			return errors.NewGatewayTokenInvalidError()
		}
	}

	// Unrecognized 4xx payloads fall back to the generic rejection message.
	return errors.NewRejectedError(operation, payload.Message)
}
