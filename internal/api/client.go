// Package api provides the HTTP client for communicating with the Storefront API.
//
// Every call goes through Client.Do. When the backend answers 401 the client
// hands the request to a Coordinator, which renews the access credential at
// most once for all concurrent callers and replays each request once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-labs/storefront-cli/internal/logging"
)

// DefaultTimeout bounds a single request
const DefaultTimeout = 30 * time.Second

// HTTPDoer executes HTTP requests. *http.Client satisfies it; credential
// transport (cookie jar or bearer header) lives there, not in Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an HTTP client for the Storefront API
type Client struct {
	baseURL     string
	httpClient  HTTPDoer
	coordinator *Coordinator
	logger      *slog.Logger
	metrics     *Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithCoordinator enables transparent credential renewal
func WithCoordinator(coord *Coordinator) Option {
	return func(c *Client) {
		c.coordinator = coord
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:  logging.NewNop(),
		metrics: NewMetrics(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues req and returns the response body of a 2xx answer unmodified.
// A first 401 goes to the coordinator; a 401 on a replayed request returns
// ErrAuthExpired. Everything else fails with *RequestFailedError.
func (c *Client) Do(ctx context.Context, req *Request) ([]byte, error) {
	status, body, err := c.send(ctx, req)
	if err != nil {
		c.metrics.Requests.WithLabelValues(outcomeTransport).Inc()
		return nil, &RequestFailedError{Err: err}
	}

	switch {
	case status >= 200 && status < 300:
		c.metrics.Requests.WithLabelValues(outcomeSuccess).Inc()
		return body, nil

	case status == http.StatusUnauthorized:
		c.metrics.Requests.WithLabelValues(outcomeUnauthorized).Inc()
		if req.Retried() || c.coordinator == nil {
			c.logger.Debug("request unauthorized after renewal", "request_id", req.ID, "path", req.Path)
			return nil, ErrAuthExpired
		}
		return c.coordinator.HandleUnauthorized(ctx, req, func(ctx context.Context) ([]byte, error) {
			return c.Do(ctx, req)
		})

	default:
		c.metrics.Requests.WithLabelValues(outcomeFailed).Inc()
		return nil, newStatusError(status, body)
	}
}

// send performs exactly one HTTP round trip for req
func (c *Client) send(ctx context.Context, req *Request) (int, []byte, error) {
	url := c.baseURL + req.Path
	if len(req.Query) > 0 {
		url += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"request_id", req.ID,
		"attempt", req.CredentialAttempts(),
	)

	return resp.StatusCode, respBody, nil
}

func newStatusError(status int, body []byte) *RequestFailedError {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &RequestFailedError{StatusCode: status, Message: errResp.Message}
	}
	return &RequestFailedError{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status %d", status),
	}
}

// Request performs an API call and decodes a JSON response into result
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	return c.decode(ctx, NewRequest(method, path, body), result)
}

func (c *Client) decode(ctx context.Context, req *Request, result interface{}) error {
	respBody, err := c.Do(ctx, req)
	if err != nil {
		return err
	}

	// Parse response if result is provided
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.Request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.Request(ctx, http.MethodPost, path, body, result)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.Request(ctx, http.MethodPut, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.Request(ctx, http.MethodDelete, path, nil, result)
}
