// Package hubapi is the typed HTTP client for the reading hub backend.
//
// Every response is wrapped in an envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": "paper not found"}
//
// which the client decodes into the concrete type of each call. Failures
// come back as *Error with a Kind; callers that only need to show a
// message can use err.Error().
package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ohare93/readhub/internal/hub"
	"golang.org/x/time/rate"
)

const (
	maxResponseBytes = 4 << 20
	userAgent        = "readhub/1.0"

	// HeaderRequestID carries the client-generated id of each request.
	HeaderRequestID = "X-Request-ID"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond int // 0 disables client-side rate limiting
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client talks to the hub's REST API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a client from options.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = time.Duration(hub.DefaultTimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		baseURL: base,
		token:   opts.Token,
		http:    httpClient,
		logger:  logger,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.RequestsPerSecond)
	}
	return c, nil
}

// NewFromConfig creates a client from the loaded configuration.
func NewFromConfig(cfg *hub.Config, logger *slog.Logger) (*Client, error) {
	return New(Options{
		BaseURL:           cfg.BaseURL,
		Token:             cfg.Token,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
}

// BaseURL returns the hub address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// envelope is the wire shape of every hub response.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// call performs one request and decodes the envelope's data into T.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	raw, status, reqID, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return zero, err
	}

	apiErr := func(kind ErrorKind, msg string, cause error) *Error {
		return &Error{Kind: kind, Status: status, Method: method, Path: path, Message: msg, RequestID: reqID, Err: cause}
	}

	if status == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		if status >= 300 {
			return zero, apiErr(kindForStatus(status), "", nil)
		}
		return zero, nil
	}

	var env envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if status >= 300 {
		msg := ""
		if decodeErr == nil {
			msg = env.Error
		}
		return zero, apiErr(kindForStatus(status), msg, nil)
	}
	if decodeErr != nil {
		return zero, apiErr(KindInvalidResponse, "could not decode response", decodeErr)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "hub reported failure"
		}
		return zero, apiErr(KindServer, msg, nil)
	}
	return env.Data, nil
}

// do sends the request and returns the raw body and status.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, string, error) {
	reqID := uuid.New().String()
	fail := func(kind ErrorKind, msg string, cause error) error {
		return &Error{Kind: kind, Method: method, Path: path, Message: msg, RequestID: reqID, Err: cause}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, reqID, fail(contextKind(ctx), "", err)
		}
	}

	u, err := url.Parse(c.baseURL.String() + path)
	if err != nil {
		return nil, 0, reqID, fail(KindBadRequest, "failed to build url", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, reqID, fail(KindBadRequest, "failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, reqID, fail(KindBadRequest, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderRequestID, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindNetwork
		if ctx.Err() != nil {
			kind = contextKind(ctx)
		}
		c.logger.Warn("hub request failed",
			"request_id", reqID, "method", method, "path", path,
			"duration", time.Since(start), "kind", kind.String(), "error", err)
		return nil, 0, reqID, fail(kind, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, reqID, fail(KindNetwork, "failed to read response", err)
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "hub request",
		"request_id", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	return raw, resp.StatusCode, reqID, nil
}

func contextKind(ctx context.Context) ErrorKind {
	if errors.Is(ctx.Err(), context.Canceled) {
		return KindCanceled
	}
	return KindNetwork
}

// apiPath builds an escaped API path. Each part is one segment, so arXiv
// ids such as hep-th/9901001 stay intact.
func apiPath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}
	return "/api/" + strings.Join(escaped, "/")
}
