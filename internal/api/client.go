// Package api is the JSON client of the relocation backend. It wraps every
// endpoint, unwraps the success/error envelope and never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds connection settings for the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the backend REST API.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
	now      func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides the clock used for move-date validation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a Client for the backend at cfg.BaseURL.
func NewClient(cfg Config, observer Observer, opts ...Option) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Meta is the optional metadata of a success envelope.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

type successEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta,omitempty"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type errorEnvelope struct {
	Error *errorBody `json:"error"`
}

// do performs one request and returns the unwrapped data payload.
func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	start := time.Now()
	requestID := uuid.NewString()

	event := CallEvent{Method: method, Path: path, RequestID: requestID}
	finish := func(err error) {
		event.LatencyMs = time.Since(start).Milliseconds()
		event.Success = err == nil
		if err != nil {
			event.ErrorCode = CodeOf(err)
		}
		c.observer.OnCallComplete(event)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			err = internalError(0, fmt.Errorf("marshaling request: %w", err))
			finish(err)
			return zero, err
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		err = internalError(0, fmt.Errorf("creating request: %w", err))
		finish(err)
		return zero, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		err = internalError(0, err)
		finish(err)
		return zero, err
	}
	defer httpResp.Body.Close()
	event.Status = httpResp.StatusCode

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		err = internalError(httpResp.StatusCode, fmt.Errorf("reading response: %w", err))
		finish(err)
		return zero, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		err := decodeError(httpResp.StatusCode, respBody)
		if err.RequestID == "" {
			err.RequestID = requestID
		}
		finish(err)
		return zero, err
	}

	var env successEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		err = internalError(httpResp.StatusCode, fmt.Errorf("decoding envelope: %w", err))
		finish(err)
		return zero, err
	}
	if len(env.Data) == 0 {
		err = internalError(httpResp.StatusCode, errors.New("response envelope has no data"))
		finish(err)
		return zero, err
	}

	var result T
	if err := json.Unmarshal(env.Data, &result); err != nil {
		err = internalError(httpResp.StatusCode, fmt.Errorf("decoding data: %w", err))
		finish(err)
		return zero, err
	}

	finish(nil)
	return result, nil
}

// decodeError builds an *Error from a non-2xx body. Bodies without an error
// envelope normalize to the generic internal error.
func decodeError(status int, body []byte) *Error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return internalError(status, fmt.Errorf("status %d: %s", status, snippet(body)))
	}
	e := &Error{
		Status:    status,
		Code:      env.Error.Code,
		Message:   env.Error.Message,
		Details:   env.Error.Details,
		RequestID: env.Error.RequestID,
	}
	if e.Code == "" {
		e.Code = CodeInternal
	}
	if e.Message == "" {
		e.Message = InternalMessage
	}
	return e
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func sessionPath(sessionID string, parts ...string) string {
	p := "/sessions/" + url.PathEscape(sessionID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}
