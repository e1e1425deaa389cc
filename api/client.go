package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 1 << 20
)

// TokenSource supplies the bearer token of the current session, empty when anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to [TokenSource].
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string { return f() }

// Observer receives one observation per completed request. route is the path template,
// status is 0 for transport failures.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Options configures a [Client].
type Options struct {
	// BaseURL is the backend root, e.g. http://localhost:5000/api.
	BaseURL string
	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Defaults to 30s.
	Timeout time.Duration
	Tokens  TokenSource
	// OnUnauthorized runs after every 401 response, before the error is returned.
	OnUnauthorized func(ctx context.Context, err *Error)
	Observer       Observer
	Logger         *zap.Logger
	UserAgent      string
}

// Client issues requests against the campus backend. It is safe for concurrent use.
type Client struct {
	base           *url.URL
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func(context.Context, *Error)
	observer       Observer
	log            *zap.Logger
	userAgent      string
	newID          func() string
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}

	return &Client{
		base:           base,
		http:           hc,
		tokens:         tokens,
		onUnauthorized: opts.OnUnauthorized,
		observer:       opts.Observer,
		log:            logger,
		userAgent:      opts.UserAgent,
		newID:          uuid.NewString,
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// segment escapes one caller-supplied path segment.
func segment(route, s string) (string, error) {
	switch strings.TrimSpace(s) {
	case "", ".", "..":
		return "", oops.Code("API_PATH").With("path", route).
			Wrap(fmt.Errorf("%w: %q", ErrInvalidPathSegment, s))
	}
	return url.PathEscape(s), nil
}

// call describes one endpoint invocation.
type call struct {
	method string
	// route is the path template used for metrics, path the concrete path.
	route string
	// path is already escaped.
	path  string
	query url.Values
	body  any
	// public calls never carry the bearer token.
	public   bool
	fallback string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	var reader io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return oops.Code("API_ENCODE").With("path", cl.route).Wrap(err)
		}
		reader = bytes.NewReader(data)
	}

	target := *c.base
	target.RawPath = c.base.EscapedPath() + cl.path
	unescaped, err := url.PathUnescape(target.RawPath)
	if err != nil {
		return oops.Code("API_REQUEST").With("path", cl.route).Wrap(err)
	}
	target.Path = unescaped
	if len(cl.query) > 0 {
		target.RawQuery = cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target.String(), reader)
	if err != nil {
		return oops.Code("API_REQUEST").With("path", cl.route).Wrap(err)
	}
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if !cl.public {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(cl, 0, start)
		c.log.Debug("api request failed",
			zap.String("method", cl.method),
			zap.String("route", cl.route),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return oops.
			Code("API_UNREACHABLE").
			With("method", cl.method).
			With("path", cl.route).
			With("request_id", requestID).
			Wrap(fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer resp.Body.Close()
	c.observe(cl, resp.StatusCode, start)

	c.log.Debug("api request",
		zap.String("method", cl.method),
		zap.String("route", cl.route),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Status:    resp.StatusCode,
			Message:   errorMessage(resp.Body),
			RequestID: requestID,
			Method:    cl.method,
			Path:      cl.route,
		}
		if apiErr.Message == "" {
			apiErr.Message = cl.fallback
		}
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx, apiErr)
		}
		return apiErr.wrap()
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return oops.Code("API_DECODE").With("path", cl.route).Wrap(fmt.Errorf("%w: %w", ErrDecode, err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return oops.
			Code("API_DECODE").
			With("path", cl.route).
			With("request_id", requestID).
			Wrap(fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return nil
}

func (c *Client) observe(cl call, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(cl.method, cl.route, status, time.Since(start))
	}
}

// errorMessage reads the backend's {"message": "..."} error body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
