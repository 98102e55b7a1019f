package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophboard/internal/client/models"
	"github.com/dmitrijs2005/gophboard/internal/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	RequestIDHeaderName = "X-Request-ID"

	maxErrorBody = 64 << 10
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu          sync.RWMutex
	tokens      TokenSource
	invalidated []Invalidator
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests use the one
// from httptest.Server).
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// NewHTTPClient builds a client for the API rooted at baseURL. timeout
// bounds each request; zero means no limit.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource swaps the token source, e.g. once the session store is built.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// Subscribe registers inv to be notified of authentication failures.
func (c *HTTPClient) Subscribe(inv Invalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, inv)
}

func (c *HTTPClient) token() (string, bool) {
	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts == nil {
		return "", false
	}
	return ts.Token()
}

func (c *HTTPClient) invalidate(ctx context.Context) {
	c.mu.RLock()
	subs := append([]Invalidator(nil), c.invalidated...)
	c.mu.RUnlock()
	for _, s := range subs {
		s.Invalidate(ctx)
	}
}

type callOptions struct {
	query          url.Values
	noInvalidation bool
}

type CallOption func(*callOptions)

// WithQuery adds query parameters to the request.
func WithQuery(q url.Values) CallOption {
	return func(o *callOptions) { o.query = q }
}

// WithoutInvalidation keeps a 401 on this call from tearing down the session.
func WithoutInvalidation() CallOption {
	return func(o *callOptions) { o.noInvalidation = true }
}

func (c *HTTPClient) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, opts ...CallOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// Do sends one request. body, when non-nil, is JSON encoded; out, when
// non-nil, receives the decoded JSON response.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	req, err := c.newRequest(ctx, method, path, body, o.query)
	if err != nil {
		return err
	}
	requestID := req.Header.Get(RequestIDHeaderName)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		apiErr.Detail = readDetail(resp.Body)

		if resp.StatusCode == http.StatusUnauthorized && !o.noInvalidation {
			c.log.Warn(ctx, "request rejected as unauthenticated, invalidating session",
				"method", method, "path", path, "request_id", requestID)
			c.invalidate(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any, query url.Values) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeaderName, uuid.NewString())

	if tok, ok := c.token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// readDetail extracts the "detail" string of an error body, if any.
func readDetail(r io.Reader) string {
	var body models.ErrorBody
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return ""
	}
	d, _ := body.DetailText()
	return d
}
