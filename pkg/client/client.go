// Package client is a typed, retry-aware client for the storefront API.
//
// Usage:
//
//	c := client.New("http://localhost:5000", client.WithRetry(3, time.Second))
//	if _, err := c.Login(ctx, "ada@example.com", "secret1"); err != nil {
//	    return err
//	}
//	page, err := c.Products(ctx, client.ProductQuery{Category: "makeup"})
//
// Every call decodes the {status,message,data,errors,error} envelope; a
// non-2xx answer comes back as *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/glamify/pkg/logger"
)

// defaultTransport is the connection-pooled transport shared by clients that
// don't bring their own http.Client.
var defaultTransport = &http.Transport{
	MaxIdleConns:        200,
	MaxIdleConnsPerHost: 100,
	IdleConnTimeout:     90 * time.Second,
}

type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	retries   int
	retryWait time.Duration

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the pooled default, e.g. with httptest's client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry configures automatic retries of idempotent requests.
// n is total attempts (1 = no retry), wait is the initial backoff (doubles each attempt).
func WithRetry(n int, wait time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryWait = wait
	}
}

// WithToken starts the client already authenticated.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Transport: defaultTransport},
		timeout:   30 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retries < 1 {
		c.retries = 1
	}
	return c
}

// SetToken sets the bearer token sent with every request. Register and Login
// call it for you.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ------------------- Errors -------------------

// APIError is a non-2xx envelope.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("storefront: %d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("storefront: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ------------------- Request -------------------

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

// Request is a single API call under construction.
type Request struct {
	c      *Client
	method string
	path   string
	query  url.Values
	body   any
}

func (c *Client) request(method, path string) *Request {
	return &Request{c: c, method: method, path: path, query: url.Values{}}
}

// Query adds a query parameter; empty values are skipped.
func (r *Request) Query(key, value string) *Request {
	if value != "" {
		r.query.Set(key, value)
	}
	return r
}

// Body sets the JSON request body.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Send executes the request and decodes the envelope's data into dest (which
// may be nil). It returns the envelope message.
func (r *Request) Send(ctx context.Context, dest any) (string, error) {
	attempts := 1
	if r.idempotent() {
		attempts = r.c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		env, err := r.do(ctx)
		if err == nil {
			return env.Message, decodeData(env, dest)
		}
		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}

		// Exponential backoff: wait * 2^(attempt-1)
		backoff := time.Duration(float64(r.c.retryWait) * math.Pow(2, float64(attempt-1)))
		logger.Warn("client: request failed, retrying",
			"path", r.path, "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", lastErr
}

// Orders and reviews are never replayed; a lost response must not place a
// second order.
func (r *Request) idempotent() bool {
	switch r.method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (r *Request) do(ctx context.Context) (*envelope, error) {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, r.c.timeout)
	defer cancel()

	target := r.c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := r.c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("client: decode envelope: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, Errors: env.Errors, Detail: env.Error}
	}
	return &env, nil
}

func decodeData(env *envelope, dest any) error {
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("client: decode data: %w", err)
	}
	return nil
}
