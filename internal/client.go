package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoginPath is the login view; 401s seen while on it do not tear the session down
const LoginPath = "/login"

// UnauthorizedEvent is emitted by the API client after a 401 outside the login view
type UnauthorizedEvent struct {
	Method string
	Path   string
}

// APIClient is the single HTTP client shared by every accessor
type APIClient struct {
	baseURL  string
	http     *http.Client
	tokens   TokenStore
	location Location

	mu          sync.Mutex
	subscribers map[int]func(UnauthorizedEvent)
	nextID      int
}

// NewAPIClient binds a client to cfg.BaseURL. location may be nil, in which case every 401 is reported.
func NewAPIClient(cfg APIConfig, tokens TokenStore, location Location) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &APIClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		tokens:      tokens,
		location:    location,
		subscribers: make(map[int]func(UnauthorizedEvent)),
	}
}

// BaseURL returns the API root
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// OnUnauthorized registers fn for 401 events and returns its unsubscribe func
func (c *APIClient) OnUnauthorized(fn func(UnauthorizedEvent)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *APIClient) emitUnauthorized(ev UnauthorizedEvent) {
	if c.location != nil && c.location.Current() == LoginPath {
		return
	}

	c.mu.Lock()
	subs := make([]func(UnauthorizedEvent), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	LogWarn("Unauthorized response for %s %s, ending session", ev.Method, ev.Path)
	for _, fn := range subs {
		fn(ev)
	}
}

// Do sends one request. body (if non-nil) is JSON-encoded; a 2xx body is decoded into out (if non-nil).
// Every failure is returned as *APIError.
func (c *APIClient) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		LogDebug("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return &APIError{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	LogDebug("%s %s -> %d (%s, request %s)", method, path, resp.StatusCode, time.Since(start), req.Header.Get("X-Request-ID"))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Status: resp.StatusCode, Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Kind:   KindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Detail: parseDetail(data),
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
		if apiErr.Kind == KindUnauthorized {
			c.emitUnauthorized(UnauthorizedEvent{Method: method, Path: path})
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{
			Kind:   KindServer,
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindValidation, Method: method, Path: path, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			LogWarn("Could not read stored token: %v", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// parseDetail extracts "detail" from an error body: either a string or a list of {msg}
func parseDetail(data []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		for _, item := range items {
			if item.Msg != "" {
				return item.Msg
			}
		}
	}
	return ""
}
