package vcd

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/imamik/vcdmigrate/internal/config"
	"github.com/imamik/vcdmigrate/internal/util/retry"
)

// apiVersion is the Cloud Director API version the client negotiates.
const apiVersion = "35.0"

// acceptJSON requests the JSON rendering of the legacy API.
const acceptJSON = "application/*+json;version=" + apiVersion

// tokenHeader carries the bearer token issued at login.
const tokenHeader = "X-VMWARE-VCLOUD-ACCESS-TOKEN"

// RealClient is the REST implementation of the API interface.
type RealClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	timeouts   *config.Timeouts

	mu       sync.Mutex
	token    string
	idCache  map[string]string
	netCache map[string][]OrgVDCNetwork
}

var _ API = (*RealClient)(nil)

// Option configures a RealClient.
type Option func(*RealClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RealClient) { c.httpClient = hc }
}

// WithTimeouts replaces the timeout configuration.
func WithTimeouts(t *config.Timeouts) Option {
	return func(c *RealClient) {
		c.timeouts = t
		c.httpClient.Timeout = t.HTTP
	}
}

// WithBaseURL overrides the API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(u string) Option {
	return func(c *RealClient) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewRealClient creates a Cloud Director client for the configured
// endpoint. Login must be called before any other operation.
func NewRealClient(cfg config.VCDConfig, opts ...Option) *RealClient {
	timeouts := config.LoadTimeouts()
	transport := http.DefaultTransport
	if cfg.Insecure {
		// #nosec G402 -- lab endpoints with self-signed certificates
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}

	c := &RealClient{
		baseURL:  "https://" + cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout:   timeouts.HTTP,
			Transport: transport,
		},
		timeouts: timeouts,
		idCache:  make(map[string]string),
		netCache: make(map[string][]OrgVDCNetwork),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates against the provider session endpoint and stores
// the issued bearer token.
func (c *RealClient) Login(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sessions", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", acceptJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Endpoint: c.baseURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{Endpoint: c.baseURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	token := resp.Header.Get(tokenHeader)
	if token == "" {
		return &AuthError{Endpoint: c.baseURL, Err: fmt.Errorf("no %s header in login response", tokenHeader)}
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// Logout terminates the current API session.
func (c *RealClient) Logout(ctx context.Context) error {
	_, _, err := c.request(ctx, http.MethodDelete, "/api/session", nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	return nil
}

func (c *RealClient) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// absolute joins a path with the base URL, leaving full URLs untouched
// (task and entity hrefs come back absolute).
func (c *RealClient) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

// request performs a single HTTP exchange and decodes a JSON body into
// out when out is non-nil. It returns the response headers so callers
// can pick up task locations from 202 responses.
func (c *RealClient) request(ctx context.Context, method, path string, body any) (http.Header, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.absolute(path), reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", acceptJSON)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, nil, &AuthError{Endpoint: c.baseURL, Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
	case resp.StatusCode >= 500:
		return nil, nil, &transientError{status: resp.StatusCode, body: string(payload)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, nil, &OperationError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))),
		}
	}

	return resp.Header, payload, nil
}

// transientError marks a server-side failure eligible for retry.
type transientError struct {
	status int
	body   string
}

func (e *transientError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.status, strings.TrimSpace(e.body))
}

// get performs a GET with retry on transport and server-side failures.
// Client-side failures (auth, not found, validation) are not retried.
func (c *RealClient) get(ctx context.Context, path string, out any) error {
	return retry.Do(ctx, func() error {
		_, payload, err := c.request(ctx, http.MethodGet, path, nil)
		if err != nil {
			var transient *transientError
			if errors.As(err, &transient) {
				return err
			}
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				return err
			}
			return retry.Fatal(err)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return retry.Fatal(fmt.Errorf("parse response from %s: %w", path, err))
		}
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
	)
}

// task is the Cloud Director task representation polled by waitTask.
type task struct {
	HREF      string     `json:"href"`
	Status    string     `json:"status"`
	Operation string     `json:"operation"`
	Error     *taskError `json:"error"`
}

type taskError struct {
	Message string `json:"message"`
}

// mutate issues a mutating request and, when the API answers with an
// asynchronous task (202), waits for it to finish.
func (c *RealClient) mutate(ctx context.Context, op, method, path string, body any) error {
	header, payload, err := c.request(ctx, method, path, body)
	if err != nil {
		if IsAuth(err) || IsOperation(err) {
			return err
		}
		return &OperationError{Op: op, Err: err}
	}

	taskURL := header.Get("Location")
	if taskURL == "" && len(payload) > 0 {
		var t task
		if json.Unmarshal(payload, &t) == nil && t.HREF != "" {
			taskURL = t.HREF
		}
	}
	if taskURL == "" {
		// Synchronous completion.
		return nil
	}

	if err := c.waitTask(ctx, taskURL); err != nil {
		return &OperationError{Op: op, Err: err}
	}
	return nil
}

// waitTask polls the task until it reaches a terminal state or the task
// deadline expires.
func (c *RealClient) waitTask(ctx context.Context, taskURL string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Task)
	defer cancel()

	ticker := time.NewTicker(c.timeouts.TaskPollInterval)
	defer ticker.Stop()

	for {
		var t task
		if err := c.get(ctx, taskURL, &t); err != nil {
			return fmt.Errorf("poll task: %w", err)
		}

		switch t.Status {
		case "success":
			return nil
		case "error", "aborted", "canceled":
			reason := t.Status
			if t.Error != nil && t.Error.Message != "" {
				reason = t.Error.Message
			}
			return fmt.Errorf("task %s: %s", t.Operation, reason)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for task %s: %w", t.Operation, ctx.Err())
		case <-ticker.C:
		}
	}
}

// queryRecords pages through the typed query service for the given
// record type and filter expression.
func queryRecords[T any](ctx context.Context, c *RealClient, recordType, filter string) ([]T, error) {
	var all []T
	page := 1

	for {
		path := fmt.Sprintf("/api/query?type=%s&pageSize=128&page=%d", recordType, page)
		if filter != "" {
			path += "&filter=" + url.QueryEscape(filter)
		}

		var result struct {
			Record []T   `json:"record"`
			Total  int64 `json:"total"`
		}
		if err := c.get(ctx, path, &result); err != nil {
			return nil, fmt.Errorf("query %s: %w", recordType, err)
		}

		all = append(all, result.Record...)
		if int64(len(all)) >= result.Total || len(result.Record) == 0 {
			return all, nil
		}
		page++
	}
}

// uuidFromHref extracts the trailing identifier of an entity href.
func uuidFromHref(href string) string {
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	return parts[len(parts)-1]
}

// uuidFromURN extracts the identifier of a urn:vcloud:* id.
func uuidFromURN(urn string) string {
	parts := strings.Split(urn, ":")
	return parts[len(parts)-1]
}
