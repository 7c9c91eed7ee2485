package nsxt

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/imamik/vcdmigrate/internal/config"
	"github.com/imamik/vcdmigrate/internal/platform/vcd"
	"github.com/imamik/vcdmigrate/internal/util/retry"
)

// RealClient is the REST implementation of the API interface. The NSX-T
// manager API authenticates every request with basic auth; there is no
// session to establish or tear down.
type RealClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	timeouts   *config.Timeouts
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

// NewRealClient creates an NSX-T manager client for the configured
// endpoint.
func NewRealClient(cfg config.NSXTConfig, opts ...Option) *RealClient {
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
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type computeManagerList struct {
	ResultCount int `json:"result_count"`
	Results     []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"results"`
}

// GetComputeManagers probes the manager: a successful listing proves the
// endpoint is reachable and the credentials are valid.
func (c *RealClient) GetComputeManagers(ctx context.Context) error {
	var list computeManagerList
	if err := c.get(ctx, "/api/v1/fabric/compute-managers", &list); err != nil {
		return err
	}
	if list.ResultCount == 0 {
		return &OperationError{
			Op:  "discover compute managers",
			Err: fmt.Errorf("no compute managers registered with NSX-T"),
		}
	}
	return nil
}

type bridgeEndpointList struct {
	Results []bridgeEndpoint `json:"results"`
}

type bridgeEndpoint struct {
	ID              string `json:"id"`
	ProfileID       string `json:"bridge_endpoint_profile_id"`
	LogicalSwitchID string `json:"logical_switch_id"`
}

// ClearBridging removes the bridge endpoints of every given network and
// then the bridge endpoint profiles they referenced. The backing network
// id of an org VDC network is its NSX-T logical switch id. Networks
// without a bridge endpoint are skipped.
func (c *RealClient) ClearBridging(ctx context.Context, networks []vcd.OrgVDCNetwork) error {
	profileIDs := make(map[string]bool)

	for _, network := range networks {
		if network.BackingNetworkID == "" {
			continue
		}

		var endpoints bridgeEndpointList
		path := "/api/v1/bridge-endpoints?logical_switch_id=" + url.QueryEscape(network.BackingNetworkID)
		if err := c.get(ctx, path, &endpoints); err != nil {
			return &OperationError{Op: fmt.Sprintf("list bridge endpoints for network %s", network.Name), Err: err}
		}

		for _, endpoint := range endpoints.Results {
			if err := c.delete(ctx, "/api/v1/bridge-endpoints/"+endpoint.ID); err != nil {
				return &OperationError{Op: fmt.Sprintf("delete bridge endpoint %s", endpoint.ID), Err: err}
			}
			if endpoint.ProfileID != "" {
				profileIDs[endpoint.ProfileID] = true
			}
		}
	}

	for profileID := range profileIDs {
		if err := c.delete(ctx, "/api/v1/bridge-endpoint-profiles/"+profileID); err != nil {
			return &OperationError{Op: fmt.Sprintf("delete bridge endpoint profile %s", profileID), Err: err}
		}
	}
	return nil
}

// get performs a GET with retry on transport and server-side failures.
func (c *RealClient) get(ctx context.Context, path string, out any) error {
	return retry.Do(ctx, func() error {
		payload, err := c.request(ctx, http.MethodGet, path)
		if err != nil {
			return classify(err)
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

// delete performs a DELETE without retry: bridge teardown is not
// idempotent enough to re-issue blindly.
func (c *RealClient) delete(ctx context.Context, path string) error {
	_, err := c.request(ctx, http.MethodDelete, path)
	return err
}

func (c *RealClient) request(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Endpoint: c.baseURL, Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
	case resp.StatusCode >= 500:
		return nil, &transientError{status: resp.StatusCode, body: string(payload)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return payload, nil
}

type transientError struct {
	status int
	body   string
}

func (e *transientError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.status, strings.TrimSpace(e.body))
}

// classify decides retryability: network and server-side errors are
// transient, everything else is fatal.
func classify(err error) error {
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
