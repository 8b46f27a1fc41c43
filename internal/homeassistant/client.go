package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/hatui/internal/logging"
)

const (
	// DefaultURL is used when HA_URL is not set
	DefaultURL = "http://127.0.0.1:8123"

	// MaxIdleConnsPerHost bounds kept-alive connections to the server
	MaxIdleConnsPerHost = 5

	// MaxConnsPerHost bounds concurrent connections to the server
	MaxConnsPerHost = 10
)

// Timeouts holds the connect and read deadlines for one server.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

// TimeoutsFor picks deadlines by URL scheme: short for a local http:// server,
// generous for a remote https:// one.
func TimeoutsFor(baseURL string) Timeouts {
	if strings.HasPrefix(strings.ToLower(baseURL), "https://") {
		return Timeouts{Connect: 10 * time.Second, Read: 30 * time.Second}
	}
	return Timeouts{Connect: 2 * time.Second, Read: 5 * time.Second}
}

// Client talks to the Home Assistant REST API. It is safe for concurrent use;
// all calls share one pooled transport. Failed calls are never retried.
type Client struct {
	// BaseURL is the server root (e.g., "http://127.0.0.1:8123"), without a trailing slash
	BaseURL string

	// Token is sent verbatim as a bearer token
	Token string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	transport *http.Transport
}

// NewClient creates a client with the scheme-dependent timeouts.
func NewClient(baseURL, token string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	timeouts := TimeoutsFor(baseURL)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeouts.Connect,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeouts.Connect,
		ResponseHeaderTimeout: timeouts.Read,
		MaxIdleConns:          MaxIdleConnsPerHost,
		MaxIdleConnsPerHost:   MaxIdleConnsPerHost,
		MaxConnsPerHost:       MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeouts.Connect + timeouts.Read,
		},
		transport: transport,
	}
}

// TestConnection checks the URL and token with GET /api/.
func (c *Client) TestConnection(ctx context.Context) error {
	var status APIStatus
	if err := c.do(ctx, http.MethodGet, "/api/", nil, &status); err != nil {
		return err
	}
	return nil
}

// GetState fetches one entity. It returns nil, nil if the entity does not exist.
func (c *Client) GetState(ctx context.Context, entityID string) (*State, error) {
	var state State
	err := c.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil, &state)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// GetAllStates fetches every entity known to the server.
func (c *Client) GetAllStates(ctx context.Context) ([]State, error) {
	var states []State
	if err := c.do(ctx, http.MethodGet, "/api/states", nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// CallService invokes domain.service for entityID. Extras are merged into the body
// next to entity_id.
func (c *Client) CallService(ctx context.Context, domain, service, entityID string, extras map[string]any) error {
	body := serviceRequest{"entity_id": entityID}
	for k, v := range extras {
		body[k] = v
	}

	logging.LogServiceCall(domain, service, entityID, extras)

	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// Toggle invokes the generic homeassistant.toggle service.
func (c *Client) Toggle(ctx context.Context, entityID string) error {
	return c.CallService(ctx, "homeassistant", "toggle", entityID, nil)
}

// Close releases pooled connections. In-flight requests are not interrupted.
func (c *Client) Close() {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewParseError("failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		apiErr := NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
		logging.LogRequest(method, path, 0, time.Since(start), apiErr)
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		apiErr := NewStatusError(resp.StatusCode, fmt.Sprintf("%s %s returned %s", method, path, resp.Status))
		logging.LogRequest(method, path, resp.StatusCode, time.Since(start), apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		logging.LogRequest(method, path, resp.StatusCode, time.Since(start), nil)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		apiErr := NewParseError(fmt.Sprintf("failed to decode %s response", path), err)
		logging.LogRequest(method, path, resp.StatusCode, time.Since(start), apiErr)
		return apiErr
	}

	logging.LogRequest(method, path, resp.StatusCode, time.Since(start), nil)
	return nil
}
