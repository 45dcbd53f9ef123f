// Package postgrest reads listings through a hosted PostgREST endpoint
// (Supabase's /rest/v1 surface).
package postgrest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const applicationName = "corsa-api"

// ClientConfig configures the REST client.
type ClientConfig struct {
	// BaseURL is the project URL; "/rest/v1" is appended per request.
	BaseURL string

	// APIKey is sent both as the apikey header and as a bearer token.
	APIKey string

	// Schema selects the exposed schema via Accept-Profile (default: public).
	Schema string

	// Table is the listings table name (default: listings).
	Table string

	// Timeout for individual requests (default: 15s).
	Timeout time.Duration

	// RateLimit requests per second (default: 20).
	RateLimit float64

	// RateBurst maximum burst size (default: 10).
	RateBurst int

	// Transport allows injecting a custom HTTP transport (for tests/stubs).
	Transport http.RoundTripper
}

func (c *ClientConfig) applyDefaults() {
	if c.Schema == "" {
		c.Schema = "public"
	}
	if c.Table == "" {
		c.Table = "listings"
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 20
	}
	if c.RateBurst == 0 {
		c.RateBurst = 10
	}
}

// Client is a rate-limited PostgREST client. Requests are never retried.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a client. BaseURL and APIKey are required.
func NewClient(config ClientConfig) (*Client, error) {
	config.applyDefaults()
	if config.BaseURL == "" {
		return nil, fmt.Errorf("postgrest base url is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid postgrest base url: %w", err)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("postgrest api key is required")
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
	}, nil
}

// response is a fully-read HTTP response.
type response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (r *response) isSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPError is a non-2xx response from the endpoint.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// do executes one request against the table endpoint. Non-2xx responses are
// returned alongside an *HTTPError so callers can decide how strict to be.
func (c *Client) do(ctx context.Context, method string, query url.Values, headers map[string]string) (*response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := strings.TrimSuffix(c.config.BaseURL, "/") + "/rest/v1/" + url.PathEscape(c.config.Table)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept-Profile", c.config.Schema)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Application-Name", applicationName)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	out := &response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}
	if !out.isSuccess() {
		return out, &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return out, nil
}
