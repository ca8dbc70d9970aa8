package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/refmint/refmint"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRateHz    = 5.0
	defaultHandleAPI = "https://doi.org/api/handles"
)

// Client is the shared HTTP client for all metadata providers. It retries
// transient failures with exponential backoff and rate-limits outgoing
// requests across providers.
type Client struct {
	http      *pester.Client
	limiter   *rate.Limiter
	userAgent string

	// ncbiAPIKey, when set, is appended to NCBI citation exporter
	// requests to raise the per-key rate limit.
	ncbiAPIKey string

	// handleBaseURL is the handle system API used to resolve short DOIs.
	handleBaseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithNCBIAPIKey sets the API key sent to the NCBI citation exporter.
func WithNCBIAPIKey(key string) Option {
	return func(c *Client) { c.ncbiAPIKey = key }
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithHandleBaseURL overrides the handle system API endpoint.
func WithHandleBaseURL(baseURL string) Option {
	return func(c *Client) { c.handleBaseURL = strings.TrimSuffix(baseURL, "/") }
}

// NewClient returns a Client with retrying and rate limiting configured.
func NewClient(opts ...Option) *Client {
	httpClient := pester.New()
	httpClient.MaxRetries = 3
	httpClient.Backoff = pester.ExponentialBackoff
	httpClient.Timeout = defaultTimeout
	httpClient.SetRetryOnHTTP429(true)

	c := &Client{
		http:          httpClient,
		limiter:       rate.NewLimiter(rate.Limit(defaultRateHz), 1),
		userAgent:     refmint.AppName + "/" + refmint.Version,
		handleBaseURL: defaultHandleAPI,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET and returns the response on status 200.
// The caller must close the response body.
func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	log.Debugf("GET %s", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// getJSON performs a GET and decodes the JSON response body into v.
func (c *Client) getJSON(ctx context.Context, rawURL, accept string, v any) error {
	resp, err := c.get(ctx, rawURL, accept)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", rawURL, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}
