// Package transport provides the HTTP client feed fetchers share: common
// timeouts, a stable User-Agent, and response decoding with typed errors.
// Both upstream feeds are public endpoints, so there is no authentication
// layer, just well-behaved GETs.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/threatscope/threatscope/pkg/constants"
	"github.com/threatscope/threatscope/pkg/errors"
)

// DefaultUserAgent identifies threatscope to upstream feeds.
const DefaultUserAgent = "threatscope/1.0"

// errorBodyLimit caps how much of an error response body lands in messages.
const errorBodyLimit = 512

// Client performs HTTP requests on behalf of one feed. The feed name only
// feeds error attribution, so log lines and wrapped errors say which
// upstream misbehaved.
type Client struct {
	feed      string
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the named feed.
func New(feed string, opts ...Option) *Client {
	c := &Client{
		feed: feed,
		http: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &http.Transport{
				DialContext:  (&net.Dialer{Timeout: constants.DialTimeout}).DialContext,
				MaxIdleConns: constants.MaxIdleConnections,
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET and returns the raw response. Transport failures come
// back as an APIError with status 0, which reads as an unavailable feed.
// Callers own the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI(c.feed, url, 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(c.feed, url, 0, err)
	}
	return resp, nil
}

// GetBytes performs a GET and returns the body of a 200 response. Any other
// status becomes an APIError carrying the status code and a bounded slice
// of the body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // read side already captured

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapAPI(c.feed, url, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Feed:       c.feed,
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body), errorBodyLimit),
		}
	}
	return body, nil
}

// GetJSON performs a GET and decodes a 200 JSON response into target.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	body, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", url, err)
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
