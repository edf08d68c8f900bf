// Package fetch provides the HTTP access used by the collector pipeline:
// downloading playlist sources and probing stream URLs.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/yatagai/antenna/pkg/domain/model"
)

const (
	defaultFetchTimeout   = 10 * time.Second
	defaultProbeTimeout   = 10 * time.Second
	defaultQualityTimeout = 15 * time.Second

	// maxSourceSize caps playlist downloads. Playlists are text; anything
	// larger is not a playlist.
	maxSourceSize = 32 << 20
)

// Client downloads playlist sources and probes stream endpoints.
type Client struct {
	httpClient     *http.Client
	fetchTimeout   time.Duration
	probeTimeout   time.Duration
	qualityTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeouts overrides the per-request timeouts for source fetch,
// reachability probe and quality probe respectively.
func WithTimeouts(fetch, probe, quality time.Duration) Option {
	return func(c *Client) {
		c.fetchTimeout = fetch
		c.probeTimeout = probe
		c.qualityTimeout = quality
	}
}

// NewClient creates a fetch client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{},
		fetchTimeout:   defaultFetchTimeout,
		probeTimeout:   defaultProbeTimeout,
		qualityTimeout: defaultQualityTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSource downloads one playlist source and returns its content.
func (c *Client) FetchSource(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create source request", goerr.V("url", url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch source", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status for source",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceSize))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read source body", goerr.V("url", url))
	}

	return string(body), nil
}

// CheckReachable sends a HEAD request and reports whether the stream
// answered with 200 or 302.
func (c *Client) CheckReachable(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusFound
}

// ProbeQuality issues a streaming GET against the URL and records latency
// and response metadata. Errors are captured in the result, never returned.
func (c *Client) ProbeQuality(ctx context.Context, url string) model.QualityResult {
	ctx, cancel := context.WithTimeout(ctx, c.qualityTimeout)
	defer cancel()

	result := model.QualityResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")
	result.ContentLength = resp.ContentLength

	return result
}
