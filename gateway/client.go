// Package gateway provides a client for the Radix Gateway API: ledger state
// queries, transaction previews, and signed transaction submission.
package gateway

import (
	"log/slog"
	"net/http"
	"time"
)

// Well-known gateway endpoints.
const (
	MainnetURL  = "https://mainnet.radixdlt.com"
	StokenetURL = "https://stokenet.radixdlt.com"
)

// Network IDs as used in transaction headers.
const (
	MainnetID  uint8 = 1
	StokenetID uint8 = 2
)

// Client provides access to the Radix Gateway REST API.
type Client struct {
	baseURL    string
	networkID  uint8
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
	pollInterval time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new gateway client. networkID must match the network
// the base URL serves; it is embedded in transaction headers built through
// this client.
func NewClient(baseURL string, networkID uint8, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		networkID: networkID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
		pollInterval: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NetworkID returns the network ID this client targets.
func (c *Client) NetworkID() uint8 {
	return c.networkID
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithPollInterval sets the delay between commit-status polls.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
