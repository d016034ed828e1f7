// Package oracle provides a client for the Pyth Hermes price service, used
// to mark positions and collateral to market.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultURL is the public Hermes endpoint.
const DefaultURL = "https://hermes.pyth.network/v2"

// cryptoSymbolPrefix is stripped from feed symbols to obtain pair IDs, so
// "Crypto.BTC/USD" maps to pair "BTC/USD".
const cryptoSymbolPrefix = "Crypto."

// Client provides access to the Hermes REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new oracle client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBaseURL sets the Hermes endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Feed describes one Hermes price feed.
type Feed struct {
	ID         string `json:"id"`
	Attributes struct {
		Symbol string `json:"symbol"`
	} `json:"attributes"`
}

type priceUpdate struct {
	ID    string `json:"id"`
	Price struct {
		Price string `json:"price"`
		Expo  int    `json:"expo"`
	} `json:"price"`
}

type latestResponse struct {
	Parsed []priceUpdate `json:"parsed"`
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("oracle error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// CryptoFeeds maps pair IDs to their Hermes feeds by matching the crypto
// symbol suffix. Pairs with no matching feed are absent from the result.
func (c *Client) CryptoFeeds(ctx context.Context, pairIDs []string) (map[string]Feed, error) {
	var all []Feed
	if err := c.get(ctx, "price_feeds", &all); err != nil {
		return nil, fmt.Errorf("get price feeds: %w", err)
	}

	feeds := make(map[string]Feed, len(pairIDs))
	for _, pairID := range pairIDs {
		for _, feed := range all {
			if feed.Attributes.Symbol == cryptoSymbolPrefix+pairID {
				feeds[pairID] = feed
				break
			}
		}
	}

	return feeds, nil
}

// Prices fetches the latest price for each pair. Prices arrive as a signed
// integer significand and a base-10 exponent.
func (c *Client) Prices(ctx context.Context, pairIDs []string) (map[string]float64, error) {
	if len(pairIDs) == 0 {
		return map[string]float64{}, nil
	}

	feeds, err := c.CryptoFeeds(ctx, pairIDs)
	if err != nil {
		return nil, err
	}

	feedIDs := make(map[string]string, len(feeds))
	query := make(url.Values)
	for pairID, feed := range feeds {
		feedIDs[normalizeFeedID(feed.ID)] = pairID
		query.Add("ids[]", feed.ID)
	}

	var resp latestResponse
	if err := c.get(ctx, "updates/price/latest?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("get latest prices: %w", err)
	}

	prices := make(map[string]float64, len(resp.Parsed))
	for _, update := range resp.Parsed {
		pairID, ok := feedIDs[normalizeFeedID(update.ID)]
		if !ok {
			continue
		}
		price, err := decodePrice(update.Price.Price, update.Price.Expo)
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", update.ID, err)
		}
		prices[pairID] = price
	}

	return prices, nil
}

// normalizeFeedID strips the optional 0x prefix so stored and returned feed
// IDs compare equal.
func normalizeFeedID(id string) string {
	return strings.TrimPrefix(strings.ToLower(id), "0x")
}

func decodePrice(sig string, expo int) (float64, error) {
	n, err := strconv.ParseInt(sig, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", sig, err)
	}
	return float64(n) * math.Pow10(expo), nil
}
