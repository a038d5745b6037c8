package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"auction-marketplace/utils"

	"github.com/shopspring/decimal"
)

// DefaultFeedURL is the daily USD-relative rate feed, keyed by date
const DefaultFeedURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@%s/v1/currencies/usd.json"

// Table maps lowercase currency codes to their USD-relative rate
// (units of the currency per 1 USD)
type Table struct {
	Date  string
	Rates map[string]float64
}

// Fallback returns the static rate table used when the feed is unreachable.
// Conversions through it are approximate; callers are expected to treat feed
// failure as a degraded mode, not an error.
func Fallback() *Table {
	return &Table{
		Date: "fallback",
		Rates: map[string]float64{
			"usd": 1,
			"eur": 0.93,
			"gbp": 0.79,
			"jpy": 150.5,
			"cad": 1.38,
			"aud": 1.52,
			"inr": 83.5,
			"cny": 7.14,
			"sgd": 1.34,
		},
	}
}

// Convert translates amount from one currency to another by pivoting through
// USD at full decimal precision. Same-currency conversion is the identity;
// an unknown currency code contributes a rate of 1, so the amount passes
// through unconverted on that leg. The result is not rounded here: a
// converted amount may feed another conversion, and a round trip through a
// high-rate currency must land back on the original within 2dp. Callers
// round where the amount leaves the system.
func (t *Table) Convert(amount float64, from, to string) float64 {
	from = strings.ToLower(from)
	to = strings.ToLower(to)
	if from == to {
		return amount
	}

	out, _ := decimal.NewFromFloat(amount).Div(t.rate(from)).Mul(t.rate(to)).Float64()
	return out
}

func (t *Table) rate(code string) decimal.Decimal {
	if r, ok := t.Rates[code]; ok && r > 0 {
		return decimal.NewFromFloat(r)
	}
	return decimal.NewFromInt(1)
}

// Client fetches daily rate tables from the feed
type Client struct {
	http    *http.Client
	feedURL string

	mu sync.Mutex
	// most recent successful fetch, reused for the rest of the day
	cached *Table
}

// NewClient creates a rates client. A nil httpClient gets a 10s-timeout
// default; an empty feedURL falls back to DefaultFeedURL.
func NewClient(httpClient *http.Client, feedURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Client{http: httpClient, feedURL: feedURL}
}

type feedResponse struct {
	Date string             `json:"date"`
	USD  map[string]float64 `json:"usd"`
}

// Daily returns the rate table for the given day. Fetch or parse failures
// degrade to the last good table, then to the static fallback, so the caller
// is never blocked. Failed fetches are not retried until the next call.
func (c *Client) Daily(ctx context.Context, day time.Time) *Table {
	date := day.UTC().Format("2006-01-02")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && c.cached.Date == date {
		return c.cached
	}

	table, err := c.fetch(ctx, date)
	if err != nil {
		utils.Warn("rates: feed unavailable, using fallback table", map[string]any{
			"date":  date,
			"error": err.Error(),
		})
		if c.cached != nil {
			return c.cached
		}
		return Fallback()
	}

	c.cached = table
	return table
}

func (c *Client) fetch(ctx context.Context, date string) (*Table, error) {
	url := fmt.Sprintf(c.feedURL, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates: feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("rates: decode feed response: %w", err)
	}
	if len(body.USD) == 0 {
		return nil, fmt.Errorf("rates: feed response missing usd rates")
	}

	rates := make(map[string]float64, len(body.USD)+1)
	for code, rate := range body.USD {
		rates[strings.ToLower(code)] = rate
	}
	rates["usd"] = 1

	return &Table{Date: date, Rates: rates}, nil
}
