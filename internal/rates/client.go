// Package rates is the exchange-rate collaborator boundary: a thin client
// for the central-bank currency API. The core treats its output as plain
// data; a missing or zero rate is handled downstream by the calculation
// engine, which falls back to 1.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://cbu.uz/ru/arkhiv-kursov-valyut/json/"

// Client fetches official exchange rates for a currency code.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a rates client. An empty baseURL selects the
// central-bank endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// rateEntry mirrors the central-bank JSON array element.
type rateEntry struct {
	Ccy      string `json:"Ccy"`
	Rate     string `json:"Rate"`
	Nominal  string `json:"Nominal"`
	CcyNmRU  string `json:"CcyNm_RU"`
}

// GetRate returns the UZS rate for a currency code. UZS itself is 1.
func (c *Client) GetRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	ccy := strings.ToUpper(strings.TrimSpace(currency))
	if ccy == "" || ccy == "UZS" {
		return decimal.NewFromInt(1), nil
	}

	url := c.baseURL + ccy + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate request returned status %d", resp.StatusCode)
	}

	var entries []rateEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}

	for _, e := range entries {
		if strings.EqualFold(e.Ccy, ccy) {
			rate, err := decimal.NewFromString(strings.ReplaceAll(e.Rate, ",", "."))
			if err != nil {
				return decimal.Zero, fmt.Errorf("unparseable rate %q for %s: %w", e.Rate, ccy, err)
			}
			return rate, nil
		}
	}

	return decimal.Zero, fmt.Errorf("no rate published for %s", ccy)
}
