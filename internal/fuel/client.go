package fuel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Prices holds the national average fuel prices per grade, in USD/gallon
// (electricity in USD/kWh). CNG and LPG are not always reported.
type Prices struct {
	Regular  float64  `json:"regular"`
	Midgrade float64  `json:"midgrade"`
	Premium  float64  `json:"premium"`
	Diesel   float64  `json:"diesel"`
	E85      float64  `json:"e85"`
	Electric float64  `json:"electric"`
	CNG      *float64 `json:"cng,omitempty"`
	LPG      *float64 `json:"lpg,omitempty"`
}

type pricesResponse struct {
	FuelPrices Prices `json:"fuelPrices"`
}

// Client fetches current fuel prices from the public fuel economy API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: cli}
}

// GetPrices returns the current national averages. No retries; transport
// and decode errors are surfaced to the caller.
func (c *Client) GetPrices(ctx context.Context) (*Prices, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/ws/rest/fuelprices")
	if err != nil {
		return nil, fmt.Errorf("fuel prices request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fuel prices: unexpected status %d", resp.StatusCode())
	}

	var body pricesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("fuel prices: decode response: %w", err)
	}

	return &body.FuelPrices, nil
}
