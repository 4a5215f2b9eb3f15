package vindecoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"cargram/internal/model"
)

// Decoder resolves a VIN into a vehicle record. Satisfied by *Client;
// services depend on the interface so tests can stub the remote API.
type Decoder interface {
	Decode(ctx context.Context, vin string) (*model.Vehicle, error)
}

// ServiceError is returned when the decode service answered but the
// answer is unusable: non-2xx status, unparsable body, or an empty decode
// list. Status and Body are kept verbatim for diagnostic display.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("vin decode failed: status=%d body=%s", e.Status, e.Body)
}

type ClientConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	Timeout   time.Duration
}

// Client calls the signed VIN decode REST API.
type Client struct {
	http      *resty.Client
	apiKey    string
	secretKey string
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: cli, apiKey: cfg.APIKey, secretKey: cfg.SecretKey}
}

type decodeItem struct {
	Label string `json:"label"`
	Value Value  `json:"value"`
	ID    int    `json:"id"`
}

type decodeResponse struct {
	Decode  []decodeItem `json:"decode"`
	Success bool         `json:"success"`
	Error   string       `json:"error"`
}

// Decode issues the signed decode request and maps the label/value list
// into a vehicle record. The VIN is uppercased and forwarded as-is; the
// remote service is authoritative on validity. No retries.
func (c *Client) Decode(ctx context.Context, vin string) (*model.Vehicle, error) {
	vin = strings.ToUpper(vin)
	controlSum := ControlSum(vin, c.apiKey, c.secretKey)

	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/%s/%s/decode/%s.json", c.apiKey, controlSum, url.PathEscape(vin)))
	if err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if resp.IsError() {
		return nil, &ServiceError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	var body decodeResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ServiceError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	if len(body.Decode) == 0 {
		return nil, &ServiceError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	labels := make(map[string]string, len(body.Decode))
	for _, item := range body.Decode {
		labels[item.Label] = item.Value.String()
	}

	// A label the service did not return stays "" - never an error.
	vehicle := &model.Vehicle{
		VIN:           vin,
		Make:          labels["Make"],
		Model:         labels["Model"],
		Year:          labels["Model Year"],
		Body:          labels["Body"],
		Trim:          labels["Trim"],
		Series:        labels["Series"],
		CMC:           labels["Engine Displacement (ccm)"],
		HP:            labels["Engine Power (HP)"],
		Fuel:          labels["Fuel Type - Primary"],
		Transmission:  labels["Transmission"],
		Country:       labels["Plant Country"],
		Drive:         labels["Drive"],
		EngineCode:    labels["Engine Code"],
		NumberOfDoors: labels["Number of Doors"],
		NumberOfSeats: labels["Number of Seats"],
		Color:         labels["Color"],
	}

	return vehicle, nil
}
