package charge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Coinbase Commerce charge-creation API. It is
// constructed once at process start and passed to the components that
// need it; nothing in this package holds global state.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 8 * time.Second},
	}
}

type createChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LocalPrice  localPrice        `json:"local_price"`
	PricingType string            `json:"pricing_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type localPrice struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type createChargeResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Create requests a fixed-price charge and returns the provider-assigned
// charge id. The response shape is validated at this boundary: a 2xx with
// no charge id is still a failure.
func (c *Client) Create(ctx context.Context, name, description, amount, currencyCode string, metadata map[string]string) (string, error) {
	body, err := json.Marshal(createChargeRequest{
		Name:        name,
		Description: description,
		LocalPrice:  localPrice{Amount: amount, Currency: currencyCode},
		PricingType: "fixed_price",
		Metadata:    metadata,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CC-Api-Key", c.APIKey)

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 8 * time.Second}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("charge creation failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out createChargeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("charge creation failed: invalid response: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("charge creation failed: invalid response format")
	}

	return out.Data.ID, nil
}
