package telnyx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.telnyx.com/v2"
	searchLimit    = 20
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchNumbers lists SMS capable numbers for a US area code.
func (c *Client) SearchNumbers(ctx context.Context, areaCode string) ([]AvailableNumber, error) {
	q := url.Values{}
	q.Set("filter[country_code]", "US")
	q.Set("filter[national_destination_code]", areaCode)
	q.Set("filter[features][]", "sms")
	q.Set("filter[limit]", fmt.Sprint(searchLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/available_phone_numbers?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp availableNumbersResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("search numbers: %w", err)
	}

	out := make([]AvailableNumber, 0, len(resp.Data))
	for _, d := range resp.Data {
		n := AvailableNumber{
			PhoneNumber: d.PhoneNumber,
			Features:    make([]string, 0, len(d.Features)),
			MonthlyCost: d.CostInformation.MonthlyCost,
			Currency:    d.CostInformation.Currency,
		}
		for _, r := range d.RegionInformation {
			if r.RegionType == "rate_center" || n.Region == "" {
				n.Region = r.RegionName
			}
		}
		for _, f := range d.Features {
			n.Features = append(n.Features, f.Name)
		}
		out = append(out, n)
	}
	return out, nil
}

// OrderNumber places a number order and returns the order id.
func (c *Client) OrderNumber(ctx context.Context, phoneNumber string) (string, error) {
	body, err := json.Marshal(numberOrderRequest{
		PhoneNumbers: []orderPhoneNumber{{PhoneNumber: phoneNumber}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/number_orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var resp numberOrderResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("order number %s: %w", phoneNumber, err)
	}
	return resp.Data.ID, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request telnyx: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && len(apiErr.Errors) > 0 {
			e := apiErr.Errors[0]
			msg := e.Detail
			if msg == "" {
				msg = e.Title
			}
			return fmt.Errorf("telnyx status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("telnyx status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode telnyx response: %w", err)
	}
	return nil
}
