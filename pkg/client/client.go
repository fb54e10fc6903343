package client

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

	"github.com/energypilot/energypilot/pkg/common"
	"github.com/energypilot/energypilot/pkg/types"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("energypilot api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("energypilot api returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the EnergyPilot HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a Client for the API at baseURL. A nil httpClient uses
// common.HTTPClient with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = common.HTTPClient(10 * time.Second)
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(b, &e) != nil {
			e.Error = strings.TrimSpace(string(b))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Prices returns the prices for the day of date. A zero date asks for today.
func (c *Client) Prices(ctx context.Context, date time.Time) (types.PriceDay, error) {
	path := "/prices"
	if !date.IsZero() {
		path += "?" + url.Values{"date": {date.Format(time.DateOnly)}}.Encode()
	}
	var day types.PriceDay
	err := c.do(ctx, http.MethodGet, path, nil, &day)
	return day, err
}

func (c *Client) Devices(ctx context.Context) ([]types.DeviceStatus, error) {
	var list types.DeviceList
	if err := c.do(ctx, http.MethodGet, "/devices", nil, &list); err != nil {
		return nil, err
	}
	return list.Devices, nil
}

// Act sends action to the device with the given id.
func (c *Client) Act(ctx context.Context, id string, action types.DeviceAction) (types.DeviceActionAck, error) {
	var ack types.DeviceActionAck
	err := c.do(ctx, http.MethodPost, "/devices/"+url.PathEscape(id)+"/action", types.DeviceActionRequest{Action: action}, &ack)
	return ack, err
}

// ApplyStrategy submits the strategy for evaluation.
func (c *Client) ApplyStrategy(ctx context.Context, req types.EvaluationRequest) (types.ApplyResult, error) {
	var res types.ApplyResult
	err := c.do(ctx, http.MethodPost, "/strategy/apply", req, &res)
	return res, err
}

func (c *Client) Summary(ctx context.Context) (types.DailySummary, error) {
	var s types.DailySummary
	err := c.do(ctx, http.MethodGet, "/summary", nil, &s)
	return s, err
}

func (c *Client) Config(ctx context.Context) (types.UserConfig, error) {
	var cfg types.UserConfig
	err := c.do(ctx, http.MethodGet, "/config", nil, &cfg)
	return cfg, err
}

// SaveConfig replaces the stored config and returns what was saved.
func (c *Client) SaveConfig(ctx context.Context, cfg types.UserConfig) (types.UserConfig, error) {
	var saved types.UserConfig
	err := c.do(ctx, http.MethodPost, "/config", cfg, &saved)
	return saved, err
}

// ResetConfig clears the config and the dashboard flags.
func (c *Client) ResetConfig(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/config", nil, nil)
}
