package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ForecastSidecarRequest is posted to the forecasting sidecar.
type ForecastSidecarRequest struct {
	TenantID     string             `json:"tenant_id"`
	IngredientID string             `json:"ingredient_id"`
	HorizonDays  int                `json:"horizon_days"`
	History      []ForecastDayPoint `json:"history,omitempty"`
}

type ForecastDayPoint struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Quantity float64 `json:"quantity"`
}

// ForecastSidecarResponse carries one entry per forecast day.
type ForecastSidecarResponse struct {
	Forecasts []struct {
		Date      string  `json:"date"`
		Predicted float64 `json:"predicted"`
		Lower     float64 `json:"lower"`
		Upper     float64 `json:"upper"`
	} `json:"forecasts"`
}

// ErrSidecarNoData is returned when the sidecar answers 422: not enough
// history to train on.
var ErrSidecarNoData = errors.New("forecast sidecar: insufficient history")

// ForecastClient talks HTTP to the external demand forecasting service.
// The service is a black box; only its request/response contract lives here.
type ForecastClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewForecastClient(baseURL string, timeout time.Duration) *ForecastClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ForecastClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forecast sends a POST /forecast and decodes the daily predictions.
func (c *ForecastClient) Forecast(ctx context.Context, payload ForecastSidecarRequest) (*ForecastSidecarResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("forecast: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, ErrSidecarNoData
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("forecast: sidecar returned %d", resp.StatusCode)
	}

	var result ForecastSidecarResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("forecast: decode response: %w", err)
	}
	return &result, nil
}

// Ping checks GET /health.
func (c *ForecastClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("forecast: health returned %d", resp.StatusCode)
	}
	return nil
}
