package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restonext/internal/infra"

	"github.com/shopspring/decimal"
)

// SidecarForecaster calls the external model service through a circuit
// breaker. While the breaker is open IsAvailable reports false and Forecast
// fails fast with ErrUnavailable.
type SidecarForecaster struct {
	client  *infra.ForecastClient
	breaker *infra.CircuitBreaker
}

func NewSidecarForecaster(client *infra.ForecastClient, breaker *infra.CircuitBreaker) *SidecarForecaster {
	return &SidecarForecaster{client: client, breaker: breaker}
}

func (f *SidecarForecaster) IsAvailable(ctx context.Context) bool {
	if !f.breaker.Allow() {
		return false
	}
	err := f.breaker.Execute(func() error { return f.client.Ping(ctx) })
	return err == nil
}

func (f *SidecarForecaster) Forecast(ctx context.Context, req Request) ([]DailyForecast, error) {
	var resp *infra.ForecastSidecarResponse
	err := f.breaker.Execute(func() error {
		var callErr error
		resp, callErr = f.client.Forecast(ctx, infra.ForecastSidecarRequest{
			TenantID:     req.TenantID.String(),
			IngredientID: req.IngredientID.String(),
			HorizonDays:  req.HorizonDays,
		})
		// Missing history is an answer, not a sidecar failure.
		if errors.Is(callErr, infra.ErrSidecarNoData) {
			return nil
		}
		return callErr
	})
	switch {
	case errors.Is(err, infra.ErrCircuitOpen):
		return nil, ErrUnavailable
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case resp == nil:
		return nil, ErrInsufficientData
	}

	out := make([]DailyForecast, 0, len(resp.Forecasts))
	for _, row := range resp.Forecasts {
		day, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("forecast: bad date %q from sidecar: %w", row.Date, err)
		}
		out = append(out, DailyForecast{
			Date:      day,
			Predicted: nonNegative(decimal.NewFromFloat(row.Predicted)),
			Lower:     nonNegative(decimal.NewFromFloat(row.Lower)),
			Upper:     nonNegative(decimal.NewFromFloat(row.Upper)),
		})
	}
	if len(out) == 0 {
		return nil, ErrInsufficientData
	}
	return out, nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
