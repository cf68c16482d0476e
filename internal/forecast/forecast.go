// Package forecast predicts per-ingredient daily consumption.
//
// The model itself is a black box behind the Forecaster interface. Two
// implementations exist: SidecarForecaster delegates to an external HTTP
// model service guarded by a circuit breaker, MovingAverageForecaster is a
// built-in placeholder computed from the stock ledger's sale history.
// Callers must treat every error as "no forecast" and fall back.
package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientData means the model has too little history for this ingredient.
	ErrInsufficientData = errors.New("forecast: insufficient history")
	// ErrUnavailable means the forecasting backend cannot be reached right now.
	ErrUnavailable = errors.New("forecast: model unavailable")
)

// Request asks for HorizonDays daily predictions starting tomorrow.
type Request struct {
	TenantID     uuid.UUID
	IngredientID uuid.UUID
	HorizonDays  int
}

// DailyForecast is the predicted consumption for one day, in the
// ingredient's stock unit. Lower <= Predicted <= Upper and all are >= 0.
type DailyForecast struct {
	Date      time.Time
	Predicted decimal.Decimal
	Lower     decimal.Decimal
	Upper     decimal.Decimal
}

type Forecaster interface {
	IsAvailable(ctx context.Context) bool
	Forecast(ctx context.Context, req Request) ([]DailyForecast, error)
}

// Total sums the predicted quantities.
func Total(days []DailyForecast) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range days {
		sum = sum.Add(d.Predicted)
	}
	return sum
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
