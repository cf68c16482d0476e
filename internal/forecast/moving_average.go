package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"restonext/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryReader yields daily sale consumption for an ingredient.
// Satisfied by repository.StockTransactionRepository.
type HistoryReader interface {
	DailyConsumption(ctx context.Context, tenantID, ingredientID uuid.UUID, since time.Time) ([]model.DailyConsumption, error)
}

// MovingAverageForecaster predicts a flat daily demand equal to the mean
// daily consumption over the lookback window, with a one standard
// deviation band. Days without sales count as zero consumption.
type MovingAverageForecaster struct {
	history    HistoryReader
	lookback   int
	minHistory int
	now        func() time.Time
}

func NewMovingAverageForecaster(history HistoryReader, lookbackDays, minHistoryDays int) *MovingAverageForecaster {
	if lookbackDays <= 0 {
		lookbackDays = 56
	}
	if minHistoryDays <= 0 {
		minHistoryDays = 14
	}
	return &MovingAverageForecaster{
		history:    history,
		lookback:   lookbackDays,
		minHistory: minHistoryDays,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (f *MovingAverageForecaster) WithClock(now func() time.Time) *MovingAverageForecaster {
	f.now = now
	return f
}

func (f *MovingAverageForecaster) IsAvailable(context.Context) bool { return f.history != nil }

func (f *MovingAverageForecaster) Forecast(ctx context.Context, req Request) ([]DailyForecast, error) {
	if req.HorizonDays <= 0 {
		return nil, fmt.Errorf("forecast: horizon must be positive, got %d", req.HorizonDays)
	}
	today := truncateDay(f.now())
	since := today.AddDate(0, 0, -f.lookback)

	all, err := f.history.DailyConsumption(ctx, req.TenantID, req.IngredientID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// Today is still being sold; only closed days count.
	rows := all[:0:0]
	for _, r := range all {
		if truncateDay(r.Day).Before(today) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}

	// History spans from the first recorded sale day up to yesterday.
	first := today
	for _, r := range rows {
		if d := truncateDay(r.Day); d.Before(first) {
			first = d
		}
	}
	span := int(today.Sub(first).Hours() / 24)
	if span < f.minHistory {
		return nil, ErrInsufficientData
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Quantity)
	}
	n := decimal.NewFromInt(int64(span))
	mean := total.Div(n)

	// Variance over all days of the span, zero-sale days included.
	byDay := make(map[time.Time]decimal.Decimal, len(rows))
	for _, r := range rows {
		d := truncateDay(r.Day)
		byDay[d] = byDay[d].Add(r.Quantity)
	}
	meanF, _ := mean.Float64()
	var sq float64
	for d := first; d.Before(today); d = d.AddDate(0, 0, 1) {
		v, _ := byDay[d].Float64()
		sq += (v - meanF) * (v - meanF)
	}
	stddev := decimal.NewFromFloat(math.Sqrt(sq / float64(span)))

	predicted := nonNegative(mean).Round(4)
	lower := nonNegative(mean.Sub(stddev)).Round(4)
	upper := nonNegative(mean.Add(stddev)).Round(4)

	out := make([]DailyForecast, 0, req.HorizonDays)
	for i := 1; i <= req.HorizonDays; i++ {
		out = append(out, DailyForecast{
			Date:      today.AddDate(0, 0, i),
			Predicted: predicted,
			Lower:     lower,
			Upper:     upper,
		})
	}
	return out, nil
}
