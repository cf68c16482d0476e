package forecast_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restonext/internal/forecast"
	"restonext/internal/infra"
	"restonext/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── MovingAverageForecaster ──────────────────────────────────────────────────

type stubHistory struct {
	rows []model.DailyConsumption
	err  error
}

func (h *stubHistory) DailyConsumption(_ context.Context, _, _ uuid.UUID, since time.Time) ([]model.DailyConsumption, error) {
	if h.err != nil {
		return nil, h.err
	}
	var out []model.DailyConsumption
	for _, r := range h.rows {
		if !r.Day.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

var fixedNow = time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

func dailyRows(days int, qty string) []model.DailyConsumption {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rows := make([]model.DailyConsumption, 0, days)
	for i := days; i >= 1; i-- {
		rows = append(rows, model.DailyConsumption{
			Day:      today.AddDate(0, 0, -i),
			Quantity: decimal.RequireFromString(qty),
		})
	}
	return rows
}

func TestMovingAverage_FlatHistory(t *testing.T) {
	f := forecast.NewMovingAverageForecaster(&stubHistory{rows: dailyRows(20, "2.5")}, 56, 14).
		WithClock(func() time.Time { return fixedNow })

	days, err := f.Forecast(context.Background(), forecast.Request{
		TenantID: uuid.New(), IngredientID: uuid.New(), HorizonDays: 7,
	})
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC), days[6].Date)
	for _, d := range days {
		assert.True(t, d.Predicted.Equal(decimal.RequireFromString("2.5")), d.Predicted.String())
		assert.True(t, d.Lower.Equal(d.Predicted))
		assert.True(t, d.Upper.Equal(d.Predicted))
	}
	assert.True(t, forecast.Total(days).Equal(decimal.RequireFromString("17.5")))
}

func TestMovingAverage_InsufficientHistory(t *testing.T) {
	f := forecast.NewMovingAverageForecaster(&stubHistory{rows: dailyRows(5, "1")}, 56, 14).
		WithClock(func() time.Time { return fixedNow })

	_, err := f.Forecast(context.Background(), forecast.Request{HorizonDays: 7})
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)

	empty := forecast.NewMovingAverageForecaster(&stubHistory{}, 56, 14)
	_, err = empty.Forecast(context.Background(), forecast.Request{HorizonDays: 7})
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestMovingAverage_BoundsNeverNegative(t *testing.T) {
	rows := dailyRows(14, "0")
	rows[0].Quantity = decimal.NewFromInt(28)
	f := forecast.NewMovingAverageForecaster(&stubHistory{rows: rows}, 56, 14).
		WithClock(func() time.Time { return fixedNow })

	days, err := f.Forecast(context.Background(), forecast.Request{HorizonDays: 3})
	require.NoError(t, err)
	for _, d := range days {
		assert.True(t, d.Predicted.Equal(decimal.NewFromInt(2)))
		assert.False(t, d.Lower.IsNegative())
		assert.True(t, d.Upper.GreaterThan(d.Predicted))
	}
}

func TestMovingAverage_IgnoresTodaysPartialSales(t *testing.T) {
	rows := append(dailyRows(20, "2.5"), model.DailyConsumption{
		Day:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Quantity: decimal.NewFromInt(50),
	})
	f := forecast.NewMovingAverageForecaster(&stubHistory{rows: rows}, 56, 14).
		WithClock(func() time.Time { return fixedNow })

	days, err := f.Forecast(context.Background(), forecast.Request{HorizonDays: 2})
	require.NoError(t, err)
	for _, d := range days {
		assert.True(t, d.Predicted.Equal(decimal.RequireFromString("2.5")), d.Predicted.String())
		assert.True(t, d.Lower.Equal(d.Predicted), d.Lower.String())
		assert.True(t, d.Upper.Equal(d.Predicted), d.Upper.String())
	}
}

// ── SidecarForecaster ────────────────────────────────────────────────────────

func newSidecar(t *testing.T, handler http.HandlerFunc) (*forecast.SidecarForecaster, *infra.CircuitBreaker) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "forecast", FailureThreshold: 2, OpenTimeout: time.Hour})
	return forecast.NewSidecarForecaster(infra.NewForecastClient(srv.URL, time.Second), cb), cb
}

func TestSidecar_DecodesForecasts(t *testing.T) {
	f, _ := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		var req infra.ForecastSidecarRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.HorizonDays)
		_, _ = w.Write([]byte(`{"forecasts":[
			{"date":"2026-03-16","predicted":3.5,"lower":2,"upper":5},
			{"date":"2026-03-17","predicted":-1,"lower":-2,"upper":0.5}]}`))
	})

	assert.True(t, f.IsAvailable(context.Background()))
	days, err := f.Forecast(context.Background(), forecast.Request{TenantID: uuid.New(), IngredientID: uuid.New(), HorizonDays: 2})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.True(t, days[0].Predicted.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, days[1].Predicted.IsZero())
	assert.True(t, days[1].Lower.IsZero())
}

func TestSidecar_422IsInsufficientData(t *testing.T) {
	f, cb := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	for i := 0; i < 3; i++ {
		_, err := f.Forecast(context.Background(), forecast.Request{HorizonDays: 7})
		assert.ErrorIs(t, err, forecast.ErrInsufficientData)
	}
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestSidecar_FailuresOpenBreaker(t *testing.T) {
	f, cb := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		_, err := f.Forecast(context.Background(), forecast.Request{HorizonDays: 7})
		assert.ErrorIs(t, err, forecast.ErrUnavailable)
	}
	assert.Equal(t, infra.CBOpen, cb.State())
	assert.False(t, f.IsAvailable(context.Background()))

	_, err := f.Forecast(context.Background(), forecast.Request{HorizonDays: 7})
	assert.ErrorIs(t, err, forecast.ErrUnavailable)
}
