package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restonext/internal/config"
	"restonext/internal/forecast"
	"restonext/internal/infra"
	"restonext/internal/repository"
	"restonext/internal/router"
	"restonext/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL, cfg.WorkerPoolSize+10)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Forecaster: external model service behind a circuit breaker when
	// configured, otherwise the built-in moving average over sale history.
	var (
		forecaster forecast.Forecaster
		forecastCB *infra.CircuitBreaker
	)
	if cfg.ForecastSidecarURL != "" {
		forecastCB = infra.NewCircuitBreaker(infra.DefaultCBConfig("forecast-sidecar"))
		forecaster = forecast.NewSidecarForecaster(
			infra.NewForecastClient(cfg.ForecastSidecarURL, cfg.ForecastTimeout()),
			forecastCB,
		)
	} else {
		forecaster = forecast.NewMovingAverageForecaster(
			repository.NewStockTransactionRepository(db),
			cfg.ForecastHistoryDays,
			cfg.ForecastMinHistoryDays,
		)
	}

	svc, err := router.NewServices(cfg, db, rdb, forecaster)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire services")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async side channel: low-stock alerts and the suggestion refresh.
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.JobHandler{
		worker.JobLowStock: worker.NewLowStockWorker(svc.Ingredients, svc.Alerts),
	})
	worker.StartProcurementCron(ctx, worker.ProcurementCronConfig{
		Procurement: svc.Procurement,
		Tenants:     svc.Ingredients,
		CB:          forecastCB,
		Interval:    cfg.ProcurementCronInterval(),
	})

	r := router.New(cfg, db, rdb, forecastCB, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("restonext inventory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
