package worker

// procurement_cron.go
// Background goroutine that periodically regenerates the procurement
// suggestion report of every tenant and caches it. While the forecaster's
// circuit breaker is open the reports are built from the fallback heuristic.

import (
	"context"
	"time"

	"restonext/internal/infra"
	"restonext/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TenantLister lists tenants that own active ingredients.
type TenantLister interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ProcurementCronConfig holds all dependencies for the cron goroutine.
type ProcurementCronConfig struct {
	Procurement service.ProcurementService
	Tenants     TenantLister
	CB          *infra.CircuitBreaker // optional, only used for logging
	Interval    time.Duration
}

// StartProcurementCron refreshes every tenant once per Interval until ctx
// is cancelled. A non-positive Interval disables the cron.
func StartProcurementCron(ctx context.Context, cfg ProcurementCronConfig) {
	if cfg.Interval <= 0 {
		log.Info().Msg("procurement_cron: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("procurement_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("procurement_cron: shutting down")
				return
			case <-ticker.C:
				refreshAll(ctx, cfg)
			}
		}
	}()
}

// refreshAll returns how many tenants were refreshed successfully.
func refreshAll(ctx context.Context, cfg ProcurementCronConfig) int {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("procurement_cron: forecaster circuit open, fallback heuristic only")
	}

	tenants, err := cfg.Tenants.ListTenantIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("procurement_cron: failed to list tenants")
		return 0
	}

	ok := 0
	for _, tenantID := range tenants {
		if ctx.Err() != nil {
			return ok
		}
		report, err := cfg.Procurement.RefreshCache(ctx, tenantID)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("procurement_cron: refresh failed")
			continue
		}
		ok++
		log.Debug().
			Str("tenant_id", tenantID.String()).
			Int("suppliers", len(report.Suppliers)).
			Int("unassigned", len(report.Unassigned)).
			Str("grand_total", report.GrandTotal.String()).
			Msg("procurement_cron: suggestions refreshed")
	}
	return ok
}
