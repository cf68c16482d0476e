package handler

import (
	"context"
	"net/http"
	"time"

	"restonext/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the forecaster breaker state;
// never exposes credentials or internals. An open breaker degrades
// suggestions to the fallback heuristic but does not fail the check.
func Health(db *gorm.DB, rdb redis.Cmdable, forecastCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		forecaster := "builtin"
		if forecastCB != nil {
			forecaster = forecastCB.State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":         status == http.StatusOK,
			"db":         dbStatus,
			"redis":      redisStatus,
			"forecaster": forecaster,
		})
	}
}
