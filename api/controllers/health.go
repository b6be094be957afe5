package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/warehouse360/warehouse360-backend/api/responses"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
	"github.com/warehouse360/warehouse360-backend/pkg/redis"
)

const readyCheckTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Warehouse360-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis; a failure reports degraded
// with a 503 so load balancers pull the instance.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Warehouse360-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = "ok"
		if database == nil {
			checks["database"] = "not configured"
			healthy = false
		} else if err := database.Ping(ctx); err != nil {
			checks["database"] = "unavailable"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "health.database", err)
			}
		}

		checks["redis"] = "ok"
		if cache == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = "unavailable"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "health.redis", err)
			}
		}

		payload := map[string]any{"status": "ready", "checks": checks}
		if !healthy {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
