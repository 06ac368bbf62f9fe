package controllers

import (
	"net/http"

	"github.com/platewise/platewise-backend/api/responses"
	"github.com/platewise/platewise-backend/pkg/config"
	"github.com/platewise/platewise-backend/pkg/db"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
	"github.com/platewise/platewise-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PlateWise-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the datasource and the optional cache. A missing Redis
// client reports as disabled rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PlateWise-Env", cfg.App.Env)

		components := map[string]string{"database": "ok"}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable").
					WithDetails(map[string]any{"component": "database"}))
			return
		}

		switch {
		case redisClient == nil:
			components["redis"] = "disabled"
		default:
			if err := redisClient.Ping(r.Context()); err != nil {
				components["redis"] = "degraded"
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "redis ping failed")
				}
			} else {
				components["redis"] = "ok"
			}
		}

		components["status"] = "ready"
		responses.WriteSuccess(w, components)
	}
}
