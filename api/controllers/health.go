package controllers

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/alihamzakhan/bazaargo-backend/api/responses"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/redis"
)

const envHeader = "X-Bazaargo-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		var errs error
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("database: %w", err))
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("cache: %w", err))
			}
		}
		if errs != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
