package controllers

import (
	"context"
	"net/http"

	"github.com/startupwebapp/storefront-backend/api/responses"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

// Pinger is anything whose health can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Write(w, types.Payload{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the backing stores.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.Write(w, types.Payload{"status": "ready"})
	}
}
