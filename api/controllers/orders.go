package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/startupwebapp/storefront-backend/api/middleware"
	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/internal/orders"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

// OrderDetail returns the order summary page payload. Member orders are only
// visible to their owner; prospect orders are visible to anyone holding the
// order identifier.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.Detail(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "orderIdentifier"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"order": detail})
	}
}
