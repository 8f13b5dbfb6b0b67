package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/internal/catalog"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

// ListProducts returns the active product summaries for the storefront grid.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"products": products})
	}
}

// ProductDetail returns the full product page payload.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := chi.URLParam(r, "identifier")
		product, err := svc.ProductByIdentifier(r.Context(), identifier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"product": product})
	}
}
