package controllers

import (
	"net/http"

	"github.com/startupwebapp/storefront-backend/api/middleware"
	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/api/validators"
	"github.com/startupwebapp/storefront-backend/internal/cart"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

// CartItems returns the cart's line items.
func CartItems(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Items(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"cart_items": items})
	}
}

// CartShippingMethods returns the selectable delivery options.
func CartShippingMethods(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		methods, err := svc.ShippingMethods(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"shipping_methods": methods})
	}
}

// CartDiscountCodes returns the attached discount codes.
func CartDiscountCodes(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := svc.DiscountCodes(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"discount_codes": codes})
	}
}

// CartTotals returns the cart's price breakdown.
func CartTotals(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := svc.Totals(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"cart_totals": totals})
	}
}

type cartSKURequest struct {
	SKUID    string `json:"sku_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,min=0"`
}

type cartDiscountRequest struct {
	Code string `json:"discount_code" validate:"required"`
}

type cartShippingRequest struct {
	Identifier string `json:"shipping_method" validate:"required"`
}

// cartMutation runs one cart write and reports the refreshed totals. A first
// write from a plain visitor creates an anonymous cart; the signed cookie for
// it is set on the way out.
func cartMutation(
	logg *logger.Logger,
	cookieCfg config.CookieConfig,
	action string,
	run func(r *http.Request) (*cart.MutationResult, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := run(r)
		if err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		if result.NewAnonymousCartID != "" {
			middleware.WriteAnonymousCartCookie(w, cookieCfg, result.NewAnonymousCartID)
		}
		responses.WriteAction(w, action, types.Payload{
			"cart_totals":    result.Totals,
			"discount_codes": result.Discounts,
		})
	}
}

// CartAddProductSKU adds a SKU line (or tops up an existing one).
func CartAddProductSKU(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return cartMutation(logg, cookieCfg, "cart_add_product_sku", func(r *http.Request) (*cart.MutationResult, error) {
		var payload cartSKURequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return svc.AddSKU(r.Context(), middleware.IdentityFromContext(r.Context()), payload.SKUID, quantity)
	})
}

// CartUpdateSKUQuantity sets a line's quantity; zero removes the line.
func CartUpdateSKUQuantity(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return cartMutation(logg, cookieCfg, "cart_update_sku_quantity", func(r *http.Request) (*cart.MutationResult, error) {
		var payload cartSKURequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateQuantity(r.Context(), middleware.IdentityFromContext(r.Context()), payload.SKUID, payload.Quantity)
	})
}

// CartRemoveSKU removes a line from the cart.
func CartRemoveSKU(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return cartMutation(logg, cookieCfg, "cart_remove_sku", func(r *http.Request) (*cart.MutationResult, error) {
		var payload cartSKURequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.RemoveSKU(r.Context(), middleware.IdentityFromContext(r.Context()), payload.SKUID)
	})
}

// CartApplyDiscountCode attaches a discount code to the cart.
func CartApplyDiscountCode(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return cartMutation(logg, cookieCfg, "cart_apply_discount_code", func(r *http.Request) (*cart.MutationResult, error) {
		var payload cartDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.ApplyDiscount(r.Context(), middleware.IdentityFromContext(r.Context()), payload.Code)
	})
}

// CartRemoveDiscountCode detaches a discount code from the cart.
func CartRemoveDiscountCode(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return cartMutation(logg, cookieCfg, "cart_remove_discount_code", func(r *http.Request) (*cart.MutationResult, error) {
		var payload cartDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.RemoveDiscount(r.Context(), middleware.IdentityFromContext(r.Context()), payload.Code)
	})
}

// CartUpdateShippingMethod selects the cart's delivery option.
func CartUpdateShippingMethod(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return cartMutation(logg, cookieCfg, "cart_update_shipping_method", func(r *http.Request) (*cart.MutationResult, error) {
		var payload cartShippingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SetShippingMethod(r.Context(), middleware.IdentityFromContext(r.Context()), payload.Identifier)
	})
}

// CartDeleteCart drops the whole cart and clears the anonymous cookie.
func CartDeleteCart(svc cart.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.IdentityFromContext(r.Context())
		if err := svc.DeleteCart(r.Context(), caller); err != nil {
			responses.WriteActionError(r.Context(), logg, w, "cart_delete_cart", err)
			return
		}
		if caller.HasAnonymousCart() {
			middleware.ClearAnonymousCartCookie(w, cookieCfg)
		}
		responses.WriteAction(w, "cart_delete_cart", nil)
	}
}
