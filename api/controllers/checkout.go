package controllers

import (
	"net/http"

	"github.com/startupwebapp/storefront-backend/api/middleware"
	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/api/validators"
	"github.com/startupwebapp/storefront-backend/internal/accounts"
	"github.com/startupwebapp/storefront-backend/internal/cart"
	"github.com/startupwebapp/storefront-backend/internal/checkout"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

// CheckoutAllowed reports whether the caller passes the checkout gate.
func CheckoutAllowed(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, err := svc.CheckoutAllowed(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"checkout_allowed": allowed})
	}
}

// confirmRead gates a checkout confirmation read. A caller that fails the
// gate learns nothing beyond the gate itself.
func confirmRead(
	checkoutSvc checkout.Service,
	logg *logger.Logger,
	key string,
	load func(r *http.Request) (any, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, err := checkoutSvc.CheckoutAllowed(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !allowed {
			responses.Write(w, types.Payload{"checkout_allowed": false})
			return
		}
		data, err := load(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Write(w, types.Payload{"checkout_allowed": true, key: data})
	}
}

// ConfirmItems returns the cart lines for the order confirmation page.
func ConfirmItems(checkoutSvc checkout.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return confirmRead(checkoutSvc, logg, "cart_items", func(r *http.Request) (any, error) {
		return cartSvc.Items(r.Context(), middleware.IdentityFromContext(r.Context()))
	})
}

// ConfirmShippingMethod returns the selected delivery option for confirmation.
func ConfirmShippingMethod(checkoutSvc checkout.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return confirmRead(checkoutSvc, logg, "shipping_methods", func(r *http.Request) (any, error) {
		return cartSvc.ShippingMethods(r.Context(), middleware.IdentityFromContext(r.Context()))
	})
}

// ConfirmDiscountCodes returns the attached codes for confirmation.
func ConfirmDiscountCodes(checkoutSvc checkout.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return confirmRead(checkoutSvc, logg, "discount_codes", func(r *http.Request) (any, error) {
		return cartSvc.DiscountCodes(r.Context(), middleware.IdentityFromContext(r.Context()))
	})
}

// ConfirmTotals returns the price breakdown for confirmation.
func ConfirmTotals(checkoutSvc checkout.Service, cartSvc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return confirmRead(checkoutSvc, logg, "cart_totals", func(r *http.Request) (any, error) {
		return cartSvc.Totals(r.Context(), middleware.IdentityFromContext(r.Context()))
	})
}

type addressRequest struct {
	Name       string `json:"name" validate:"required"`
	Line1      string `json:"line_1" validate:"required"`
	Line2      string `json:"line_2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

func (a addressRequest) toAddress() checkout.Address {
	return checkout.Address{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type cardRequest struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

func (c cardRequest) toSnapshot() checkout.CardSnapshot {
	return checkout.CardSnapshot{
		Brand:    c.Brand,
		Last4:    c.Last4,
		ExpMonth: c.ExpMonth,
		ExpYear:  c.ExpYear,
	}
}

type placeOrderRequest struct {
	AgreeToTermsOfSale  *bool          `json:"agree_to_terms_of_sale"`
	PaymentIntentID     string         `json:"payment_intent_id"`
	StripeCustomerToken string         `json:"stripe_customer_token"`
	EmailAddress        string         `json:"email_address"`
	Card                cardRequest    `json:"card"`
	ShippingAddress     addressRequest `json:"shipping_address" validate:"required"`
	BillingAddress      addressRequest `json:"billing_address" validate:"required"`
}

// ConfirmPlaceOrder places the order built from the caller's cart.
func ConfirmPlaceOrder(svc checkout.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	const action = "confirm_place_order"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}

		input := checkout.PlaceOrderInput{
			TermsProvided:       payload.AgreeToTermsOfSale != nil,
			PaymentIntentID:     payload.PaymentIntentID,
			StripeCustomerToken: payload.StripeCustomerToken,
			Email:               payload.EmailAddress,
			Card:                payload.Card.toSnapshot(),
			ShippingAddress:     payload.ShippingAddress.toAddress(),
			BillingAddress:      payload.BillingAddress.toAddress(),
		}
		if payload.AgreeToTermsOfSale != nil {
			input.TermsAgreed = *payload.AgreeToTermsOfSale
		}

		caller := middleware.IdentityFromContext(r.Context())
		result, err := svc.PlaceOrder(r.Context(), caller, input)
		if err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		if caller.HasAnonymousCart() {
			middleware.ClearAnonymousCartCookie(w, cookieCfg)
		}
		responses.WriteAction(w, action, types.Payload{"order_identifier": result.OrderIdentifier})
	}
}

type paymentTokenRequest struct {
	StripeToken  string      `json:"stripe_token" validate:"required"`
	EmailAddress string      `json:"email_address"`
	Card         cardRequest `json:"card"`
}

// ProcessStripePaymentToken exchanges a card token for a Stripe customer
// bound to the buyer.
func ProcessStripePaymentToken(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "process_stripe_payment_token"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		caller := middleware.IdentityFromContext(r.Context())
		if err := svc.ProcessPaymentToken(r.Context(), caller, payload.StripeToken, payload.EmailAddress, payload.Card.toSnapshot()); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}

type createSessionRequest struct {
	AgreeToTermsOfSale *bool `json:"agree_to_terms_of_sale"`
}

// CreateCheckoutSession opens a Stripe hosted checkout session for the cart.
func CreateCheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "create_checkout_session"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		termsProvided := payload.AgreeToTermsOfSale != nil
		termsAgreed := termsProvided && *payload.AgreeToTermsOfSale

		caller := middleware.IdentityFromContext(r.Context())
		result, err := svc.CreateCheckoutSession(r.Context(), caller, termsProvided, termsAgreed)
		if err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, types.Payload{
			"checkout_session_id":  result.SessionID,
			"checkout_session_url": result.URL,
		})
	}
}

// CheckoutSessionSuccess places the order for a completed hosted checkout
// session when the buyer returns before the webhook lands.
func CheckoutSessionSuccess(svc checkout.Service, cookieCfg config.CookieConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.CompleteCheckoutSession(r.Context(), r.URL.Query().Get("session_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if middleware.IdentityFromContext(r.Context()).HasAnonymousCart() {
			middleware.ClearAnonymousCartCookie(w, cookieCfg)
		}
		responses.Write(w, types.Payload{"order_identifier": result.OrderIdentifier})
	}
}

type emailLookupRequest struct {
	EmailAddress string `json:"email_address"`
}

// AnonymousEmailLookup captures the buyer's email before an anonymous
// checkout, rejecting addresses that belong to a member account.
func AnonymousEmailLookup(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "anonymous_email_address_payment_lookup"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload emailLookupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		if err := svc.AnonymousEmailLookup(r.Context(), payload.EmailAddress); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}

type changeEmailRequest struct {
	OrderIdentifier string `json:"order_identifier" validate:"required"`
	EmailAddress    string `json:"email_address" validate:"required,email"`
}

// ChangeConfirmationEmail redirects a pending confirmation email to a new
// address.
func ChangeConfirmationEmail(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "change_confirmation_email_address"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload changeEmailRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		if err := svc.ChangeConfirmationEmail(r.Context(), payload.OrderIdentifier, payload.EmailAddress); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}
