package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/startupwebapp/storefront-backend/api/responses"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
)

type stripeEventHandler interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeSigningClient interface {
	SigningSecret() string
}

// StripeWebhook verifies the event signature and hands checkout session
// events to the webhook service.
func StripeWebhook(svc stripeEventHandler, client stripeSigningClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, apperrors.Wrap(apperrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			responses.WriteError(ctx, logg, w, apperrors.New(apperrors.CodeValidation, "stripe signature missing"))
			return
		}

		event, err := webhook.ConstructEvent(payload, sigHeader, client.SigningSecret())
		if err != nil {
			responses.WriteError(ctx, logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "signature-invalid"))
			return
		}

		if err := svc.HandleEvent(ctx, &event); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.Write(w, nil)
	}
}
