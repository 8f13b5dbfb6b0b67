package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v84"

	"github.com/startupwebapp/storefront-backend/internal/checkout"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
)

type orderPlacer interface {
	PlaceOrderFromSession(ctx context.Context, session *stripe.CheckoutSession) (*checkout.PlaceOrderResult, error)
}

// ServiceParams collects the webhook handler dependencies.
type ServiceParams struct {
	Checkout orderPlacer
	Guard    *IdempotencyGuard
	Logger   *logger.Logger
}

// Service turns verified Stripe events into storefront actions. Hosted
// checkout completion is the only event that mutates state: it places the
// order the session paid for.
type Service struct {
	checkout orderPlacer
	guard    *IdempotencyGuard
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Checkout == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	return &Service{
		checkout: params.Checkout,
		guard:    params.Guard,
		logg:     params.Logger,
	}, nil
}

// HandleEvent dispatches one verified webhook event. Unknown event types are
// acknowledged without action so Stripe stops retrying them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return apperrors.New(apperrors.CodeValidation, "stripe event data required")
	}

	duplicate, err := s.guard.CheckAndMark(ctx, event.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "webhook idempotency check")
	}
	if duplicate {
		s.logInfo(ctx, fmt.Sprintf("skipping duplicate stripe event %s", event.ID))
		return nil
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		if err := s.handleSessionCompleted(ctx, event); err != nil {
			// Release the id so Stripe's retry gets another attempt.
			if delErr := s.guard.Delete(ctx, event.ID); delErr != nil {
				s.logError(ctx, delErr, "failed to release webhook idempotency key")
			}
			return err
		}
		return nil
	case stripe.EventTypeCheckoutSessionExpired:
		s.logInfo(ctx, fmt.Sprintf("checkout session expired, event %s", event.ID))
		return nil
	default:
		return nil
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "decode checkout session event")
	}

	result, err := s.checkout.PlaceOrderFromSession(ctx, &session)
	if err != nil {
		return err
	}
	if result.AlreadyPlaced {
		s.logInfo(ctx, fmt.Sprintf("order %s already placed, event %s", result.OrderIdentifier, event.ID))
	} else {
		s.logInfo(ctx, fmt.Sprintf("order %s placed from stripe webhook, event %s", result.OrderIdentifier, event.ID))
	}
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Info(ctx, msg)
	}
}

func (s *Service) logError(ctx context.Context, err error, msg string) {
	if s.logg != nil {
		s.logg.Error(ctx, msg, err)
	}
}
