package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/internal/cart"
	"github.com/startupwebapp/storefront-backend/internal/identity"
	"github.com/startupwebapp/storefront-backend/internal/orderconfig"
	"github.com/startupwebapp/storefront-backend/internal/pricing"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/outbox"
	"github.com/startupwebapp/storefront-backend/pkg/random"
)

// Session metadata keys linking a Stripe checkout session back to a cart.
const (
	metadataCartID          = "cart_id"
	metadataMemberID        = "member_id"
	metadataAnonymousCartID = "anonymous_cart_id"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartService interface {
	Find(ctx context.Context, caller identity.Identity) (*models.Cart, error)
	Items(ctx context.Context, caller identity.Identity) ([]cart.ItemView, error)
	DeleteCart(ctx context.Context, caller identity.Identity) error
}

type outboxWriter interface {
	Emit(ctx context.Context, tx *gorm.DB, intent outbox.EmailIntent) error
}

// Address is a checkout address payload.
type Address struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// CardSnapshot carries the non-sensitive card display fields.
type CardSnapshot struct {
	Brand    string
	Last4    string
	ExpMonth int
	ExpYear  int
}

// PlaceOrderInput is the confirm-place-order payload.
type PlaceOrderInput struct {
	TermsProvided       bool
	TermsAgreed         bool
	PaymentIntentID     string
	StripeCustomerToken string
	Card                CardSnapshot
	Email               string
	ShippingAddress     Address
	BillingAddress      Address
}

// PlaceOrderResult reports the placed (or previously placed) order.
type PlaceOrderResult struct {
	OrderIdentifier string
	AlreadyPlaced   bool
}

// SessionResult is the created Stripe checkout session.
type SessionResult struct {
	SessionID string
	URL       string
}

// Service orchestrates order placement.
type Service interface {
	CheckoutAllowed(ctx context.Context, caller identity.Identity) (bool, error)
	PlaceOrder(ctx context.Context, caller identity.Identity, input PlaceOrderInput) (*PlaceOrderResult, error)
	ProcessPaymentToken(ctx context.Context, caller identity.Identity, token, email string, card CardSnapshot) error
	CreateCheckoutSession(ctx context.Context, caller identity.Identity, termsProvided, termsAgreed bool) (*SessionResult, error)
	CompleteCheckoutSession(ctx context.Context, sessionID string) (*PlaceOrderResult, error)
	PlaceOrderFromSession(ctx context.Context, session *stripe.CheckoutSession) (*PlaceOrderResult, error)
	ChangeConfirmationEmail(ctx context.Context, orderIdentifier, email string) error
}

type service struct {
	repo       *Repository
	carts      cartService
	configs    orderconfig.Service
	outbox     outboxWriter
	outboxRepo *outbox.Repository
	stripeAPI  StripeCheckoutClient
	tx         txRunner
	logg       *logger.Logger
	successURL string
	cancelURL  string
}

// ServiceParams collects the checkout service dependencies.
type ServiceParams struct {
	Repo       *Repository
	Carts      cartService
	Configs    orderconfig.Service
	Outbox     outboxWriter
	OutboxRepo *outbox.Repository
	Stripe     StripeCheckoutClient
	Tx         txRunner
	Logger     *logger.Logger
	SuccessURL string
	CancelURL  string
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Configs == nil {
		return nil, fmt.Errorf("order configuration service required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox writer required")
	}
	if params.OutboxRepo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:       params.Repo,
		carts:      params.Carts,
		configs:    params.Configs,
		outbox:     params.Outbox,
		outboxRepo: params.OutboxRepo,
		stripeAPI:  params.Stripe,
		tx:         params.Tx,
		logg:       params.Logger,
		successURL: params.SuccessURL,
		cancelURL:  params.CancelURL,
	}, nil
}

// CheckoutAllowed evaluates the configured allow-lists for the caller.
func (s *service) CheckoutAllowed(ctx context.Context, caller identity.Identity) (bool, error) {
	snap, err := s.configs.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	if caller.IsMember() {
		return snap.CheckoutAllowedForUsername(caller.Username), nil
	}
	return snap.CheckoutAllowedForAnonymousID(caller.AnonymousCartID), nil
}

// PlaceOrder materializes the caller's cart into an order. A repeated call
// with the same payment intent returns the existing order untouched.
func (s *service) PlaceOrder(ctx context.Context, caller identity.Identity, input PlaceOrderInput) (*PlaceOrderResult, error) {
	allowed, err := s.CheckoutAllowed(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.New(apperrors.CodeForbidden, "checkout-not-allowed")
	}
	if !input.TermsProvided {
		return nil, apperrors.New(apperrors.CodeValidation, "agree-to-terms-of-sale-required")
	}
	if !input.TermsAgreed {
		return nil, apperrors.New(apperrors.CodeValidation, "agree-to-terms-of-sale-must-be-checked")
	}
	if strings.TrimSpace(input.PaymentIntentID) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "payment-not-completed")
	}

	if existing, err := s.existingOrder(ctx, input.PaymentIntentID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	loadedCart, err := s.carts.Find(ctx, caller)
	if err != nil {
		return nil, err
	}
	if loadedCart == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "cart-not-found")
	}

	return s.materialize(ctx, caller, loadedCart, input)
}

func (s *service) existingOrder(ctx context.Context, intentID string) (*PlaceOrderResult, error) {
	payment, err := s.repo.FindPaymentByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, nil
	}
	order, err := s.repo.FindOrderByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return &PlaceOrderResult{OrderIdentifier: order.Identifier, AlreadyPlaced: true}, nil
}

// materialize runs the single-transaction order build, then the post-commit
// cart cleanup.
func (s *service) materialize(ctx context.Context, caller identity.Identity, loadedCart *models.Cart, input PlaceOrderInput) (*PlaceOrderResult, error) {
	snap, err := s.configs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	totals := pricing.Calculate(cart.PricingInput(loadedCart, time.Now()))

	memberID, prospectEmail, recipient, err := s.resolvePurchaser(ctx, caller, input.Email)
	if err != nil {
		return nil, err
	}

	identifier, err := random.OrderIdentifier()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "error-saving-order").Public()
	}
	var orderID uuid.UUID

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		var prospectID *uuid.UUID
		if memberID == nil {
			prospect, err := s.ensureProspect(ctx, txRepo, prospectEmail)
			if err != nil {
				return err
			}
			prospectID = &prospect.ID
		}

		payment := &models.OrderPayment{
			StripePaymentIntentID: input.PaymentIntentID,
			StripeCustomerToken:   input.StripeCustomerToken,
			Amount:                totals.Total,
			CardBrand:             input.Card.Brand,
			CardLast4:             input.Card.Last4,
			CardExpMonth:          input.Card.ExpMonth,
			CardExpYear:           input.Card.ExpYear,
		}
		if err := txRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		shipping := orderShippingAddress(input.ShippingAddress, loadedCart)
		if err := txRepo.CreateShippingAddress(ctx, shipping); err != nil {
			return err
		}
		billing := orderBillingAddress(input.BillingAddress, input.ShippingAddress, loadedCart)
		if err := txRepo.CreateBillingAddress(ctx, billing); err != nil {
			return err
		}

		order := &models.Order{
			Identifier:        identifier,
			MemberID:          memberID,
			ProspectID:        prospectID,
			PaymentID:         payment.ID,
			ShippingAddressID: shipping.ID,
			BillingAddressID:  billing.ID,
			ItemSubtotal:      totals.Subtotal,
			ItemDiscount:      totals.ItemDiscount,
			ShippingSubtotal:  totals.ShippingCost,
			ShippingDiscount:  totals.ShippingDiscount,
			Total:             totals.Total,
			AgreedWithTerms:   true,
			OrderedAt:         time.Now().UTC(),
		}
		if err := txRepo.CreateOrder(ctx, order); err != nil {
			return err
		}
		orderID = order.ID

		for _, line := range loadedCart.SKUs {
			priceEach := decimal.Zero
			if line.SKU != nil {
				if price := line.SKU.CurrentPrice(); price != nil {
					priceEach = price.Price
				}
			}
			if err := txRepo.CreateOrderSKU(ctx, &models.OrderSKU{
				OrderID:   order.ID,
				SKUID:     line.SKUID,
				Quantity:  line.Quantity,
				PriceEach: priceEach,
			}); err != nil {
				return err
			}
		}

		for _, attached := range loadedCart.Discounts {
			if attached.DiscountCode == nil {
				continue
			}
			if err := txRepo.CreateOrderDiscount(ctx, &models.OrderDiscount{
				OrderID:        order.ID,
				DiscountCodeID: attached.DiscountCodeID,
				Applied:        totals.Applied[attached.DiscountCode.Code],
			}); err != nil {
				return err
			}
		}

		if snap.InitialOrderStatus != "" {
			status, err := txRepo.FindStatusByName(ctx, snap.InitialOrderStatus)
			if err != nil {
				return err
			}
			if status != nil {
				if err := txRepo.CreateOrderStatus(ctx, &models.OrderStatus{
					OrderID:  order.ID,
					StatusID: status.ID,
				}); err != nil {
					return err
				}
			}
		}

		if loadedCart.ShippingMethod != nil && loadedCart.ShippingMethod.ShippingMethod != nil {
			if err := txRepo.CreateOrderShippingMethod(ctx, &models.OrderShippingMethod{
				OrderID:          order.ID,
				ShippingMethodID: loadedCart.ShippingMethod.ShippingMethodID,
				Cost:             loadedCart.ShippingMethod.ShippingMethod.Cost,
			}); err != nil {
				return err
			}
		}

		emCd := snap.MemberConfirmationEmCd
		if memberID == nil {
			emCd = snap.ProspectConfirmationEmCd
		}
		if emCd != "" {
			if err := s.outbox.Emit(ctx, tx, outbox.EmailIntent{
				OrderID:    &order.ID,
				MemberID:   memberID,
				ProspectID: prospectID,
				EmCd:       emCd,
				Recipient:  recipient,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if apperrors.As(txErr) != nil {
			return nil, txErr
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, txErr, "error-saving-order").Public()
	}

	// The order is committed; cart cleanup must not fail placement. A failed
	// delete is recorded for manual follow-up.
	if err := s.carts.DeleteCart(ctx, caller); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "failed to delete cart after order placement", err)
		}
		failure := &models.OrderEmailFailure{
			OrderID:     orderID,
			FailureType: enums.EmailFailureCartDelete,
			ErrorText:   err.Error(),
		}
		if recordErr := s.repo.RecordEmailFailure(ctx, failure); recordErr != nil && s.logg != nil {
			s.logg.Error(ctx, "failed to record cart delete failure", recordErr)
		}
	}

	return &PlaceOrderResult{OrderIdentifier: identifier}, nil
}

func (s *service) resolvePurchaser(ctx context.Context, caller identity.Identity, email string) (*uuid.UUID, string, string, error) {
	if caller.IsMember() {
		member, err := s.repo.FindMember(ctx, *caller.MemberID)
		if err != nil {
			return nil, "", "", err
		}
		if member == nil {
			return nil, "", "", apperrors.New(apperrors.CodeUnauthorized, "invalid-session")
		}
		return caller.MemberID, "", member.Email, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", "", apperrors.New(apperrors.CodeValidation, "email-address-required")
	}
	member, err := s.repo.FindMemberByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if member != nil {
		return nil, "", "", apperrors.New(apperrors.CodeConflict, "email-address-is-associated-with-member")
	}
	return nil, email, email, nil
}

func (s *service) ensureProspect(ctx context.Context, txRepo *Repository, email string) (*models.Prospect, error) {
	prospect, err := txRepo.FindProspectByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if prospect != nil {
		return prospect, nil
	}
	prCd, err := random.String(24)
	if err != nil {
		return nil, err
	}
	prospect = &models.Prospect{
		Email: email,
		PrCd:  prCd,
	}
	if err := txRepo.CreateProspect(ctx, prospect); err != nil {
		return nil, err
	}
	return prospect, nil
}

// ProcessPaymentToken exchanges a Stripe card token for a customer and
// snapshots it on the cart for the confirm flow.
func (s *service) ProcessPaymentToken(ctx context.Context, caller identity.Identity, token, email string, card CardSnapshot) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.New(apperrors.CodeValidation, "stripe-token-required")
	}
	loadedCart, err := s.carts.Find(ctx, caller)
	if err != nil {
		return err
	}
	if loadedCart == nil {
		return apperrors.New(apperrors.CodeNotFound, "cart-not-found")
	}

	params := &stripe.CustomerParams{Source: stripe.String(token)}
	if email != "" {
		params.Email = stripe.String(email)
	}

	existingToken := ""
	if loadedCart.Payment != nil {
		existingToken = loadedCart.Payment.StripeCustomerToken
	}

	var customerID string
	if existingToken != "" {
		updated, err := s.stripeAPI.UpdateCustomer(ctx, existingToken, params)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "error-creating-stripe-customer").Public()
		}
		customerID = updated.ID
	} else {
		created, err := s.stripeAPI.CreateCustomer(ctx, params)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeDependency, err, "error-creating-stripe-customer").Public()
		}
		customerID = created.ID
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", loadedCart.ID).Delete(&models.CartPayment{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.CartPayment{
			ID:                  uuid.New(),
			CartID:              loadedCart.ID,
			StripeCustomerToken: customerID,
			CardBrand:           card.Brand,
			CardLast4:           card.Last4,
			CardExpMonth:        card.ExpMonth,
			CardExpYear:         card.ExpYear,
		}).Error
	})
}

// CreateCheckoutSession builds a Stripe-hosted checkout for the cart.
func (s *service) CreateCheckoutSession(ctx context.Context, caller identity.Identity, termsProvided, termsAgreed bool) (*SessionResult, error) {
	allowed, err := s.CheckoutAllowed(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.New(apperrors.CodeForbidden, "checkout-not-allowed")
	}
	if !termsProvided {
		return nil, apperrors.New(apperrors.CodeValidation, "agree-to-terms-of-sale-required")
	}
	if !termsAgreed {
		return nil, apperrors.New(apperrors.CodeValidation, "agree-to-terms-of-sale-must-be-checked")
	}

	loadedCart, err := s.carts.Find(ctx, caller)
	if err != nil {
		return nil, err
	}
	if loadedCart == nil || len(loadedCart.SKUs) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "cart-not-found")
	}
	items, err := s.carts.Items(ctx, caller)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Metadata = map[string]string{metadataCartID: loadedCart.ID.String()}
	if caller.IsMember() {
		params.Metadata[metadataMemberID] = caller.MemberID.String()
	} else {
		params.Metadata[metadataAnonymousCartID] = caller.AnonymousCartID
	}

	for _, item := range items {
		name := item.ProductTitle
		if name == "" {
			name = item.SKUID
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(dollarsToCents(item.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
		})
	}
	if loadedCart.ShippingMethod != nil && loadedCart.ShippingMethod.ShippingMethod != nil {
		method := loadedCart.ShippingMethod.ShippingMethod
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(dollarsToCents(method.Cost)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Shipping: " + method.DisplayName),
				},
			},
		})
	}

	created, err := s.stripeAPI.CreateSession(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to create checkout session")
	}
	return &SessionResult{SessionID: created.ID, URL: created.URL}, nil
}

// CompleteCheckoutSession fetches the session and places the order when
// payment settled. Used by the success redirect; the webhook takes the same
// path through PlaceOrderFromSession.
func (s *service) CompleteCheckoutSession(ctx context.Context, sessionID string) (*PlaceOrderResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "session-id-required")
	}
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent")
	loaded, err := s.stripeAPI.GetSession(ctx, sessionID, params)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "invalid-session")
	}
	return s.PlaceOrderFromSession(ctx, loaded)
}

// PlaceOrderFromSession places the order recorded in a completed session.
func (s *service) PlaceOrderFromSession(ctx context.Context, session *stripe.CheckoutSession) (*PlaceOrderResult, error) {
	if session == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid-session")
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, apperrors.New(apperrors.CodeValidation, "payment-not-completed")
	}
	intentID := ""
	if session.PaymentIntent != nil {
		intentID = session.PaymentIntent.ID
	}
	if intentID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "payment-not-completed")
	}

	if existing, err := s.existingOrder(ctx, intentID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	caller, err := callerFromMetadata(session.Metadata)
	if err != nil {
		return nil, err
	}
	loadedCart, err := s.carts.Find(ctx, caller)
	if err != nil {
		return nil, err
	}
	if loadedCart == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "cart-not-found")
	}

	email := ""
	if session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	input := PlaceOrderInput{
		TermsProvided:   true,
		TermsAgreed:     true,
		PaymentIntentID: intentID,
		Email:           email,
	}
	return s.materialize(ctx, caller, loadedCart, input)
}

// ChangeConfirmationEmail redirects a not-yet-delivered confirmation email.
func (s *service) ChangeConfirmationEmail(ctx context.Context, orderIdentifier, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.New(apperrors.CodeValidation, "email-address-required")
	}
	member, err := s.repo.FindMemberByEmail(ctx, email)
	if err != nil {
		return err
	}
	if member != nil {
		return apperrors.New(apperrors.CodeConflict, "email-address-is-associated-with-member")
	}
	order, err := s.repo.FindOrderByIdentifier(ctx, orderIdentifier)
	if err != nil {
		return err
	}
	if order == nil {
		return apperrors.New(apperrors.CodeNotFound, "order-not-found")
	}
	return s.outboxRepo.UpdateRecipient(ctx, order.ID, email)
}

func callerFromMetadata(metadata map[string]string) (identity.Identity, error) {
	if raw, ok := metadata[metadataMemberID]; ok && raw != "" {
		memberID, err := uuid.Parse(raw)
		if err != nil {
			return identity.Identity{}, apperrors.New(apperrors.CodeValidation, "invalid-session")
		}
		return identity.Member(memberID, ""), nil
	}
	if raw, ok := metadata[metadataAnonymousCartID]; ok && raw != "" {
		return identity.Anonymous(raw), nil
	}
	return identity.Identity{}, apperrors.New(apperrors.CodeValidation, "invalid-session")
}

func orderShippingAddress(input Address, loadedCart *models.Cart) *models.OrderShippingAddress {
	address := &models.OrderShippingAddress{
		Name:       input.Name,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	}
	if address.Line1 == "" && loadedCart.ShippingAddress != nil {
		stored := loadedCart.ShippingAddress
		address.Name = stored.Name
		address.Line1 = stored.Line1
		address.Line2 = stored.Line2
		address.City = stored.City
		address.State = stored.State
		address.PostalCode = stored.PostalCode
		address.Country = stored.Country
	}
	return address
}

func orderBillingAddress(billing, shipping Address, loadedCart *models.Cart) *models.OrderBillingAddress {
	address := &models.OrderBillingAddress{
		Name:       billing.Name,
		Line1:      billing.Line1,
		Line2:      billing.Line2,
		City:       billing.City,
		State:      billing.State,
		PostalCode: billing.PostalCode,
		Country:    billing.Country,
	}
	if address.Line1 == "" {
		fallback := orderShippingAddress(shipping, loadedCart)
		address.Name = fallback.Name
		address.Line1 = fallback.Line1
		address.Line2 = fallback.Line2
		address.City = fallback.City
		address.State = fallback.State
		address.PostalCode = fallback.PostalCode
		address.Country = fallback.Country
	}
	return address
}

func dollarsToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
