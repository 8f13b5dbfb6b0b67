package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/internal/identity"
	"github.com/startupwebapp/storefront-backend/internal/orderconfig"
	"github.com/startupwebapp/storefront-backend/internal/pricing"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
)

const (
	maxLineQuantity  = 99
	casRetryAttempts = 2
)

var errStaleCart = errors.New("cart version changed")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type skuFinder interface {
	FindSKU(ctx context.Context, id string) (*models.SKU, error)
}

type discountFinder interface {
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

type shippingCatalog interface {
	ListActive(ctx context.Context) ([]models.ShippingMethod, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.ShippingMethod, error)
}

// MutationResult is returned by every cart mutation: the refreshed price
// breakdown plus, when a cart was just created for a cookie-less caller, the
// anonymous id the controller must set as a signed cookie.
type MutationResult struct {
	Totals             TotalsView
	Discounts          []DiscountView
	NewAnonymousCartID string
}

// Service exposes the cart aggregate's operations.
type Service interface {
	Find(ctx context.Context, caller identity.Identity) (*models.Cart, error)
	Items(ctx context.Context, caller identity.Identity) ([]ItemView, error)
	ShippingMethods(ctx context.Context, caller identity.Identity) ([]ShippingMethodView, error)
	DiscountCodes(ctx context.Context, caller identity.Identity) ([]DiscountView, error)
	Totals(ctx context.Context, caller identity.Identity) (TotalsView, error)
	AddSKU(ctx context.Context, caller identity.Identity, skuID string, quantity int) (*MutationResult, error)
	UpdateQuantity(ctx context.Context, caller identity.Identity, skuID string, quantity int) (*MutationResult, error)
	RemoveSKU(ctx context.Context, caller identity.Identity, skuID string) (*MutationResult, error)
	SetShippingMethod(ctx context.Context, caller identity.Identity, identifier string) (*MutationResult, error)
	ApplyDiscount(ctx context.Context, caller identity.Identity, code string) (*MutationResult, error)
	RemoveDiscount(ctx context.Context, caller identity.Identity, code string) (*MutationResult, error)
	DeleteCart(ctx context.Context, caller identity.Identity) error
	MergeOnLogin(ctx context.Context, memberID uuid.UUID, anonymousCartID string) error
}

type service struct {
	repo      *Repository
	skus      skuFinder
	discounts discountFinder
	shipping  shippingCatalog
	configs   orderconfig.Service
	tx        txRunner
}

// ServiceParams collects the cart service dependencies.
type ServiceParams struct {
	Repo      *Repository
	SKUs      skuFinder
	Discounts discountFinder
	Shipping  shippingCatalog
	Configs   orderconfig.Service
	Tx        txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.SKUs == nil {
		return nil, fmt.Errorf("sku finder required")
	}
	if params.Discounts == nil {
		return nil, fmt.Errorf("discount code repository required")
	}
	if params.Shipping == nil {
		return nil, fmt.Errorf("shipping method repository required")
	}
	if params.Configs == nil {
		return nil, fmt.Errorf("order configuration service required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      params.Repo,
		skus:      params.SKUs,
		discounts: params.Discounts,
		shipping:  params.Shipping,
		configs:   params.Configs,
		tx:        params.Tx,
	}, nil
}

// Find returns the caller's cart with its full graph, or nil when the caller
// has none.
func (s *service) Find(ctx context.Context, caller identity.Identity) (*models.Cart, error) {
	if caller.IsMember() {
		return s.repo.FindByMember(ctx, *caller.MemberID)
	}
	if caller.HasAnonymousCart() {
		return s.repo.FindByAnonymousID(ctx, caller.AnonymousCartID)
	}
	return nil, nil
}

func (s *service) Items(ctx context.Context, caller identity.Identity) ([]ItemView, error) {
	cart, err := s.Find(ctx, caller)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []ItemView{}, nil
	}
	skuIDs := make([]uuid.UUID, 0, len(cart.SKUs))
	for _, line := range cart.SKUs {
		skuIDs = append(skuIDs, line.SKUID)
	}
	products, err := s.repo.ProductsForSKUs(ctx, skuIDs)
	if err != nil {
		return nil, err
	}
	return itemViews(cart, products), nil
}

// ShippingMethods lists the selectable methods. When the caller's cart has no
// selection yet, the configured default is selected on the way out.
func (s *service) ShippingMethods(ctx context.Context, caller identity.Identity) ([]ShippingMethodView, error) {
	methods, err := s.shipping.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.Find(ctx, caller)
	if err != nil {
		return nil, err
	}

	selected := ""
	if cart != nil && cart.ShippingMethod != nil && cart.ShippingMethod.ShippingMethod != nil {
		selected = cart.ShippingMethod.ShippingMethod.Identifier
	}
	if cart != nil && selected == "" {
		if identifier := s.selectDefaultMethod(ctx, cart); identifier != "" {
			selected = identifier
		}
	}

	views := make([]ShippingMethodView, 0, len(methods))
	for _, method := range methods {
		views = append(views, ShippingMethodView{
			Identifier:  method.Identifier,
			DisplayName: method.DisplayName,
			Carrier:     method.Carrier,
			Cost:        method.Cost,
			Selected:    method.Identifier == selected,
		})
	}
	return views, nil
}

// selectDefaultMethod persists the configured default selection. Best effort:
// a concurrent mutation or a missing default leaves the cart unselected.
func (s *service) selectDefaultMethod(ctx context.Context, cart *models.Cart) string {
	snap, err := s.configs.Snapshot(ctx)
	if err != nil || snap.DefaultShippingMethod == "" {
		return ""
	}
	method, err := s.shipping.FindByIdentifier(ctx, snap.DefaultShippingMethod)
	if err != nil || method == nil {
		return ""
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ok, err := txRepo.BumpVersion(ctx, cart.ID, cart.Version)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleCart
		}
		return txRepo.SetShippingMethod(ctx, cart.ID, method.ID)
	})
	if err != nil {
		return ""
	}
	return method.Identifier
}

func (s *service) DiscountCodes(ctx context.Context, caller identity.Identity) ([]DiscountView, error) {
	cart, err := s.Find(ctx, caller)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []DiscountView{}, nil
	}
	totals := pricing.Calculate(PricingInput(cart, time.Now()))
	return discountViews(cart, totals.Applied), nil
}

func (s *service) Totals(ctx context.Context, caller identity.Identity) (TotalsView, error) {
	cart, err := s.Find(ctx, caller)
	if err != nil {
		return TotalsView{}, err
	}
	return totalsView(pricing.Calculate(PricingInput(cart, time.Now()))), nil
}

func (s *service) AddSKU(ctx context.Context, caller identity.Identity, skuID string, quantity int) (*MutationResult, error) {
	parsedSKU, err := parseSKUID(skuID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > maxLineQuantity {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity-out-of-range")
	}
	sku, err := s.skus.FindSKU(ctx, parsedSKU.String())
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "sku-not-found")
	}

	return s.mutate(ctx, caller, true, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		line, err := txRepo.FindLine(ctx, cart.ID, parsedSKU)
		if err != nil {
			return err
		}
		if line == nil {
			line = &models.CartSKU{CartID: cart.ID, SKUID: parsedSKU, Quantity: quantity}
		} else {
			line.Quantity += quantity
			if line.Quantity > maxLineQuantity {
				line.Quantity = maxLineQuantity
			}
		}
		return txRepo.SaveLine(ctx, line)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, caller identity.Identity, skuID string, quantity int) (*MutationResult, error) {
	parsedSKU, err := parseSKUID(skuID)
	if err != nil {
		return nil, err
	}
	if quantity < 0 || quantity > maxLineQuantity {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity-out-of-range")
	}
	if quantity == 0 {
		return s.RemoveSKU(ctx, caller, skuID)
	}

	return s.mutate(ctx, caller, false, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		line, err := txRepo.FindLine(ctx, cart.ID, parsedSKU)
		if err != nil {
			return err
		}
		if line == nil {
			return apperrors.New(apperrors.CodeNotFound, "cart-sku-not-found")
		}
		line.Quantity = quantity
		return txRepo.SaveLine(ctx, line)
	})
}

// RemoveSKU drops the line and clears the cart's shipping-method selection,
// since the remaining contents may qualify for different methods.
func (s *service) RemoveSKU(ctx context.Context, caller identity.Identity, skuID string) (*MutationResult, error) {
	parsedSKU, err := parseSKUID(skuID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, caller, false, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		line, err := txRepo.FindLine(ctx, cart.ID, parsedSKU)
		if err != nil {
			return err
		}
		if line == nil {
			return apperrors.New(apperrors.CodeNotFound, "cart-sku-not-found")
		}
		if err := txRepo.DeleteLine(ctx, cart.ID, parsedSKU); err != nil {
			return err
		}
		return txRepo.ClearShippingMethod(ctx, cart.ID)
	})
}

func (s *service) SetShippingMethod(ctx context.Context, caller identity.Identity, identifier string) (*MutationResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "shipping-method-identifier-required")
	}
	method, err := s.shipping.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "error-setting-cart-shipping-method")
	}

	result, err := s.mutate(ctx, caller, false, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		return txRepo.SetShippingMethod(ctx, cart.ID, method.ID)
	})
	if err != nil {
		if apperrors.As(err) == nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "error-setting-cart-shipping-method").Public()
		}
		return nil, err
	}
	return result, nil
}

func (s *service) ApplyDiscount(ctx context.Context, caller identity.Identity, code string) (*MutationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "discount-code-required")
	}
	discount, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "cart-discount-code-not-found")
	}
	if !discount.ActiveAt(time.Now()) {
		return nil, apperrors.New(apperrors.CodeValidation, "cart-discount-code-not-active")
	}

	return s.mutate(ctx, caller, false, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		for _, attached := range cart.Discounts {
			if attached.DiscountCodeID == discount.ID {
				return apperrors.New(apperrors.CodeConflict, "cart-discount-code-already-applied")
			}
		}
		return txRepo.AddDiscount(ctx, &models.CartDiscount{
			CartID:         cart.ID,
			DiscountCodeID: discount.ID,
		})
	})
}

func (s *service) RemoveDiscount(ctx context.Context, caller identity.Identity, code string) (*MutationResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "discount-code-required")
	}
	discount, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "cart-discount-code-not-found")
	}

	return s.mutate(ctx, caller, false, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		return txRepo.RemoveDiscount(ctx, cart.ID, discount.ID)
	})
}

func (s *service) DeleteCart(ctx context.Context, caller identity.Identity) error {
	_, err := s.mutate(ctx, caller, false, func(ctx context.Context, txRepo *Repository, cart *models.Cart) error {
		return txRepo.Delete(ctx, cart.ID)
	})
	return err
}

// MergeOnLogin folds the anonymous cart into the member's cart. When the
// member has none, the anonymous cart is simply claimed; otherwise line
// quantities are summed per SKU and the anonymous cart removed.
func (s *service) MergeOnLogin(ctx context.Context, memberID uuid.UUID, anonymousCartID string) error {
	if anonymousCartID == "" {
		return nil
	}
	anonCart, err := s.repo.FindByAnonymousID(ctx, anonymousCartID)
	if err != nil {
		return err
	}
	if anonCart == nil {
		return nil
	}
	memberCart, err := s.repo.FindByMember(ctx, memberID)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if memberCart == nil {
			ok, err := txRepo.BumpVersion(ctx, anonCart.ID, anonCart.Version)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.New(apperrors.CodeStateConflict, "cart-version-conflict")
			}
			return tx.Model(&models.Cart{}).
				Where("id = ?", anonCart.ID).
				Updates(map[string]any{
					"member_id":         memberID,
					"anonymous_cart_id": nil,
				}).Error
		}

		ok, err := txRepo.BumpVersion(ctx, memberCart.ID, memberCart.Version)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.New(apperrors.CodeStateConflict, "cart-version-conflict")
		}
		for _, anonLine := range anonCart.SKUs {
			line, err := txRepo.FindLine(ctx, memberCart.ID, anonLine.SKUID)
			if err != nil {
				return err
			}
			if line == nil {
				line = &models.CartSKU{
					CartID:   memberCart.ID,
					SKUID:    anonLine.SKUID,
					Quantity: anonLine.Quantity,
				}
			} else {
				line.Quantity += anonLine.Quantity
				if line.Quantity > maxLineQuantity {
					line.Quantity = maxLineQuantity
				}
			}
			if err := txRepo.SaveLine(ctx, line); err != nil {
				return err
			}
		}
		return txRepo.Delete(ctx, anonCart.ID)
	})
}

type mutationFn func(ctx context.Context, txRepo *Repository, cart *models.Cart) error

// mutate runs fn against the caller's cart under the version check, retrying
// once on a concurrent write.
func (s *service) mutate(ctx context.Context, caller identity.Identity, createIfMissing bool, fn mutationFn) (*MutationResult, error) {
	newAnonymousID := ""
	for attempt := 0; attempt < casRetryAttempts; attempt++ {
		cart, err := s.Find(ctx, caller)
		if err != nil {
			return nil, err
		}
		if cart == nil {
			if !createIfMissing {
				return nil, apperrors.New(apperrors.CodeNotFound, "cart-not-found")
			}
			cart, newAnonymousID, err = s.createCart(ctx, caller)
			if err != nil {
				return nil, err
			}
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			ok, err := txRepo.BumpVersion(ctx, cart.ID, cart.Version)
			if err != nil {
				return err
			}
			if !ok {
				return errStaleCart
			}
			return fn(ctx, txRepo, cart)
		})
		if errors.Is(err, errStaleCart) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.buildResult(ctx, caller, newAnonymousID)
	}
	return nil, apperrors.New(apperrors.CodeStateConflict, "cart-version-conflict")
}

// createCart lazily creates the caller's cart. A cookie-less caller gets a
// fresh anonymous id, which the controller turns into a signed cookie.
func (s *service) createCart(ctx context.Context, caller identity.Identity) (*models.Cart, string, error) {
	cart := &models.Cart{}
	newAnonymousID := ""
	switch {
	case caller.IsMember():
		cart.MemberID = caller.MemberID
	case caller.HasAnonymousCart():
		anonID := caller.AnonymousCartID
		cart.AnonymousCartID = &anonID
	default:
		newAnonymousID = uuid.NewString()
		cart.AnonymousCartID = &newAnonymousID
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, "", err
	}
	return cart, newAnonymousID, nil
}

func (s *service) buildResult(ctx context.Context, caller identity.Identity, newAnonymousID string) (*MutationResult, error) {
	if newAnonymousID != "" && !caller.IsMember() {
		caller = identity.Anonymous(newAnonymousID)
	}
	cart, err := s.Find(ctx, caller)
	if err != nil {
		return nil, err
	}
	totals := pricing.Calculate(PricingInput(cart, time.Now()))
	return &MutationResult{
		Totals:             totalsView(totals),
		Discounts:          discountViews(cart, totals.Applied),
		NewAnonymousCartID: newAnonymousID,
	}, nil
}

func parseSKUID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apperrors.New(apperrors.CodeValidation, "sku-id-required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.New(apperrors.CodeNotFound, "sku-not-found")
	}
	return parsed, nil
}
