package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Repository persists order materialization rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository bound to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a Repository bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindPaymentByIntentID returns the settled payment for a Stripe payment
// intent, or nil. This is the idempotency probe for order placement.
func (r *Repository) FindPaymentByIntentID(ctx context.Context, intentID string) (*models.OrderPayment, error) {
	var payment models.OrderPayment
	err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", intentID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindOrderByPaymentID returns the order settled by a payment, or nil.
func (r *Repository) FindOrderByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindOrderByIdentifier returns the order by its external identifier, or nil.
func (r *Repository) FindOrderByIdentifier(ctx context.Context, identifier string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("identifier = ?", identifier).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindStatusByName returns the lookup row for a lifecycle stage, or nil.
func (r *Repository) FindStatusByName(ctx context.Context, name string) (*models.Status, error) {
	var status models.Status
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

// FindMember returns the member row, or nil.
func (r *Repository) FindMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindMemberByEmail returns the member owning an email address, or nil.
func (r *Repository) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindProspectByEmail returns the prospect for an email address, or nil.
func (r *Repository) FindProspectByEmail(ctx context.Context, email string) (*models.Prospect, error) {
	var prospect models.Prospect
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&prospect).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prospect, nil
}

// CreateProspect inserts a new prospect row.
func (r *Repository) CreateProspect(ctx context.Context, prospect *models.Prospect) error {
	if prospect.ID == uuid.Nil {
		prospect.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(prospect).Error
}

// CreatePayment inserts the settled payment snapshot.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.OrderPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateShippingAddress inserts the frozen destination.
func (r *Repository) CreateShippingAddress(ctx context.Context, address *models.OrderShippingAddress) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(address).Error
}

// CreateBillingAddress inserts the frozen billing address.
func (r *Repository) CreateBillingAddress(ctx context.Context, address *models.OrderBillingAddress) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(address).Error
}

// CreateOrder inserts the order head row.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateOrderSKU inserts one frozen line.
func (r *Repository) CreateOrderSKU(ctx context.Context, line *models.OrderSKU) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(line).Error
}

// CreateOrderDiscount inserts one recorded discount attachment.
func (r *Repository) CreateOrderDiscount(ctx context.Context, discount *models.OrderDiscount) error {
	if discount.ID == uuid.Nil {
		discount.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(discount).Error
}

// CreateOrderStatus appends one status history entry.
func (r *Repository) CreateOrderStatus(ctx context.Context, status *models.OrderStatus) error {
	if status.ID == uuid.Nil {
		status.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(status).Error
}

// CreateOrderShippingMethod inserts the frozen delivery selection.
func (r *Repository) CreateOrderShippingMethod(ctx context.Context, method *models.OrderShippingMethod) error {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(method).Error
}

// RecordEmailFailure writes a post-order audit row. Best effort by design;
// callers log and continue when even this write fails.
func (r *Repository) RecordEmailFailure(ctx context.Context, failure *models.OrderEmailFailure) error {
	if failure.ID == uuid.Nil {
		failure.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(failure).Error
}
