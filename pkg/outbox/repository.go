package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

const maxLastErrorLen = 1024

// Repository persists and drains email intent rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a Repository bound to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertTx writes a pending intent inside the caller's transaction. Intents
// ride the same commit as the rows that require the email.
func (r *Repository) InsertTx(tx *gorm.DB, intent *models.EmailOutbox) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	intent.Status = enums.OutboxStatusPending
	return tx.Create(intent).Error
}

// PendingBatch returns up to limit deliverable rows, oldest first. Rows past
// maxAttempts stay failed and are excluded.
func (r *Repository) PendingBatch(ctx context.Context, limit, maxAttempts int) ([]models.EmailOutbox, error) {
	if limit <= 0 {
		limit = 25
	}
	var rows []models.EmailOutbox
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.OutboxStatusPending).
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// UpdateRecipient redirects an order's pending intents to a new address.
// Delivered rows are left alone.
func (r *Repository) UpdateRecipient(ctx context.Context, orderID uuid.UUID, recipient string) error {
	return r.db.WithContext(ctx).Model(&models.EmailOutbox{}).
		Where("order_id = ? AND status = ?", orderID, enums.OutboxStatusPending).
		Update("recipient", recipient).Error
}

// MarkSent records a successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&models.EmailOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.OutboxStatusSent,
			"delivered_at": now,
			"last_error":   "",
		}).Error
}

// MarkFailed bumps the attempt counter and records the error. Once attempts
// reach maxAttempts the row is parked as failed.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr error, maxAttempts int) error {
	message := ""
	if deliveryErr != nil {
		message = deliveryErr.Error()
	}
	if len(message) > maxLastErrorLen {
		message = message[:maxLastErrorLen]
	}
	return r.db.WithContext(ctx).Model(&models.EmailOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": message,
			"status": gorm.Expr(
				"CASE WHEN attempts + 1 >= ? THEN ? ELSE status END",
				maxAttempts, enums.OutboxStatusFailed,
			),
		}).Error
}
