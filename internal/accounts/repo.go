package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Repository persists members and prospects.
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

// FindMemberByUsername returns the member row, or nil.
func (r *Repository) FindMemberByUsername(ctx context.Context, username string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&member).Error
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

// FindMember returns the member row by id, or nil.
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

// CreateMember inserts a new member row.
func (r *Repository) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(member).Error
}

// SaveMember persists changed member fields.
func (r *Repository) SaveMember(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
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

// SaveProspect persists changed prospect fields.
func (r *Repository) SaveProspect(ctx context.Context, prospect *models.Prospect) error {
	return r.db.WithContext(ctx).Save(prospect).Error
}

// ClaimProspectOrders attaches a converted prospect's orders to the new
// member account. The prospect foreign key stays for audit history.
func (r *Repository) ClaimProspectOrders(ctx context.Context, memberID, prospectID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("prospect_id = ?", prospectID).
		Update("member_id", memberID).Error
}
