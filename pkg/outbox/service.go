package outbox

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
)

// EmailIntent describes one message the system owes somebody. Exactly one of
// MemberID or ProspectID identifies the addressee.
type EmailIntent struct {
	OrderID    *uuid.UUID
	MemberID   *uuid.UUID
	ProspectID *uuid.UUID
	EmCd       string
	Recipient  string
}

// Service records email intents transactionally.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires the outbox writer.
func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Emit inserts a pending intent row inside the caller's transaction. The
// email worker picks it up after commit.
func (s *Service) Emit(ctx context.Context, tx *gorm.DB, intent EmailIntent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if strings.TrimSpace(intent.EmCd) == "" {
		return errors.New("email template code is required")
	}
	if strings.TrimSpace(intent.Recipient) == "" {
		return errors.New("recipient is required")
	}
	if (intent.MemberID == nil) == (intent.ProspectID == nil) {
		return errors.New("exactly one of member or prospect is required")
	}

	row := models.EmailOutbox{
		OrderID:    intent.OrderID,
		MemberID:   intent.MemberID,
		ProspectID: intent.ProspectID,
		EmCd:       intent.EmCd,
		Recipient:  intent.Recipient,
	}
	if err := s.repo.InsertTx(tx, &row); err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Info(ctx, "email intent recorded: "+intent.EmCd)
	}
	return nil
}
