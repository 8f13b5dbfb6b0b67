package orderconfig

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
)

// Service exposes the typed configuration snapshot.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type repository interface {
	All(ctx context.Context) ([]models.OrderConfiguration, error)
}

type service struct {
	repo repository
}

// NewService wires the order configuration service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("orderconfig: repository is required")
	}
	return &service{repo: repo}, nil
}

// Snapshot loads the configuration rows and folds them into a typed view.
// Rows are read fresh on every call so edits take effect without a restart.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(rows), nil
}

func buildSnapshot(rows []models.OrderConfiguration) *Snapshot {
	snap := &Snapshot{}
	for _, row := range rows {
		value := strings.TrimSpace(row.StringValue)
		switch row.Key {
		case KeyUsernamesAllowedToCheckout:
			snap.UsernamesAllowedToCheckout = splitList(value)
		case KeyAnCtValuesAllowedToCheckout:
			snap.AnCtValuesAllowedToCheckout = splitList(value)
		case KeyInitialOrderStatus:
			snap.InitialOrderStatus = value
		case KeyDefaultShippingMethod:
			snap.DefaultShippingMethod = value
		case KeyMemberConfirmationEmCd:
			snap.MemberConfirmationEmCd = value
		case KeyProspectConfirmationEmCd:
			snap.ProspectConfirmationEmCd = value
		case KeyLogClientEvents:
			if parsed, err := strconv.ParseBool(value); err == nil {
				snap.LogClientEvents = parsed
			}
		}
	}
	return snap
}
