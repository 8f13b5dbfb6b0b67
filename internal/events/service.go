package events

import (
	"context"
	"fmt"

	"github.com/startupwebapp/storefront-backend/internal/identity"
	"github.com/startupwebapp/storefront-backend/internal/orderconfig"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
)

type configProvider interface {
	Snapshot(ctx context.Context) (*orderconfig.Snapshot, error)
}

// RecordInput describes one browser-side event to log.
type RecordInput struct {
	Kind       enums.ClientEventKind
	Caller     identity.Identity
	URL        string
	Detail     string
	UserAgent  string
	RemoteAddr string
}

// Service records client events. Recording is best effort: a storage or
// configuration failure is logged and never surfaces to the request that
// carried the event.
type Service interface {
	Record(ctx context.Context, input RecordInput)
}

type service struct {
	repo    *Repository
	configs configProvider
	logg    *logger.Logger
}

// ServiceParams collects the event service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Configs configProvider
	Logger  *logger.Logger
}

// NewService wires the client event service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	if params.Configs == nil {
		return nil, fmt.Errorf("order configuration service required")
	}
	return &service{repo: params.Repo, configs: params.Configs, logg: params.Logger}, nil
}

// Record writes the event when client event logging is switched on.
func (s *service) Record(ctx context.Context, input RecordInput) {
	if !input.Kind.IsValid() {
		s.logError(ctx, fmt.Errorf("unknown client event kind %q", input.Kind), "dropped client event")
		return
	}
	snapshot, err := s.configs.Snapshot(ctx)
	if err != nil {
		s.logError(ctx, err, "failed to load configuration for client event")
		return
	}
	if !snapshot.LogClientEvents {
		return
	}

	event := &models.ClientEvent{
		Kind:       input.Kind,
		MemberID:   input.Caller.MemberID,
		URL:        input.URL,
		Detail:     input.Detail,
		UserAgent:  input.UserAgent,
		RemoteAddr: input.RemoteAddr,
	}
	if input.Caller.HasAnonymousCart() {
		anonymousID := input.Caller.AnonymousCartID
		event.AnonymousID = &anonymousID
	}
	if err := s.repo.Create(ctx, event); err != nil {
		s.logError(ctx, err, "failed to record client event")
	}
}

func (s *service) logError(ctx context.Context, err error, msg string) {
	if s.logg != nil {
		s.logg.Error(ctx, msg, err)
	}
}
