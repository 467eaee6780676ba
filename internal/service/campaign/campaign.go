// internal/service/campaign/campaign.go
package campaign

import (
	"context"
	"fmt"

	domain "github.com/HeltonFraga01/cortexx-sub008/internal/domain/campaign"
	"github.com/HeltonFraga01/cortexx-sub008/internal/repository/postgres"
	"github.com/HeltonFraga01/cortexx-sub008/internal/rls"
	"go.uber.org/zap"
)

// Service is the thin campaign surface behind the admission chain. It
// exists to exercise the chain end to end; dispatch does not talk to a
// real provider.
type Service struct {
	repo       *postgres.CampaignRepository
	propagator *rls.Propagator
	logger     *zap.Logger
}

func NewService(repo *postgres.CampaignRepository, propagator *rls.Propagator, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		propagator: propagator,
		logger:     logger,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, c *domain.Campaign) error {
	if c.Status == "" {
		c.Status = "draft"
	}
	return s.repo.Create(ctx, c)
}

// List runs inside an RLS-scoped transaction so the query needs no
// explicit tenant filter. If the scoped transaction cannot be established
// the listing falls back to the privileged path with an explicit filter;
// the propagator is an availability optimization, not the tenant boundary.
func (s *Service) List(ctx context.Context, rc rls.Context) ([]*domain.Campaign, error) {
	tx, err := s.propagator.Begin(ctx, rc)
	if err != nil {
		s.logger.Warn("rls propagation failed, using privileged listing",
			zap.Int64("tenant_id", rc.TenantID),
			zap.Error(err),
		)
		return s.repo.ListByTenant(ctx, rc.TenantID)
	}
	defer tx.Rollback(ctx)

	campaigns, err := s.repo.ListForTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit listing transaction: %w", err)
	}
	return campaigns, nil
}

// Dispatch marks the campaign dispatched. The quota charge for the send is
// committed by the handler only after this succeeds.
func (s *Service) Dispatch(ctx context.Context, id int64, recipients int64) error {
	if recipients <= 0 {
		recipients = 1
	}
	return s.repo.MarkDispatched(ctx, id, recipients)
}
