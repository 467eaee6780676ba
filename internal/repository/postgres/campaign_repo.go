// internal/repository/postgres/campaign_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeltonFraga01/cortexx-sub008/internal/domain/campaign"
	xerrors "github.com/HeltonFraga01/cortexx-sub008/internal/pkg/errors"
	"github.com/jackc/pgx/v5"
)

type CampaignRepository struct {
	db PgxPool
}

func NewCampaignRepository(db PgxPool) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	query := `
		INSERT INTO campaigns (tenant_id, account_id, name, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.TenantID, c.AccountID, c.Name, c.Status, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	query := `
		SELECT id, tenant_id, account_id, name, status, created_by, dispatched, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	var c campaign.Campaign
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.TenantID, &c.AccountID, &c.Name, &c.Status, &c.CreatedBy,
		&c.Dispatched, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}

	return &c, nil
}

// ListForTx lists campaigns inside an RLS-scoped transaction: no explicit
// tenant filter, the session variables do the scoping.
func (r *CampaignRepository) ListForTx(ctx context.Context, tx pgx.Tx) ([]*campaign.Campaign, error) {
	query := `
		SELECT id, tenant_id, account_id, name, status, created_by, dispatched, created_at, updated_at
		FROM campaigns
		ORDER BY created_at DESC
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

// ListByTenant is the privileged fallback listing with an explicit tenant
// filter, used when the RLS transaction could not be established.
func (r *CampaignRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*campaign.Campaign, error) {
	query := `
		SELECT id, tenant_id, account_id, name, status, created_by, dispatched, created_at, updated_at
		FROM campaigns
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

// MarkDispatched bumps the dispatch counter after a successful send.
func (r *CampaignRepository) MarkDispatched(ctx context.Context, id int64, count int64) error {
	query := `
		UPDATE campaigns
		SET dispatched = dispatched + $2, status = 'dispatched', updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, count)
	if err != nil {
		return fmt.Errorf("failed to mark campaign dispatched: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func scanCampaigns(rows pgx.Rows) ([]*campaign.Campaign, error) {
	var campaigns []*campaign.Campaign
	for rows.Next() {
		var c campaign.Campaign
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.AccountID, &c.Name, &c.Status, &c.CreatedBy,
			&c.Dispatched, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}
