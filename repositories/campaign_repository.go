package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories/dbmodels"
)

func (repo HookwiseDbRepository) GetCampaignById(ctx context.Context, exec Executor,
	campaignId uuid.UUID,
) (models.Campaign, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectCampaignColumns...).
		From(dbmodels.TABLE_CAMPAIGNS).
		Where("id = ?", campaignId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptCampaign)
}

func (repo HookwiseDbRepository) UpdateCampaignStatus(ctx context.Context, exec Executor,
	campaignId uuid.UUID, status models.CampaignStatus,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_CAMPAIGNS).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", campaignId)

	return errors.Wrap(ExecBuilder(ctx, exec, query), "error updating campaign status")
}

// UpdateCampaignCapture persists (or clears, on close) the snapshot path and the
// public tunnel address of a capture based campaign.
func (repo HookwiseDbRepository) UpdateCampaignCapture(ctx context.Context, exec Executor,
	campaignId uuid.UUID, snapshotPath, tunnelUrl null.String,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_CAMPAIGNS).
		Set("snapshot_path", snapshotPath).
		Set("tunnel_url", tunnelUrl).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", campaignId)

	return errors.Wrap(ExecBuilder(ctx, exec, query), "error updating campaign capture fields")
}

// ListCampaignsDueForClose returns active campaigns whose closes_at deadline passed.
func (repo HookwiseDbRepository) ListCampaignsDueForClose(ctx context.Context, exec Executor,
	now time.Time,
) ([]models.Campaign, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectCampaignColumns...).
		From(dbmodels.TABLE_CAMPAIGNS).
		Where("status = ?", string(models.CampaignStatusActive)).
		Where("closes_at is not null").
		Where("closes_at <= ?", now)

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptCampaign)
}
