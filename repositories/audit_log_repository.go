package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories/dbmodels"
)

func (repo HookwiseDbRepository) CreateAuditLog(ctx context.Context, exec Executor,
	create models.AuditLogCreate,
) error {
	metadata := create.Metadata
	if metadata == nil {
		metadata = []byte("{}")
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_AUDIT_LOGS).
		Columns("id", "campaign_id", "event_type", "message", "metadata").
		Values(
			uuid.New(),
			create.CampaignId,
			string(create.EventType),
			create.Message,
			metadata,
		)

	return errors.Wrap(ExecBuilder(ctx, exec, query), "error creating audit log")
}

func (repo HookwiseDbRepository) ListAuditLogsOfCampaign(ctx context.Context, exec Executor,
	campaignId uuid.UUID, limit int,
) ([]models.AuditLog, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAuditLogColumns...).
		From(dbmodels.TABLE_AUDIT_LOGS).
		Where("campaign_id = ?", campaignId).
		OrderBy("created_at desc").
		Limit(uint64(limit))

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptAuditLog)
}
