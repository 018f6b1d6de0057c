package repositories

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

const nbRetriesVoiceBatch = 3

type TaskQueueRepository interface {
	EnqueueVoiceBatchTask(ctx context.Context, tx Transaction, campaignId uuid.UUID, runAt time.Time) error
}

type riverRepository struct {
	client *river.Client[pgx.Tx]
}

func NewTaskQueueRepository(client *river.Client[pgx.Tx]) TaskQueueRepository {
	return riverRepository{client: client}
}

// EnqueueVoiceBatchTask persists the deferred voice dispatch of a campaign launched
// on both channels. Being a durable job, it survives a process restart between the
// launch and the voice delay deadline.
func (r riverRepository) EnqueueVoiceBatchTask(ctx context.Context, tx Transaction,
	campaignId uuid.UUID, runAt time.Time,
) error {
	res, err := r.client.InsertTx(ctx, tx.RawTx(), models.VoiceBatchArgs{
		CampaignId: campaignId,
	}, &river.InsertOpts{
		MaxAttempts: nbRetriesVoiceBatch,
		ScheduledAt: runAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return errors.Wrap(err, "error enqueueing voice batch task")
	}
	if res.UniqueSkippedAsDuplicate {
		utils.LoggerFromContext(ctx).InfoContext(ctx,
			"voice batch task already enqueued for campaign",
			"campaign_id", campaignId.String())
	}
	return nil
}
