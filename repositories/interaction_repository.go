package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/pure_utils"
	"github.com/hookwise/hookwise-backend/repositories/dbmodels"
)

func statusStrings(statuses []models.InteractionStatus) []string {
	return pure_utils.Map(statuses, func(s models.InteractionStatus) string {
		return string(s)
	})
}

func (repo HookwiseDbRepository) CreateInteraction(ctx context.Context, exec Executor,
	newInteractionId uuid.UUID, create models.InteractionCreate,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_INTERACTIONS).
		Columns("id", "campaign_id", "employee_id", "tracking_token", "status").
		Values(
			newInteractionId,
			create.CampaignId,
			create.EmployeeId,
			create.TrackingToken,
			string(models.InteractionStatusPending),
		)

	return errors.Wrap(ExecBuilder(ctx, exec, query), "error creating interaction")
}

func (repo HookwiseDbRepository) GetInteractionByToken(ctx context.Context, exec Executor,
	trackingToken string,
) (models.Interaction, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectInteractionColumns...).
		From(dbmodels.TABLE_INTERACTIONS).
		Where("tracking_token = ?", trackingToken)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptInteraction)
}

func (repo HookwiseDbRepository) GetInteractionByCallId(ctx context.Context, exec Executor,
	callId string,
) (models.Interaction, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectInteractionColumns...).
		From(dbmodels.TABLE_INTERACTIONS).
		Where("call_id = ?", callId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptInteraction)
}

func (repo HookwiseDbRepository) ListInteractionsOfCampaign(ctx context.Context, exec Executor,
	campaignId uuid.UUID,
) ([]models.Interaction, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectInteractionColumns...).
		From(dbmodels.TABLE_INTERACTIONS).
		Where("campaign_id = ?", campaignId).
		OrderBy("created_at")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptInteraction)
}

// ListInteractionsPendingCallAnalytics returns interactions with a recorded call id
// but no processed analytics yet: the work list of the reconciliation sweep.
func (repo HookwiseDbRepository) ListInteractionsPendingCallAnalytics(ctx context.Context,
	exec Executor, limit int,
) ([]models.Interaction, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectInteractionColumns...).
		From(dbmodels.TABLE_INTERACTIONS).
		Where("call_id is not null").
		Where("analytics_processed_at is null").
		OrderBy("created_at").
		Limit(uint64(limit))

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptInteraction)
}

// RecordInteractionDelivery notes when the message left for this target. It does not
// touch the funnel status: a successful send alone is not engagement, the state only
// moves on the target's own actions.
func (repo HookwiseDbRepository) RecordInteractionDelivery(ctx context.Context, exec Executor,
	interactionId uuid.UUID, at time.Time,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("delivered_at", at).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", interactionId)

	return errors.Wrap(ExecBuilder(ctx, exec, query), "error recording interaction delivery")
}

func (repo HookwiseDbRepository) RegisterInteractionCallId(ctx context.Context, exec Executor,
	interactionId uuid.UUID, callId string,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("call_id", callId).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", interactionId)

	return errors.Wrap(ExecBuilder(ctx, exec, query), "error registering call id")
}

func (repo HookwiseDbRepository) updateByTokenConditional(ctx context.Context, exec Executor,
	trackingToken string, eligible []models.InteractionStatus, builder squirrel.UpdateBuilder,
) (int64, error) {
	query, args, err := builder.
		Where("tracking_token = ?", trackingToken).
		Where(squirrel.Eq{"status": statusStrings(eligible)}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "can't build sql query")
	}
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "error executing conditional interaction update")
	}
	return tag.RowsAffected(), nil
}

// RegisterClick advances an eligible interaction to link_clicked. Returns the number
// of updated rows: zero means the event was a duplicate or arrived out of order and
// nothing changed.
func (repo HookwiseDbRepository) RegisterClick(ctx context.Context, exec Executor,
	trackingToken, userAgent string, at time.Time,
) (int64, error) {
	builder := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("status", string(models.InteractionStatusLinkClicked)).
		Set("clicked_at", at).
		Set("click_user_agent", userAgent).
		Set("updated_at", squirrel.Expr("now()"))

	return repo.updateByTokenConditional(ctx, exec, trackingToken,
		models.ClickEligibleStatuses, builder)
}

// RegisterSubmission records the boolean submission event. No credential value is
// ever written, only the flag and its timestamp.
func (repo HookwiseDbRepository) RegisterSubmission(ctx context.Context, exec Executor,
	trackingToken string, at time.Time,
) (int64, error) {
	builder := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("status", string(models.InteractionStatusCredentialsSubmitted)).
		Set("submitted", true).
		Set("submitted_at", at).
		Set("updated_at", squirrel.Expr("now()"))

	return repo.updateByTokenConditional(ctx, exec, trackingToken,
		models.SubmitEligibleStatuses, builder)
}

func (repo HookwiseDbRepository) RegisterLearningView(ctx context.Context, exec Executor,
	trackingToken string, at time.Time,
) (int64, error) {
	builder := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("status", string(models.InteractionStatusLearningViewed)).
		Set("learning_viewed_at", at).
		Set("updated_at", squirrel.Expr("now()"))

	return repo.updateByTokenConditional(ctx, exec, trackingToken,
		models.LearningViewEligibleStatuses, builder)
}

func (repo HookwiseDbRepository) RegisterReport(ctx context.Context, exec Executor,
	trackingToken string, at time.Time,
) (int64, error) {
	builder := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("status", string(models.InteractionStatusReported)).
		Set("reported_at", at).
		Set("updated_at", squirrel.Expr("now()"))

	return repo.updateByTokenConditional(ctx, exec, trackingToken,
		models.ReportEligibleStatuses, builder)
}

// SweepUnengagedInteractions bulk transitions everything still pending or delivered
// to the terminal no_interaction state at campaign close.
func (repo HookwiseDbRepository) SweepUnengagedInteractions(ctx context.Context, exec Executor,
	campaignId uuid.UUID,
) (int64, error) {
	query, args, err := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("status", string(models.InteractionStatusNoInteraction)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("campaign_id = ?", campaignId).
		Where(squirrel.Eq{"status": statusStrings(models.CloseSweepStatuses)}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "can't build sql query")
	}
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "error sweeping unengaged interactions")
	}
	return tag.RowsAffected(), nil
}

// SaveCallAnalytics persists the reconciled call outcome. The analytics_processed_at
// guard makes the write idempotent at the database level: a second attempt for the
// same interaction updates zero rows.
func (repo HookwiseDbRepository) SaveCallAnalytics(ctx context.Context, exec Executor,
	update models.CallAnalyticsUpdate,
) (int64, error) {
	query, args, err := NewQueryBuilder().
		Update(dbmodels.TABLE_INTERACTIONS).
		Set("voice_outcome", string(update.VoiceOutcome)).
		Set("call_transcript", update.Transcript).
		Set("call_recording_url", update.RecordingUrl).
		Set("call_duration_seconds", update.DurationSeconds).
		Set("call_analytics", update.Analytics).
		Set("analytics_processed_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", update.InteractionId).
		Where("analytics_processed_at is null").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "can't build sql query")
	}
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "error saving call analytics")
	}
	return tag.RowsAffected(), nil
}
