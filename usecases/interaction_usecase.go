package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases/executor_factory"
	"github.com/hookwise/hookwise-backend/utils"
)

type InteractionEventRepository interface {
	GetInteractionByToken(ctx context.Context, exec repositories.Executor,
		trackingToken string) (models.Interaction, error)
	RegisterClick(ctx context.Context, exec repositories.Executor,
		trackingToken, userAgent string, at time.Time) (int64, error)
	RegisterSubmission(ctx context.Context, exec repositories.Executor,
		trackingToken string, at time.Time) (int64, error)
	RegisterLearningView(ctx context.Context, exec repositories.Executor,
		trackingToken string, at time.Time) (int64, error)
	RegisterReport(ctx context.Context, exec repositories.Executor,
		trackingToken string, at time.Time) (int64, error)
}

type InteractionCampaignRepository interface {
	GetCampaignById(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID) (models.Campaign, error)
}

// InteractionUsecase applies token-scoped events to the per-target state machine.
// Every transition is a single conditional update filtered on the eligible source
// states, so duplicated or out-of-order events converge to a no-op: the row is
// simply left as it was and the handler reports success.
type InteractionUsecase struct {
	executorFactory       executor_factory.ExecutorFactory
	interactionRepository InteractionEventRepository
	campaignRepository    InteractionCampaignRepository
	learningUrl           string
}

// HandleClick records the click and resolves the redirect target: the campaign's
// live tunnel address with the token re-appended, or the learning page when the
// decoy is no longer up.
func (usecase *InteractionUsecase) HandleClick(ctx context.Context,
	trackingToken, userAgent string,
) (string, error) {
	if trackingToken == "" {
		return "", errors.Wrap(models.InvalidEventError, "missing token")
	}
	exec := usecase.executorFactory.NewExecutor()

	interaction, err := usecase.interactionRepository.GetInteractionByToken(ctx, exec, trackingToken)
	if err != nil {
		return "", err
	}

	updated, err := usecase.interactionRepository.RegisterClick(ctx, exec,
		trackingToken, userAgent, time.Now())
	if err != nil {
		return "", err
	}
	if updated == 0 {
		utils.LoggerFromContext(ctx).DebugContext(ctx,
			"click event ignored, interaction already past link_clicked",
			"interaction_id", interaction.Id.String())
	}

	campaign, err := usecase.campaignRepository.GetCampaignById(ctx, exec, interaction.CampaignId)
	if err != nil {
		return "", err
	}
	if campaign.TunnelUrl.Valid && campaign.TunnelUrl.String != "" {
		return fmt.Sprintf("%s/?token=%s", campaign.TunnelUrl.String, trackingToken), nil
	}
	return usecase.learningRedirect(trackingToken), nil
}

// HandleSubmit records the boolean submission event. The strict payload shape is
// enforced at the API boundary; by the time this runs only the token matters.
// Replays return the already-recorded interaction unchanged.
func (usecase *InteractionUsecase) HandleSubmit(ctx context.Context,
	trackingToken string,
) (models.Interaction, error) {
	exec := usecase.executorFactory.NewExecutor()

	if _, err := usecase.interactionRepository.GetInteractionByToken(ctx, exec, trackingToken); err != nil {
		return models.Interaction{}, err
	}

	if _, err := usecase.interactionRepository.RegisterSubmission(ctx, exec,
		trackingToken, time.Now()); err != nil {
		return models.Interaction{}, err
	}

	return usecase.interactionRepository.GetInteractionByToken(ctx, exec, trackingToken)
}

// HandleLearningView marks the learning moment page as seen. Observation only: it
// never overrides a recorded submission in the fell-for-phish derivation.
func (usecase *InteractionUsecase) HandleLearningView(ctx context.Context, trackingToken string) error {
	if trackingToken == "" {
		// Un-tokenized learning page loads are served without any state change.
		return nil
	}
	exec := usecase.executorFactory.NewExecutor()

	if _, err := usecase.interactionRepository.GetInteractionByToken(ctx, exec, trackingToken); err != nil {
		if errors.Is(err, models.NotFoundError) {
			return nil
		}
		return err
	}
	_, err := usecase.interactionRepository.RegisterLearningView(ctx, exec, trackingToken, time.Now())
	return err
}

// HandleReport records a self-report, the desired outcome, valid from any
// non-terminal state.
func (usecase *InteractionUsecase) HandleReport(ctx context.Context, trackingToken string) error {
	exec := usecase.executorFactory.NewExecutor()

	if _, err := usecase.interactionRepository.GetInteractionByToken(ctx, exec, trackingToken); err != nil {
		return err
	}
	_, err := usecase.interactionRepository.RegisterReport(ctx, exec, trackingToken, time.Now())
	return err
}

func (usecase *InteractionUsecase) learningRedirect(trackingToken string) string {
	return fmt.Sprintf("%s?token=%s", usecase.learningUrl, trackingToken)
}
