package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
)

type InteractionRepository struct {
	mock.Mock
}

func (r *InteractionRepository) CreateInteraction(ctx context.Context, exec repositories.Executor,
	newInteractionId uuid.UUID, create models.InteractionCreate,
) error {
	args := r.Called(ctx, exec, newInteractionId, create)
	return args.Error(0)
}

func (r *InteractionRepository) GetInteractionByToken(ctx context.Context, exec repositories.Executor,
	trackingToken string,
) (models.Interaction, error) {
	args := r.Called(ctx, exec, trackingToken)
	return args.Get(0).(models.Interaction), args.Error(1)
}

func (r *InteractionRepository) GetInteractionByCallId(ctx context.Context, exec repositories.Executor,
	callId string,
) (models.Interaction, error) {
	args := r.Called(ctx, exec, callId)
	return args.Get(0).(models.Interaction), args.Error(1)
}

func (r *InteractionRepository) ListInteractionsOfCampaign(ctx context.Context, exec repositories.Executor,
	campaignId uuid.UUID,
) ([]models.Interaction, error) {
	args := r.Called(ctx, exec, campaignId)
	return args.Get(0).([]models.Interaction), args.Error(1)
}

func (r *InteractionRepository) ListInteractionsPendingCallAnalytics(ctx context.Context,
	exec repositories.Executor, limit int,
) ([]models.Interaction, error) {
	args := r.Called(ctx, exec, limit)
	return args.Get(0).([]models.Interaction), args.Error(1)
}

func (r *InteractionRepository) RecordInteractionDelivery(ctx context.Context, exec repositories.Executor,
	interactionId uuid.UUID, at time.Time,
) error {
	args := r.Called(ctx, exec, interactionId, at)
	return args.Error(0)
}

func (r *InteractionRepository) RegisterInteractionCallId(ctx context.Context, exec repositories.Executor,
	interactionId uuid.UUID, callId string,
) error {
	args := r.Called(ctx, exec, interactionId, callId)
	return args.Error(0)
}

func (r *InteractionRepository) RegisterClick(ctx context.Context, exec repositories.Executor,
	trackingToken, userAgent string, at time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, trackingToken, userAgent, at)
	return args.Get(0).(int64), args.Error(1)
}

func (r *InteractionRepository) RegisterSubmission(ctx context.Context, exec repositories.Executor,
	trackingToken string, at time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, trackingToken, at)
	return args.Get(0).(int64), args.Error(1)
}

func (r *InteractionRepository) RegisterLearningView(ctx context.Context, exec repositories.Executor,
	trackingToken string, at time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, trackingToken, at)
	return args.Get(0).(int64), args.Error(1)
}

func (r *InteractionRepository) RegisterReport(ctx context.Context, exec repositories.Executor,
	trackingToken string, at time.Time,
) (int64, error) {
	args := r.Called(ctx, exec, trackingToken, at)
	return args.Get(0).(int64), args.Error(1)
}

func (r *InteractionRepository) SweepUnengagedInteractions(ctx context.Context, exec repositories.Executor,
	campaignId uuid.UUID,
) (int64, error) {
	args := r.Called(ctx, exec, campaignId)
	return args.Get(0).(int64), args.Error(1)
}

func (r *InteractionRepository) SaveCallAnalytics(ctx context.Context, exec repositories.Executor,
	update models.CallAnalyticsUpdate,
) (int64, error) {
	args := r.Called(ctx, exec, update)
	return args.Get(0).(int64), args.Error(1)
}
