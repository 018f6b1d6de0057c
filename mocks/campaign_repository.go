package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/mock"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
)

type CampaignRepository struct {
	mock.Mock
}

func (r *CampaignRepository) GetCampaignById(ctx context.Context, exec repositories.Executor,
	campaignId uuid.UUID,
) (models.Campaign, error) {
	args := r.Called(ctx, exec, campaignId)
	return args.Get(0).(models.Campaign), args.Error(1)
}

func (r *CampaignRepository) UpdateCampaignStatus(ctx context.Context, exec repositories.Executor,
	campaignId uuid.UUID, status models.CampaignStatus,
) error {
	args := r.Called(ctx, exec, campaignId, status)
	return args.Error(0)
}

func (r *CampaignRepository) UpdateCampaignCapture(ctx context.Context, exec repositories.Executor,
	campaignId uuid.UUID, snapshotPath, tunnelUrl null.String,
) error {
	args := r.Called(ctx, exec, campaignId, snapshotPath, tunnelUrl)
	return args.Error(0)
}

func (r *CampaignRepository) ListCampaignsDueForClose(ctx context.Context, exec repositories.Executor,
	now time.Time,
) ([]models.Campaign, error) {
	args := r.Called(ctx, exec, now)
	return args.Get(0).([]models.Campaign), args.Error(1)
}
