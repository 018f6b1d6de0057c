package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
)

type AuditLogRepository struct {
	mock.Mock
}

func (r *AuditLogRepository) CreateAuditLog(ctx context.Context, exec repositories.Executor,
	create models.AuditLogCreate,
) error {
	args := r.Called(ctx, exec, create)
	return args.Error(0)
}

func (r *AuditLogRepository) ListAuditLogsOfCampaign(ctx context.Context, exec repositories.Executor,
	campaignId uuid.UUID, limit int,
) ([]models.AuditLog, error) {
	args := r.Called(ctx, exec, campaignId, limit)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}
