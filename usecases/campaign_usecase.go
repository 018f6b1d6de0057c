package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases/executor_factory"
	"github.com/hookwise/hookwise-backend/utils"
)

type CampaignRepository interface {
	GetCampaignById(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID) (models.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID, status models.CampaignStatus) error
	UpdateCampaignCapture(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID, snapshotPath, tunnelUrl null.String) error
	ListCampaignsDueForClose(ctx context.Context, exec repositories.Executor,
		now time.Time) ([]models.Campaign, error)
}

type CampaignInteractionRepository interface {
	ListInteractionsOfCampaign(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID) ([]models.Interaction, error)
	SweepUnengagedInteractions(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID) (int64, error)
}

type CampaignAuditLogReader interface {
	AuditLogRepository
	ListAuditLogsOfCampaign(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID, limit int) ([]models.AuditLog, error)
}

type CampaignUsecase struct {
	executorFactory       executor_factory.ExecutorFactory
	transactionFactory    executor_factory.TransactionFactory
	campaignRepository    CampaignRepository
	interactionRepository CampaignInteractionRepository
	auditLogRepository    CampaignAuditLogReader
	decoys                DecoyDeployer
}

func (usecase *CampaignUsecase) GetCampaign(ctx context.Context, campaignId uuid.UUID) (models.Campaign, error) {
	return usecase.campaignRepository.GetCampaignById(ctx,
		usecase.executorFactory.NewExecutor(), campaignId)
}

func (usecase *CampaignUsecase) ListCampaignInteractions(ctx context.Context,
	campaignId uuid.UUID,
) ([]models.Interaction, error) {
	return usecase.interactionRepository.ListInteractionsOfCampaign(ctx,
		usecase.executorFactory.NewExecutor(), campaignId)
}

func (usecase *CampaignUsecase) ListCampaignAuditLogs(ctx context.Context,
	campaignId uuid.UUID, limit int,
) ([]models.AuditLog, error) {
	return usecase.auditLogRepository.ListAuditLogsOfCampaign(ctx,
		usecase.executorFactory.NewExecutor(), campaignId, limit)
}

// CloseCampaign ends a running campaign: the decoy resources are torn down, the
// public address and snapshot references are cleared, and every target who never
// engaged is moved to the terminal no_interaction state in bulk. Sends or calls
// already dispatched are not cancelled, only shared resources go away.
func (usecase *CampaignUsecase) CloseCampaign(ctx context.Context, campaignId uuid.UUID) error {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	campaign, err := usecase.campaignRepository.GetCampaignById(ctx, exec, campaignId)
	if err != nil {
		return err
	}
	if campaign.Status != models.CampaignStatusActive {
		return errors.Wrapf(models.ErrCampaignNotActive,
			"campaign %s is in status %s", campaignId, campaign.Status)
	}

	if err := usecase.decoys.Teardown(ctx, campaignId); err != nil {
		logger.WarnContext(ctx, "error tearing down decoy on close",
			"campaign_id", campaignId.String(), "error", err.Error())
	}

	var swept int64
	err = usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		swept, err = usecase.interactionRepository.SweepUnengagedInteractions(ctx, tx, campaignId)
		if err != nil {
			return err
		}
		if err := usecase.campaignRepository.UpdateCampaignCapture(ctx, tx,
			campaignId, null.String{}, null.String{}); err != nil {
			return err
		}
		return usecase.campaignRepository.UpdateCampaignStatus(ctx, tx,
			campaignId, models.CampaignStatusClosed)
	})
	if err != nil {
		return err
	}

	log := models.NewCampaignAuditLog(campaignId, models.AuditCampaignClosed,
		fmt.Sprintf("campaign closed, %d targets swept to no_interaction", swept))
	if err := usecase.auditLogRepository.CreateAuditLog(ctx, exec, log); err != nil {
		logger.WarnContext(ctx, "error writing audit log", "error", err.Error())
	}

	logger.InfoContext(ctx, "campaign closed",
		"campaign_id", campaignId.String(), "swept", swept)
	return nil
}

// CloseDueCampaigns closes every active campaign whose deadline passed. Called by
// the minutely scheduler; per-campaign failures do not stop the rest of the batch.
func (usecase *CampaignUsecase) CloseDueCampaigns(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	due, err := usecase.campaignRepository.ListCampaignsDueForClose(ctx,
		usecase.executorFactory.NewExecutor(), time.Now())
	if err != nil {
		return err
	}

	for _, campaign := range due {
		if err := usecase.CloseCampaign(ctx, campaign.Id); err != nil {
			logger.WarnContext(ctx, "error auto-closing campaign",
				"campaign_id", campaign.Id.String(), "error", err.Error())
		}
	}
	return nil
}
