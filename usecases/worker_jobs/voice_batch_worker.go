package worker_jobs

import (
	"context"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/hookwise/hookwise-backend/models"
)

type voiceBatchUsecase interface {
	DeliverVoiceBatch(ctx context.Context, campaignId uuid.UUID) error
}

// VoiceBatchWorker runs the deferred voice dispatch of campaigns launched on both
// channels. The job was scheduled at launch time for now+voiceDelay; being durable,
// it survives process restarts in between.
type VoiceBatchWorker struct {
	river.WorkerDefaults[models.VoiceBatchArgs]

	deliveryUsecase voiceBatchUsecase
}

func NewVoiceBatchWorker(deliveryUsecase voiceBatchUsecase) *VoiceBatchWorker {
	return &VoiceBatchWorker{deliveryUsecase: deliveryUsecase}
}

func (w *VoiceBatchWorker) Work(ctx context.Context, job *river.Job[models.VoiceBatchArgs]) error {
	return w.deliveryUsecase.DeliverVoiceBatch(ctx, job.Args.CampaignId)
}
