package worker_jobs

import (
	"context"
	"time"

	"github.com/riverqueue/river"

	"github.com/hookwise/hookwise-backend/models"
)

const DefaultReconcileInterval = 30 * time.Second

// NewReconcileCallsPeriodicJob enqueues one sweep per interval. The period based
// uniqueness keeps a single pending sweep in the queue even across restarts.
func NewReconcileCallsPeriodicJob(interval time.Duration) *river.PeriodicJob {
	if interval == 0 {
		interval = DefaultReconcileInterval
	}
	return river.NewPeriodicJob(
		river.PeriodicInterval(interval),
		func() (river.JobArgs, *river.InsertOpts) {
			return models.ReconcileCallsArgs{},
				&river.InsertOpts{
					UniqueOpts: river.UniqueOpts{
						ByPeriod: interval,
					},
				}
		},
		&river.PeriodicJobOpts{RunOnStart: true},
	)
}

type reconcilerUsecase interface {
	SweepPendingCalls(ctx context.Context) error
}

// ReconcileCallsWorker is the periodic sweep over interactions holding a call id
// without processed analytics. It backs the webhook path up: a missed or delayed
// call ended event is reconciled on the next pass.
type ReconcileCallsWorker struct {
	river.WorkerDefaults[models.ReconcileCallsArgs]

	reconcilerUsecase reconcilerUsecase
}

func NewReconcileCallsWorker(reconcilerUsecase reconcilerUsecase) *ReconcileCallsWorker {
	return &ReconcileCallsWorker{reconcilerUsecase: reconcilerUsecase}
}

func (w *ReconcileCallsWorker) Work(ctx context.Context, job *river.Job[models.ReconcileCallsArgs]) error {
	return w.reconcilerUsecase.SweepPendingCalls(ctx)
}
