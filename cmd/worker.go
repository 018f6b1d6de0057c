package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hookwise/hookwise-backend/infra"
	"github.com/hookwise/hookwise-backend/jobs"
	"github.com/hookwise/hookwise-backend/usecases/worker_jobs"
	"github.com/hookwise/hookwise-backend/utils"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

func RunWorker() error {
	pgConfig := loadPgConfig()
	reconcileInterval := time.Duration(utils.GetEnv("RECONCILE_INTERVAL_SECOND", 0)) * time.Second

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(), pgConfig.MaxPoolSize)
	if err != nil {
		return errors.Wrap(err, "failed to create postgres connection pool")
	}

	workers := river.NewWorkers()
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		FetchPollInterval: 500 * time.Millisecond,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		// Must be larger than the time it takes to work a voice batch, which paces
		// call placement with multi-second pauses between targets.
		RescueStuckJobsAfter: 30 * time.Minute,
		WorkerMiddleware: []rivertype.WorkerMiddleware{
			jobs.NewLoggerMiddleware(logger),
			jobs.NewRecoveredMiddleware(),
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			worker_jobs.NewReconcileCallsPeriodicJob(reconcileInterval),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create river client")
	}

	repos := newRepositories(pool, riverClient)
	uc := newUsecases(repos)

	river.AddWorker(workers, worker_jobs.NewVoiceBatchWorker(uc.NewDeliveryUsecase()))
	river.AddWorker(workers, worker_jobs.NewReconcileCallsWorker(uc.NewReconcilerUsecase()))

	if err := riverClient.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start river client")
	}

	// Run the cron entrypoint alongside the task queue. We do not wait for it, the
	// campaign close sweep is idempotent.
	go jobs.RunScheduler(ctx, uc)

	sigintOrTerm := make(chan os.Signal, 1)
	signal.Notify(sigintOrTerm, syscall.SIGINT, syscall.SIGTERM)

	go cleanStop(ctx, sigintOrTerm, riverClient)

	<-riverClient.Stopped()
	logger.InfoContext(ctx, "river client stopped")

	return nil
}

// cleanStop waits for SIGINT/SIGTERM and tries to stop gracefully, allowing a chance
// for in-flight jobs to finish. A second signal cancels the context of all active
// jobs, a third exits uncleanly.
func cleanStop(ctx context.Context, sigintOrTerm chan os.Signal, riverClient *river.Client[pgx.Tx]) {
	logger := utils.LoggerFromContext(ctx)
	<-sigintOrTerm
	logger.InfoContext(ctx, "received SIGINT/SIGTERM, initiating soft stop (waiting for jobs to finish)")

	softStopCtx, softStopCtxCancel := context.WithTimeout(ctx, 10*time.Second)
	defer softStopCtxCancel()

	go func() {
		select {
		case <-sigintOrTerm:
			logger.InfoContext(ctx, "received SIGINT/SIGTERM again, initiating hard stop (cancel everything)")
			softStopCtxCancel()
		case <-softStopCtx.Done():
			logger.InfoContext(ctx, "soft stop timeout, initiating hard stop (cancel everything)")
		}
	}()

	err := riverClient.Stop(softStopCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "error during soft stop", "error", err)
	}
	if err == nil {
		return
	}

	hardStopCtx, hardStopCtxCancel := context.WithTimeout(ctx, 10*time.Second)
	defer hardStopCtxCancel()

	err = riverClient.StopAndCancel(hardStopCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		logger.InfoContext(ctx, "hard stop timeout, exiting uncleanly")
	} else if err != nil {
		logger.ErrorContext(ctx, "error during hard stop", "error", err)
	}
}
