package cmd

import (
	"context"

	"github.com/hookwise/hookwise-backend/infra"
	"github.com/hookwise/hookwise-backend/jobs"
	"github.com/hookwise/hookwise-backend/utils"

	"github.com/cockroachdb/errors"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// RunJobScheduler runs the cron scheduler alone, for deployments where the worker
// and the scheduler are separate processes.
func RunJobScheduler() error {
	pgConfig := loadPgConfig()

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(), pgConfig.MaxPoolSize)
	if err != nil {
		return errors.Wrap(err, "failed to create postgres connection pool")
	}

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create river client")
	}

	repos := newRepositories(pool, riverClient)
	uc := newUsecases(repos)

	jobs.RunScheduler(ctx, uc)
	return nil
}
