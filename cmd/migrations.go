package cmd

import (
	"context"
	"fmt"

	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/utils"
)

func RunMigrations() error {
	pgConfig := loadPgConfig()

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := repositories.RunMigrations(pgConfig, logger); err != nil {
		logger.ErrorContext(ctx, fmt.Sprintf("error running migrations: %v", err))
		return err
	}

	return nil
}
