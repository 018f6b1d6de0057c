package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hookwise/hookwise-backend/api"
	"github.com/hookwise/hookwise-backend/infra"
	"github.com/hookwise/hookwise-backend/utils"

	"github.com/cockroachdb/errors"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

func RunServer() error {
	apiConfig := api.Configuration{
		Env:            utils.GetEnv("ENV", "development"),
		Port:           utils.GetRequiredEnv[string]("PORT"),
		ApiBaseUrl:     utils.GetEnv("API_BASE_URL", "http://localhost:8080"),
		LearningUrl:    utils.GetEnv("LEARNING_PAGE_URL", ""),
		DashboardUrl:   utils.GetEnv("DASHBOARD_URL", ""),
		DefaultTimeout: time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 60)) * time.Second,
	}
	pgConfig := loadPgConfig()

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(), pgConfig.MaxPoolSize)
	if err != nil {
		return errors.Wrap(err, "failed to create postgres connection pool")
	}

	// Insert-only river client: the API schedules deferred voice batches but never
	// works jobs itself.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create river client")
	}

	repos := newRepositories(pool, riverClient)
	uc := newUsecases(repos)

	router := api.InitRouterMiddlewares(ctx, apiConfig)
	server := api.NewServer(router, apiConfig, uc)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "error while serving the app", slog.Any("error", err))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Decoys hold live tunnel subprocesses, bring them down before the listener.
	uc.DecoyRegistry().TeardownAll(shutdownCtx)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error while shutting down the server")
	}

	return nil
}
