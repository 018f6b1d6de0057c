package cmd

import (
	"os"
	"time"

	"github.com/hookwise/hookwise-backend/infra"
	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases"
	"github.com/hookwise/hookwise-backend/usecases/capture"
	"github.com/hookwise/hookwise-backend/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
)

// This is where we read the environment variables shared by every entrypoint and
// turn them into the configuration structs of the application.

func loadPgConfig() utils.PGConfig {
	return utils.PGConfig{
		ConnectionString: utils.GetEnv("PG_CONNECTION_STRING", ""),
		Hostname:         utils.GetEnv("PG_HOSTNAME", ""),
		Port:             utils.GetEnv("PG_PORT", "5432"),
		User:             utils.GetEnv("PG_USER", ""),
		Password:         utils.GetEnv("PG_PASSWORD", ""),
		Database:         "hookwise",
		MaxPoolSize:      utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
	}
}

func newRepositories(pool *pgxpool.Pool, riverClient *river.Client[pgx.Tx]) repositories.Repositories {
	apiBaseUrl := utils.GetEnv("API_BASE_URL", "http://localhost:8080")

	return repositories.NewRepositories(
		pool,
		riverClient,
		repositories.MailerConfiguration{
			ApiUrl:    utils.GetEnv("MAILER_API_URL", ""),
			ApiKey:    utils.GetEnv("MAILER_API_KEY", ""),
			FromEmail: utils.GetEnv("MAILER_FROM_EMAIL", ""),
			FromName:  utils.GetEnv("MAILER_FROM_NAME", "IT Support"),
		},
		repositories.VoiceProviderConfiguration{
			ApiUrl:     utils.GetEnv("VOICE_API_URL", ""),
			ApiKey:     utils.GetEnv("VOICE_API_KEY", ""),
			FromNumber: utils.GetEnv("VOICE_FROM_NUMBER", ""),
			WebhookUrl: apiBaseUrl + "/webhooks/voice",
		},
		repositories.TunnelConfiguration{
			BinaryPath:   utils.GetEnv("CLOUDFLARED_PATH", "cloudflared"),
			StartTimeout: time.Duration(utils.GetEnv("TUNNEL_START_TIMEOUT_SECOND", 30)) * time.Second,
		},
	)
}

func newUsecases(repos repositories.Repositories) usecases.Usecases {
	return usecases.NewUsecases(repos,
		usecases.WithApiBaseUrl(utils.GetEnv("API_BASE_URL", "http://localhost:8080")),
		usecases.WithLearningUrl(utils.GetEnv("LEARNING_PAGE_URL", "")),
		usecases.WithCapturerConfig(capture.Configuration{
			SnapshotDir:    utils.GetEnv("SNAPSHOT_DIR", os.TempDir()),
			CaptureTimeout: time.Duration(utils.GetEnv("CAPTURE_TIMEOUT_SECOND", 30)) * time.Second,
		}),
		usecases.WithNotificationSubject(utils.GetEnv(
			"NOTIFICATION_SUBJECT", "Your phishing simulation results")),
	)
}
