package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
)

type Repositories struct {
	ExecutorGetter          ExecutorGetter
	HookwiseDbRepository    HookwiseDbRepository
	MailerRepository        MailerRepository
	VoiceProviderRepository VoiceProviderRepository
	TunnelRepository        TunnelRepository
	TaskQueueRepository     TaskQueueRepository
}

func NewRepositories(
	connectionPool *pgxpool.Pool,
	riverClient *river.Client[pgx.Tx],
	mailerConfig MailerConfiguration,
	voiceConfig VoiceProviderConfiguration,
	tunnelConfig TunnelConfiguration,
) Repositories {
	return Repositories{
		ExecutorGetter:          NewExecutorGetter(connectionPool),
		HookwiseDbRepository:    HookwiseDbRepository{},
		MailerRepository:        NewMailerRepository(mailerConfig),
		VoiceProviderRepository: NewVoiceProviderRepository(voiceConfig),
		TunnelRepository:        NewTunnelRepository(tunnelConfig),
		TaskQueueRepository:     NewTaskQueueRepository(riverClient),
	}
}
