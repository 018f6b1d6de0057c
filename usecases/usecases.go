package usecases

import (
	"context"

	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases/capture"
	"github.com/hookwise/hookwise-backend/usecases/decoy"
	"github.com/hookwise/hookwise-backend/usecases/executor_factory"
)

type Usecases struct {
	Repositories repositories.Repositories

	apiBaseUrl          string
	learningUrl         string
	pacing              DeliveryPacing
	capturerConfig      capture.Configuration
	decoyRegistry       *decoy.Registry
	notificationSubject string
}

type Option func(*options)

type options struct {
	apiBaseUrl          string
	learningUrl         string
	pacing              DeliveryPacing
	capturerConfig      capture.Configuration
	notificationSubject string
}

func WithApiBaseUrl(apiBaseUrl string) Option {
	return func(o *options) {
		o.apiBaseUrl = apiBaseUrl
	}
}

func WithLearningUrl(learningUrl string) Option {
	return func(o *options) {
		o.learningUrl = learningUrl
	}
}

func WithDeliveryPacing(pacing DeliveryPacing) Option {
	return func(o *options) {
		o.pacing = pacing
	}
}

func WithCapturerConfig(config capture.Configuration) Option {
	return func(o *options) {
		o.capturerConfig = config
	}
}

func WithNotificationSubject(subject string) Option {
	return func(o *options) {
		o.notificationSubject = subject
	}
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	o := options{
		pacing:              DefaultDeliveryPacing(),
		notificationSubject: "Your phishing simulation results",
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := decoy.NewRegistry(decoy.Configuration{
		CoreBaseUrl: o.apiBaseUrl,
		LearningUrl: o.learningUrl,
	}, tunnelOpenerAdapter{repo: repos.TunnelRepository})

	return Usecases{
		Repositories:        repos,
		apiBaseUrl:          o.apiBaseUrl,
		learningUrl:         o.learningUrl,
		pacing:              o.pacing,
		capturerConfig:      o.capturerConfig,
		decoyRegistry:       registry,
		notificationSubject: o.notificationSubject,
	}
}

// tunnelOpenerAdapter lifts the concrete tunnel repository into the registry's
// opener interface.
type tunnelOpenerAdapter struct {
	repo repositories.TunnelRepository
}

func (a tunnelOpenerAdapter) OpenTunnel(ctx context.Context, localAddr string) (decoy.PublicTunnel, error) {
	tunnel, err := a.repo.OpenTunnel(ctx, localAddr)
	if err != nil {
		return nil, err
	}
	return tunnel, nil
}

func (usecases *Usecases) NewExecutorFactory() executor_factory.ExecutorFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) NewTransactionFactory() executor_factory.TransactionFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases *Usecases) DecoyRegistry() *decoy.Registry {
	return usecases.decoyRegistry
}

func (usecases *Usecases) NewDeliveryUsecase() *DeliveryUsecase {
	return &DeliveryUsecase{
		executorFactory:       usecases.NewExecutorFactory(),
		transactionFactory:    usecases.NewTransactionFactory(),
		campaignRepository:    usecases.Repositories.HookwiseDbRepository,
		interactionRepository: usecases.Repositories.HookwiseDbRepository,
		employeeRepository:    usecases.Repositories.HookwiseDbRepository,
		auditLogRepository:    usecases.Repositories.HookwiseDbRepository,
		taskQueueRepository:   usecases.Repositories.TaskQueueRepository,
		emailSender:           usecases.Repositories.MailerRepository,
		callPlacer:            usecases.Repositories.VoiceProviderRepository,
		capturer:              capture.NewCapturer(usecases.capturerConfig),
		transformer:           capture.Transformer{},
		decoys:                usecases.decoyRegistry,
		pacing:                usecases.pacing,
		trackingBaseUrl:       usecases.apiBaseUrl,
		learningUrl:           usecases.learningUrl,
	}
}

func (usecases *Usecases) NewInteractionUsecase() *InteractionUsecase {
	return &InteractionUsecase{
		executorFactory:       usecases.NewExecutorFactory(),
		interactionRepository: usecases.Repositories.HookwiseDbRepository,
		campaignRepository:    usecases.Repositories.HookwiseDbRepository,
		learningUrl:           usecases.learningUrl,
	}
}

func (usecases *Usecases) NewReconcilerUsecase() *ReconcilerUsecase {
	return &ReconcilerUsecase{
		executorFactory:       usecases.NewExecutorFactory(),
		interactionRepository: usecases.Repositories.HookwiseDbRepository,
		employeeRepository:    usecases.Repositories.HookwiseDbRepository,
		auditLogRepository:    usecases.Repositories.HookwiseDbRepository,
		artifactFetcher:       usecases.Repositories.VoiceProviderRepository,
		notifier:              usecases.Repositories.MailerRepository,
		notifyFromSubject:     usecases.notificationSubject,
	}
}

func (usecases *Usecases) NewCampaignUsecase() *CampaignUsecase {
	return &CampaignUsecase{
		executorFactory:       usecases.NewExecutorFactory(),
		transactionFactory:    usecases.NewTransactionFactory(),
		campaignRepository:    usecases.Repositories.HookwiseDbRepository,
		interactionRepository: usecases.Repositories.HookwiseDbRepository,
		auditLogRepository:    usecases.Repositories.HookwiseDbRepository,
		decoys:                usecases.decoyRegistry,
	}
}
