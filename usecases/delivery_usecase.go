package usecases

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/pure_utils"
	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases/executor_factory"
	"github.com/hookwise/hookwise-backend/utils"
)

const trackingLinkPlaceholder = "{{tracking_link}}"

type DeliveryCampaignRepository interface {
	GetCampaignById(ctx context.Context, exec repositories.Executor, campaignId uuid.UUID) (models.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, exec repositories.Executor, campaignId uuid.UUID,
		status models.CampaignStatus) error
	UpdateCampaignCapture(ctx context.Context, exec repositories.Executor, campaignId uuid.UUID,
		snapshotPath, tunnelUrl null.String) error
}

type DeliveryInteractionRepository interface {
	CreateInteraction(ctx context.Context, exec repositories.Executor, newInteractionId uuid.UUID,
		create models.InteractionCreate) error
	ListInteractionsOfCampaign(ctx context.Context, exec repositories.Executor,
		campaignId uuid.UUID) ([]models.Interaction, error)
	RecordInteractionDelivery(ctx context.Context, exec repositories.Executor,
		interactionId uuid.UUID, at time.Time) error
	RegisterInteractionCallId(ctx context.Context, exec repositories.Executor,
		interactionId uuid.UUID, callId string) error
}

type DeliveryEmployeeRepository interface {
	ListEmployeesByIds(ctx context.Context, exec repositories.Executor,
		employeeIds []uuid.UUID) ([]models.Employee, error)
}

type AuditLogRepository interface {
	CreateAuditLog(ctx context.Context, exec repositories.Executor, create models.AuditLogCreate) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, email models.OutboundEmail) error
}

type CallPlacer interface {
	PlaceCall(ctx context.Context, call models.OutboundCall) (string, error)
}

type SnapshotCapturer interface {
	CaptureUrl(ctx context.Context, targetUrl, snapshotId string) (string, error)
}

type SnapshotTransformer interface {
	TransformSnapshot(snapshotPath string, learningUrl string) error
}

type DecoyDeployer interface {
	Deploy(ctx context.Context, campaignId uuid.UUID, snapshotPath string) (string, error)
	Teardown(ctx context.Context, campaignId uuid.UUID) error
}

// DeliveryPacing is the jitter window applied between consecutive targets. Emails go
// out a few seconds apart, voice calls tens of seconds apart, so a batch never looks
// like a machine-generated burst to the receiving side.
type DeliveryPacing struct {
	EmailMin time.Duration
	EmailMax time.Duration
	VoiceMin time.Duration
	VoiceMax time.Duration
}

func DefaultDeliveryPacing() DeliveryPacing {
	return DeliveryPacing{
		EmailMin: 2 * time.Second,
		EmailMax: 5 * time.Second,
		VoiceMin: 20 * time.Second,
		VoiceMax: 40 * time.Second,
	}
}

type DeliveryUsecase struct {
	executorFactory       executor_factory.ExecutorFactory
	transactionFactory    executor_factory.TransactionFactory
	campaignRepository    DeliveryCampaignRepository
	interactionRepository DeliveryInteractionRepository
	employeeRepository    DeliveryEmployeeRepository
	auditLogRepository    AuditLogRepository
	taskQueueRepository   repositories.TaskQueueRepository
	emailSender           EmailSender
	callPlacer            CallPlacer
	capturer              SnapshotCapturer
	transformer           SnapshotTransformer
	decoys                DecoyDeployer
	pacing                DeliveryPacing
	trackingBaseUrl       string
	learningUrl           string
}

// LaunchCampaign runs the full delivery pipeline for one campaign against the given
// targets. Email dispatch happens in-band; when both channels are enabled the voice
// batch is enqueued as a durable scheduled job instead of being placed inline.
func (usecase *DeliveryUsecase) LaunchCampaign(ctx context.Context,
	campaignId uuid.UUID, employeeIds []uuid.UUID,
) error {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	campaign, err := usecase.campaignRepository.GetCampaignById(ctx, exec, campaignId)
	if err != nil {
		return err
	}
	if !campaign.Launchable() {
		return errors.Wrapf(models.ErrCampaignNotLaunchable,
			"campaign %s is in status %s", campaignId, campaign.Status)
	}

	targets, err := usecase.resolveTargets(ctx, exec, employeeIds)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.Wrapf(models.ErrCampaignHasNoTargets, "campaign %s", campaignId)
	}

	// Tokens must exist before any external dispatch is attempted, so that a send
	// failing halfway never leaves a target without a trackable interaction.
	interactions, err := usecase.enrollTargets(ctx, campaign, targets)
	if err != nil {
		return err
	}

	if campaign.Channel.EmailEnabled() {
		campaign, err = usecase.prepareDecoy(ctx, campaign)
		if err != nil {
			return usecase.rollbackLaunch(ctx, campaign, err)
		}
	}

	if err := usecase.campaignRepository.UpdateCampaignStatus(ctx, exec,
		campaignId, models.CampaignStatusGenerating); err != nil {
		return usecase.rollbackLaunch(ctx, campaign, err)
	}
	if err := usecase.campaignRepository.UpdateCampaignStatus(ctx, exec,
		campaignId, models.CampaignStatusDelivering); err != nil {
		return usecase.rollbackLaunch(ctx, campaign, err)
	}

	if campaign.Channel.EmailEnabled() {
		usecase.dispatchEmails(ctx, campaign, targets, interactions)
	}

	switch {
	case campaign.Channel == models.CampaignChannelVoice:
		usecase.dispatchCalls(ctx, campaign, targets, interactions)
	case campaign.Channel == models.CampaignChannelBoth:
		if err := usecase.scheduleVoiceBatch(ctx, campaign); err != nil {
			return usecase.rollbackLaunch(ctx, campaign, err)
		}
	}

	if err := usecase.campaignRepository.UpdateCampaignStatus(ctx, exec,
		campaignId, models.CampaignStatusActive); err != nil {
		return err
	}

	usecase.audit(ctx, models.NewCampaignAuditLog(campaignId, models.AuditCampaignLaunched,
		fmt.Sprintf("campaign launched against %d targets on channel %s",
			len(targets), campaign.Channel)))
	logger.InfoContext(ctx, "campaign launched",
		"campaign_id", campaignId.String(),
		"channel", string(campaign.Channel),
		"targets", len(targets))
	return nil
}

// DeliverVoiceBatch places the calls of a campaign, one target at a time. It is the
// body of the deferred voice job and the in-band path of voice-only launches.
func (usecase *DeliveryUsecase) DeliverVoiceBatch(ctx context.Context, campaignId uuid.UUID) error {
	exec := usecase.executorFactory.NewExecutor()

	campaign, err := usecase.campaignRepository.GetCampaignById(ctx, exec, campaignId)
	if err != nil {
		return err
	}
	if campaign.Status != models.CampaignStatusActive {
		// The campaign was closed between scheduling and execution: drop the batch.
		utils.LoggerFromContext(ctx).InfoContext(ctx,
			"skipping voice batch, campaign is no longer active",
			"campaign_id", campaignId.String(), "status", string(campaign.Status))
		return nil
	}

	interactions, err := usecase.interactionRepository.ListInteractionsOfCampaign(ctx, exec, campaignId)
	if err != nil {
		return err
	}
	byEmployee := make(map[uuid.UUID]models.Interaction, len(interactions))
	for _, interaction := range interactions {
		byEmployee[interaction.EmployeeId] = interaction
	}

	targets, err := usecase.resolveTargets(ctx, exec,
		pure_utils.Map(interactions, func(i models.Interaction) uuid.UUID { return i.EmployeeId }))
	if err != nil {
		return err
	}

	usecase.dispatchCalls(ctx, campaign, targets, byEmployee)
	return nil
}

func (usecase *DeliveryUsecase) resolveTargets(ctx context.Context, exec repositories.Executor,
	employeeIds []uuid.UUID,
) ([]models.Employee, error) {
	employees, err := usecase.employeeRepository.ListEmployeesByIds(ctx, exec, employeeIds)
	if err != nil {
		return nil, err
	}
	return pure_utils.Filter(employees, func(employee models.Employee) bool {
		return !employee.OptedOut
	}), nil
}

// enrollTargets creates the pending interactions with fresh tokens, reusing any
// interaction left over from a previous rolled back launch of the same campaign.
func (usecase *DeliveryUsecase) enrollTargets(ctx context.Context,
	campaign models.Campaign, targets []models.Employee,
) (map[uuid.UUID]models.Interaction, error) {
	return executor_factory.TransactionReturnValue(ctx, usecase.transactionFactory,
		func(tx repositories.Transaction) (map[uuid.UUID]models.Interaction, error) {
			byEmployee := make(map[uuid.UUID]models.Interaction, len(targets))

			existing, err := usecase.interactionRepository.ListInteractionsOfCampaign(ctx, tx, campaign.Id)
			if err != nil {
				return nil, err
			}
			for _, interaction := range existing {
				byEmployee[interaction.EmployeeId] = interaction
			}

			for _, target := range targets {
				if _, enrolled := byEmployee[target.Id]; enrolled {
					continue
				}
				create := models.InteractionCreate{
					CampaignId:    campaign.Id,
					EmployeeId:    target.Id,
					TrackingToken: uuid.NewString(),
				}
				interactionId := uuid.New()
				if err := usecase.interactionRepository.CreateInteraction(ctx, tx, interactionId, create); err != nil {
					if repositories.IsUniqueViolationError(err) {
						return nil, errors.Wrapf(models.ConflictError,
							"target %s is already being enrolled by a concurrent launch", target.Id)
					}
					return nil, err
				}
				byEmployee[target.Id] = models.Interaction{
					Id:            interactionId,
					CampaignId:    campaign.Id,
					EmployeeId:    target.Id,
					TrackingToken: create.TrackingToken,
					Status:        models.InteractionStatusPending,
				}
			}
			return byEmployee, nil
		})
}

// prepareDecoy captures and transforms the target page, exposes it publicly and
// persists the artifact references on the campaign.
func (usecase *DeliveryUsecase) prepareDecoy(ctx context.Context,
	campaign models.Campaign,
) (models.Campaign, error) {
	exec := usecase.executorFactory.NewExecutor()

	if err := usecase.campaignRepository.UpdateCampaignStatus(ctx, exec,
		campaign.Id, models.CampaignStatusCapturing); err != nil {
		return campaign, err
	}
	usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditCaptureStarted,
		fmt.Sprintf("capturing %s", campaign.TargetUrl)))

	snapshotPath, err := usecase.capturer.CaptureUrl(ctx, campaign.TargetUrl, campaign.Id.String())
	if err != nil {
		usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditCaptureFailed, err.Error()))
		return campaign, err
	}
	if err := usecase.transformer.TransformSnapshot(snapshotPath, usecase.learningUrl); err != nil {
		usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditCaptureFailed, err.Error()))
		usecase.removeSnapshot(ctx, snapshotPath)
		return campaign, err
	}

	tunnelUrl, err := usecase.decoys.Deploy(ctx, campaign.Id, snapshotPath)
	if err != nil {
		usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditTunnelFailed, err.Error()))
		usecase.removeSnapshot(ctx, snapshotPath)
		return campaign, err
	}
	usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditTunnelOpened, tunnelUrl))

	campaign.SnapshotPath = null.StringFrom(snapshotPath)
	campaign.TunnelUrl = null.StringFrom(tunnelUrl)
	if err := usecase.campaignRepository.UpdateCampaignCapture(ctx, exec,
		campaign.Id, campaign.SnapshotPath, campaign.TunnelUrl); err != nil {
		return campaign, err
	}
	return campaign, nil
}

// removeSnapshot deletes a captured page copy that never made it behind a registered
// decoy. Once Deploy succeeds the registry owns the file and deletes it on teardown.
func (usecase *DeliveryUsecase) removeSnapshot(ctx context.Context, snapshotPath string) {
	if err := os.Remove(snapshotPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "error deleting orphaned snapshot",
			"path", snapshotPath, "error", err.Error())
	}
}

// dispatchEmails sends sequentially with a jittered pause between targets. A failed
// send is logged and audited, the rest of the batch proceeds.
func (usecase *DeliveryUsecase) dispatchEmails(ctx context.Context, campaign models.Campaign,
	targets []models.Employee, interactions map[uuid.UUID]models.Interaction,
) {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	for i, target := range targets {
		if i > 0 {
			usecase.pause(ctx, usecase.pacing.EmailMin, usecase.pacing.EmailMax)
		}
		interaction, ok := interactions[target.Id]
		if !ok {
			continue
		}

		email := models.OutboundEmail{
			ToEmail:  target.Email,
			ToName:   target.FullName(),
			Subject:  campaign.EmailSubject,
			HtmlBody: usecase.renderEmailBody(campaign, interaction.TrackingToken),
		}
		if err := usecase.emailSender.SendEmail(ctx, email); err != nil {
			err = errors.Wrapf(models.DeliveryError, "email to employee %s: %v", target.Id, err)
			logger.WarnContext(ctx, "email delivery failed",
				"campaign_id", campaign.Id.String(),
				"employee_id", target.Id.String(),
				"error", err.Error())
			usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditDeliveryFailed, err.Error()))
			continue
		}

		usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditEmailSent,
			fmt.Sprintf("email sent to employee %s", target.Id)))
		if err := usecase.interactionRepository.RecordInteractionDelivery(ctx, exec,
			interaction.Id, time.Now()); err != nil {
			logger.WarnContext(ctx, "error recording delivery timestamp", "error", err.Error())
		}
	}
}

func (usecase *DeliveryUsecase) dispatchCalls(ctx context.Context, campaign models.Campaign,
	targets []models.Employee, interactions map[uuid.UUID]models.Interaction,
) {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	for i, target := range targets {
		if i > 0 {
			usecase.pause(ctx, usecase.pacing.VoiceMin, usecase.pacing.VoiceMax)
		}
		interaction, ok := interactions[target.Id]
		if !ok || interaction.CallId.Valid {
			continue
		}

		callId, err := usecase.callPlacer.PlaceCall(ctx, models.OutboundCall{
			ToPhone: target.Phone,
			Script:  campaign.VoiceScript,
		})
		if err != nil {
			err = errors.Wrapf(models.DeliveryError, "call to employee %s: %v", target.Id, err)
			logger.WarnContext(ctx, "call placement failed",
				"campaign_id", campaign.Id.String(),
				"employee_id", target.Id.String(),
				"error", err.Error())
			usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditCallFailed, err.Error()))
			continue
		}

		usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditCallInitiated,
			fmt.Sprintf("call %s placed to employee %s", callId, target.Id)))
		if err := usecase.interactionRepository.RegisterInteractionCallId(ctx, exec,
			interaction.Id, callId); err != nil {
			logger.WarnContext(ctx, "error registering call id", "error", err.Error())
		}
		if err := usecase.interactionRepository.RecordInteractionDelivery(ctx, exec,
			interaction.Id, time.Now()); err != nil {
			logger.WarnContext(ctx, "error recording delivery timestamp", "error", err.Error())
		}
	}
}

func (usecase *DeliveryUsecase) scheduleVoiceBatch(ctx context.Context, campaign models.Campaign) error {
	runAt := time.Now().Add(time.Duration(campaign.VoiceDelayMinutes) * time.Minute)
	return usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		return usecase.taskQueueRepository.EnqueueVoiceBatchTask(ctx, tx, campaign.Id, runAt)
	})
}

// rollbackLaunch resets a campaign that failed before its per-target loop: decoy
// resources are torn down, artifact references cleared and the status goes back to
// draft so the operator can retry.
func (usecase *DeliveryUsecase) rollbackLaunch(ctx context.Context,
	campaign models.Campaign, cause error,
) error {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	if err := usecase.decoys.Teardown(ctx, campaign.Id); err != nil {
		logger.WarnContext(ctx, "error tearing down decoy during rollback", "error", err.Error())
	}
	if err := usecase.campaignRepository.UpdateCampaignCapture(ctx, exec,
		campaign.Id, null.String{}, null.String{}); err != nil {
		logger.WarnContext(ctx, "error clearing capture fields during rollback", "error", err.Error())
	}
	if err := usecase.campaignRepository.UpdateCampaignStatus(ctx, exec,
		campaign.Id, models.CampaignStatusDraft); err != nil {
		logger.WarnContext(ctx, "error resetting campaign status during rollback", "error", err.Error())
	}

	usecase.audit(ctx, models.NewCampaignAuditLog(campaign.Id, models.AuditCampaignRolledBack, cause.Error()))
	logger.ErrorContext(ctx, "campaign launch rolled back",
		"campaign_id", campaign.Id.String(), "error", cause.Error())
	return cause
}

func (usecase *DeliveryUsecase) renderEmailBody(campaign models.Campaign, trackingToken string) string {
	trackingLink := fmt.Sprintf("%s/t/click?token=%s", usecase.trackingBaseUrl, trackingToken)
	if strings.Contains(campaign.EmailBody, trackingLinkPlaceholder) {
		return strings.ReplaceAll(campaign.EmailBody, trackingLinkPlaceholder, trackingLink)
	}
	return fmt.Sprintf(`%s<p><a href="%s">%s</a></p>`, campaign.EmailBody, trackingLink, trackingLink)
}

func (usecase *DeliveryUsecase) pause(ctx context.Context, lo, hi time.Duration) {
	delay := lo
	if hi > lo {
		delay += rand.N(hi - lo)
	}
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

func (usecase *DeliveryUsecase) audit(ctx context.Context, create models.AuditLogCreate) {
	exec := usecase.executorFactory.NewExecutor()
	if err := usecase.auditLogRepository.CreateAuditLog(ctx, exec, create); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "error writing audit log", "error", err.Error())
	}
}
