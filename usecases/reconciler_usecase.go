package usecases

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases/executor_factory"
	"github.com/hookwise/hookwise-backend/utils"
)

type ReconcilerInteractionRepository interface {
	GetInteractionByCallId(ctx context.Context, exec repositories.Executor,
		callId string) (models.Interaction, error)
	ListInteractionsPendingCallAnalytics(ctx context.Context, exec repositories.Executor,
		limit int) ([]models.Interaction, error)
	SaveCallAnalytics(ctx context.Context, exec repositories.Executor,
		update models.CallAnalyticsUpdate) (int64, error)
}

type ReconcilerEmployeeRepository interface {
	GetEmployeeById(ctx context.Context, exec repositories.Executor,
		employeeId uuid.UUID) (models.Employee, error)
}

type CallArtifactFetcher interface {
	GetCallArtifact(ctx context.Context, callId string) (models.CallArtifact, error)
}

const reconcileSweepBatchSize = 100

// ReconcilerUsecase converges the two call-result ingestion paths, webhook push and
// polling sweep, onto one idempotent write per call. The analytics_processed_at
// column is the only synchronization between them: whichever path persists first
// wins, the loser's conditional update touches zero rows and sends nothing.
type ReconcilerUsecase struct {
	executorFactory       executor_factory.ExecutorFactory
	interactionRepository ReconcilerInteractionRepository
	employeeRepository    ReconcilerEmployeeRepository
	auditLogRepository    AuditLogRepository
	artifactFetcher       CallArtifactFetcher
	notifier              EmailSender
	notifyFromSubject     string
}

// ProcessCallEnded is the webhook entry point. The artifact arrives in the event
// payload, no provider fetch is needed.
func (usecase *ReconcilerUsecase) ProcessCallEnded(ctx context.Context,
	artifact models.CallArtifact,
) error {
	exec := usecase.executorFactory.NewExecutor()

	interaction, err := usecase.interactionRepository.GetInteractionByCallId(ctx, exec, artifact.CallId)
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			// Calls placed outside any campaign are acknowledged and dropped.
			utils.LoggerFromContext(ctx).WarnContext(ctx,
				"received call ended event for an unknown call", "call_id", artifact.CallId)
			return nil
		}
		return err
	}

	return usecase.ProcessCallResult(ctx, interaction, artifact)
}

// SweepPendingCalls is the polling entry point: every interaction holding a call id
// without processed analytics gets one reconciliation attempt. Failures are isolated
// per item and retried on the next pass.
func (usecase *ReconcilerUsecase) SweepPendingCalls(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	pending, err := usecase.interactionRepository.ListInteractionsPendingCallAnalytics(ctx,
		exec, reconcileSweepBatchSize)
	if err != nil {
		return err
	}

	for _, interaction := range pending {
		artifact, err := usecase.artifactFetcher.GetCallArtifact(ctx, interaction.CallId.String)
		if err != nil {
			logger.WarnContext(ctx, "error fetching call artifact",
				"interaction_id", interaction.Id.String(),
				"call_id", interaction.CallId.String,
				"error", err.Error())
			continue
		}
		if err := usecase.ProcessCallResult(ctx, interaction, artifact); err != nil {
			logger.WarnContext(ctx, "error reconciling call",
				"interaction_id", interaction.Id.String(),
				"call_id", interaction.CallId.String,
				"error", err.Error())
		}
	}
	return nil
}

// ProcessCallResult validates the artifact, derives the outcome and persists it. It
// is safe to call any number of times for the same call: after the first successful
// write every later attempt is a no-op, and the outcome notification is sent only by
// the attempt whose write actually landed.
func (usecase *ReconcilerUsecase) ProcessCallResult(ctx context.Context,
	interaction models.Interaction, artifact models.CallArtifact,
) error {
	exec := usecase.executorFactory.NewExecutor()

	if interaction.AnalyticsProcessed() {
		return nil
	}
	if !artifact.Completed {
		// Still in progress on the provider side, the next sweep will pick it up.
		return nil
	}

	analysis, err := models.AdaptCallAnalysis(artifact.RawAnalysis)
	if err != nil {
		return err
	}
	outcome, err := analysis.Outcome(artifact)
	if err != nil {
		return err
	}

	rawAnalytics, err := models.MarshalCallAnalysisPayload(artifact.RawAnalysis)
	if err != nil {
		return err
	}

	updated, err := usecase.interactionRepository.SaveCallAnalytics(ctx, exec, models.CallAnalyticsUpdate{
		InteractionId:   interaction.Id,
		VoiceOutcome:    outcome,
		Transcript:      artifact.Transcript,
		RecordingUrl:    artifact.RecordingUrl,
		DurationSeconds: artifact.DurationSeconds,
		Analytics:       rawAnalytics,
	})
	if err != nil {
		return err
	}
	if updated == 0 {
		// The concurrent ingestion path got there first.
		return nil
	}

	usecase.auditProcessed(ctx, interaction, outcome)
	usecase.notifyTarget(ctx, interaction, analysis, outcome)
	return nil
}

func (usecase *ReconcilerUsecase) auditProcessed(ctx context.Context,
	interaction models.Interaction, outcome models.VoiceOutcome,
) {
	exec := usecase.executorFactory.NewExecutor()
	log := models.NewCampaignAuditLog(interaction.CampaignId, models.AuditAnalyticsProcessed,
		fmt.Sprintf("call %s reconciled with outcome %s", interaction.CallId.String, outcome))
	if err := usecase.auditLogRepository.CreateAuditLog(ctx, exec, log); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "error writing audit log", "error", err.Error())
	}
}

// notifyTarget sends the single outcome notification. Reaching this point implies
// this attempt won the conditional write, so the notification fires at most once per
// call no matter how often the webhook and the sweep both processed it.
func (usecase *ReconcilerUsecase) notifyTarget(ctx context.Context,
	interaction models.Interaction, analysis models.CallAnalysis, outcome models.VoiceOutcome,
) {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	employee, err := usecase.employeeRepository.GetEmployeeById(ctx, exec, interaction.EmployeeId)
	if err != nil {
		logger.WarnContext(ctx, "error loading employee for outcome notification",
			"employee_id", interaction.EmployeeId.String(), "error", err.Error())
		return
	}

	email := models.OutboundEmail{
		ToEmail:  employee.Email,
		ToName:   employee.FullName(),
		Subject:  usecase.notifyFromSubject,
		HtmlBody: renderOutcomeNotification(employee, analysis, outcome),
	}
	if err := usecase.notifier.SendEmail(ctx, email); err != nil {
		logger.WarnContext(ctx, "error sending outcome notification",
			"employee_id", employee.Id.String(), "error", err.Error())
	}
}

func renderOutcomeNotification(employee models.Employee,
	analysis models.CallAnalysis, outcome models.VoiceOutcome,
) string {
	var intro string
	switch outcome {
	case models.VoiceOutcomeFailed:
		intro = "During a recent simulated phishing call you shared information " +
			"that a real attacker could have used."
	case models.VoiceOutcomePassed:
		intro = "You recently handled a simulated phishing call well. Nice work."
	default:
		intro = "You were recently part of a simulated phishing call exercise."
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", employee.FirstName, intro)
	if analysis.Coaching != nil {
		for _, strength := range analysis.Coaching.Strengths {
			body += fmt.Sprintf("<p>What went well: %s</p>", strength)
		}
		for _, improvement := range analysis.Coaching.Improvements {
			body += fmt.Sprintf("<p>Something to work on: %s</p>", improvement)
		}
	}
	return body
}
