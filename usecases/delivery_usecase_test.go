package usecases

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hookwise/hookwise-backend/mocks"
	"github.com/hookwise/hookwise-backend/models"
)

type DeliveryUsecaseTestSuite struct {
	suite.Suite
	executorFactory       *mocks.ExecutorFactory
	transactionFactory    *mocks.TransactionFactory
	campaignRepository    *mocks.CampaignRepository
	interactionRepository *mocks.InteractionRepository
	employeeRepository    *mocks.EmployeeRepository
	auditLogRepository    *mocks.AuditLogRepository
	taskQueueRepository   *mocks.TaskQueueRepository
	mailer                *mocks.Mailer
	voiceProvider         *mocks.VoiceProvider
	capturer              *mocks.Capturer
	transformer           *mocks.Transformer
	decoys                *mocks.DecoyRegistry

	campaignId uuid.UUID
	campaign   models.Campaign
	targets    []models.Employee
	events     []string
}

func (suite *DeliveryUsecaseTestSuite) SetupTest() {
	suite.executorFactory = mocks.NewExecutorFactory()
	suite.transactionFactory = mocks.NewTransactionFactory()
	suite.campaignRepository = new(mocks.CampaignRepository)
	suite.interactionRepository = new(mocks.InteractionRepository)
	suite.employeeRepository = new(mocks.EmployeeRepository)
	suite.auditLogRepository = new(mocks.AuditLogRepository)
	suite.taskQueueRepository = new(mocks.TaskQueueRepository)
	suite.mailer = new(mocks.Mailer)
	suite.voiceProvider = new(mocks.VoiceProvider)
	suite.capturer = new(mocks.Capturer)
	suite.transformer = new(mocks.Transformer)
	suite.decoys = new(mocks.DecoyRegistry)
	suite.events = nil

	suite.campaignId = uuid.New()
	suite.campaign = models.Campaign{
		Id:           suite.campaignId,
		Name:         "quarterly awareness drill",
		Status:       models.CampaignStatusDraft,
		TargetUrl:    "https://login.example.com",
		Channel:      models.CampaignChannelEmail,
		EmailSubject: "Action required",
		EmailBody:    "<p>Please sign in: {{tracking_link}}</p>",
	}
	suite.targets = []models.Employee{
		{Id: uuid.New(), FirstName: "Ada", LastName: "One", Email: "ada@example.com"},
		{Id: uuid.New(), FirstName: "Ben", LastName: "Two", Email: "ben@example.com"},
		{Id: uuid.New(), FirstName: "Cleo", LastName: "Three", Email: "cleo@example.com"},
	}
}

func (suite *DeliveryUsecaseTestSuite) makeUsecase() *DeliveryUsecase {
	return &DeliveryUsecase{
		executorFactory:       suite.executorFactory,
		transactionFactory:    suite.transactionFactory,
		campaignRepository:    suite.campaignRepository,
		interactionRepository: suite.interactionRepository,
		employeeRepository:    suite.employeeRepository,
		auditLogRepository:    suite.auditLogRepository,
		taskQueueRepository:   suite.taskQueueRepository,
		emailSender:           suite.mailer,
		callPlacer:            suite.voiceProvider,
		capturer:              suite.capturer,
		transformer:           suite.transformer,
		decoys:                suite.decoys,
		pacing:                DeliveryPacing{},
		trackingBaseUrl:       "https://hookwise.test",
		learningUrl:           "https://hookwise.test/t/learn",
	}
}

func (suite *DeliveryUsecaseTestSuite) targetIds() []uuid.UUID {
	ids := make([]uuid.UUID, len(suite.targets))
	for i, target := range suite.targets {
		ids[i] = target.Id
	}
	return ids
}

func (suite *DeliveryUsecaseTestSuite) expectSuccessfulDecoy() {
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusCapturing).Return(nil)
	suite.capturer.On("CaptureUrl", mock.Anything, suite.campaign.TargetUrl,
		suite.campaignId.String()).Return("/snapshots/test.html", nil)
	suite.transformer.On("TransformSnapshot", "/snapshots/test.html",
		"https://hookwise.test/t/learn").Return(nil)
	suite.decoys.On("Deploy", mock.Anything, suite.campaignId,
		"/snapshots/test.html").Return("https://abc.trycloudflare.com", nil)
	suite.campaignRepository.On("UpdateCampaignCapture", mock.Anything, mock.Anything,
		suite.campaignId, null.StringFrom("/snapshots/test.html"),
		null.StringFrom("https://abc.trycloudflare.com")).Return(nil)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchEmailCampaignWithOneFailedSend() {
	ctx := context.Background()

	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.employeeRepository.On("ListEmployeesByIds", mock.Anything, mock.Anything,
		suite.targetIds()).Return(suite.targets, nil)

	suite.interactionRepository.On("ListInteractionsOfCampaign", mock.Anything, mock.Anything,
		suite.campaignId).Return([]models.Interaction{}, nil)
	suite.interactionRepository.On("CreateInteraction", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		suite.events = append(suite.events, "enroll")
	})

	suite.expectSuccessfulDecoy()
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusGenerating).Return(nil)
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusDelivering).Return(nil)
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusActive).Return(nil)

	suite.mailer.On("SendEmail", mock.Anything, mock.MatchedBy(func(email models.OutboundEmail) bool {
		return email.ToEmail == "ben@example.com"
	})).Return(errors.New("mailbox unavailable")).Run(func(args mock.Arguments) {
		suite.events = append(suite.events, "send")
	})
	suite.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		suite.events = append(suite.events, "send")
	})
	suite.interactionRepository.On("RecordInteractionDelivery", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := suite.makeUsecase().LaunchCampaign(ctx, suite.campaignId, suite.targetIds())
	suite.NoError(err)

	// Every interaction exists before the first send attempt.
	suite.Equal([]string{"enroll", "enroll", "enroll", "send", "send", "send"}, suite.events)
	// The failed send is isolated: only the two successes get a delivery timestamp.
	suite.interactionRepository.AssertNumberOfCalls(suite.T(), "RecordInteractionDelivery", 2)
	suite.mailer.AssertNumberOfCalls(suite.T(), "SendEmail", 3)
	// No rollback happened.
	suite.campaignRepository.AssertNotCalled(suite.T(), "UpdateCampaignStatus",
		mock.Anything, mock.Anything, suite.campaignId, models.CampaignStatusDraft)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchRollsBackOnCaptureFailure() {
	ctx := context.Background()

	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.employeeRepository.On("ListEmployeesByIds", mock.Anything, mock.Anything,
		suite.targetIds()).Return(suite.targets, nil)
	suite.interactionRepository.On("ListInteractionsOfCampaign", mock.Anything, mock.Anything,
		suite.campaignId).Return([]models.Interaction{}, nil)
	suite.interactionRepository.On("CreateInteraction", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusCapturing).Return(nil)
	suite.capturer.On("CaptureUrl", mock.Anything, suite.campaign.TargetUrl,
		suite.campaignId.String()).Return("", errors.Wrap(models.CaptureError, "timeout"))

	suite.decoys.On("Teardown", mock.Anything, suite.campaignId).Return(nil)
	suite.campaignRepository.On("UpdateCampaignCapture", mock.Anything, mock.Anything,
		suite.campaignId, null.String{}, null.String{}).Return(nil)
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusDraft).Return(nil)

	err := suite.makeUsecase().LaunchCampaign(ctx, suite.campaignId, suite.targetIds())
	suite.ErrorIs(err, models.CaptureError)

	suite.decoys.AssertCalled(suite.T(), "Teardown", mock.Anything, suite.campaignId)
	suite.campaignRepository.AssertCalled(suite.T(), "UpdateCampaignStatus",
		mock.Anything, mock.Anything, suite.campaignId, models.CampaignStatusDraft)
	suite.mailer.AssertNotCalled(suite.T(), "SendEmail", mock.Anything, mock.Anything)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchDeletesOrphanedSnapshotOnTransformFailure() {
	ctx := context.Background()
	snapshotPath := filepath.Join(suite.T().TempDir(), "snap.html")
	suite.Require().NoError(os.WriteFile(snapshotPath, []byte("<html></html>"), 0o644))

	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.employeeRepository.On("ListEmployeesByIds", mock.Anything, mock.Anything,
		suite.targetIds()).Return(suite.targets, nil)
	suite.interactionRepository.On("ListInteractionsOfCampaign", mock.Anything, mock.Anything,
		suite.campaignId).Return([]models.Interaction{}, nil)
	suite.interactionRepository.On("CreateInteraction", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusCapturing).Return(nil)
	suite.capturer.On("CaptureUrl", mock.Anything, suite.campaign.TargetUrl,
		suite.campaignId.String()).Return(snapshotPath, nil)
	suite.transformer.On("TransformSnapshot", snapshotPath,
		"https://hookwise.test/t/learn").Return(errors.Wrap(models.CaptureError, "broken markup"))

	suite.decoys.On("Teardown", mock.Anything, suite.campaignId).Return(nil)
	suite.campaignRepository.On("UpdateCampaignCapture", mock.Anything, mock.Anything,
		suite.campaignId, null.String{}, null.String{}).Return(nil)
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusDraft).Return(nil)

	err := suite.makeUsecase().LaunchCampaign(ctx, suite.campaignId, suite.targetIds())
	suite.ErrorIs(err, models.CaptureError)

	// The captured page copy never reached a registered decoy, so the rollback's
	// Teardown cannot delete it. The launch itself must.
	_, statErr := os.Stat(snapshotPath)
	suite.True(os.IsNotExist(statErr))
	suite.decoys.AssertNotCalled(suite.T(), "Deploy", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchConflictsWhenEnrollRaces() {
	ctx := context.Background()

	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.employeeRepository.On("ListEmployeesByIds", mock.Anything, mock.Anything,
		suite.targetIds()).Return(suite.targets, nil)
	suite.interactionRepository.On("ListInteractionsOfCampaign", mock.Anything, mock.Anything,
		suite.campaignId).Return([]models.Interaction{}, nil)
	suite.interactionRepository.On("CreateInteraction", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := suite.makeUsecase().LaunchCampaign(ctx, suite.campaignId, suite.targetIds())
	suite.ErrorIs(err, models.ConflictError)
	suite.capturer.AssertNotCalled(suite.T(), "CaptureUrl", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchBothChannelsSchedulesVoiceBatch() {
	ctx := context.Background()
	suite.campaign.Channel = models.CampaignChannelBoth
	suite.campaign.VoiceDelayMinutes = 15

	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.employeeRepository.On("ListEmployeesByIds", mock.Anything, mock.Anything,
		suite.targetIds()).Return(suite.targets, nil)
	suite.interactionRepository.On("ListInteractionsOfCampaign", mock.Anything, mock.Anything,
		suite.campaignId).Return([]models.Interaction{}, nil)
	suite.interactionRepository.On("CreateInteraction", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil)
	suite.expectSuccessfulDecoy()
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, mock.Anything).Return(nil)
	suite.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)
	suite.interactionRepository.On("RecordInteractionDelivery", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.taskQueueRepository.On("EnqueueVoiceBatchTask", mock.Anything, mock.Anything,
		suite.campaignId, mock.Anything).Return(nil)

	err := suite.makeUsecase().LaunchCampaign(ctx, suite.campaignId, suite.targetIds())
	suite.NoError(err)

	// Calls are deferred to the durable job, never placed in-band on a both launch.
	suite.voiceProvider.AssertNotCalled(suite.T(), "PlaceCall", mock.Anything, mock.Anything)
	suite.taskQueueRepository.AssertCalled(suite.T(), "EnqueueVoiceBatchTask",
		mock.Anything, mock.Anything, suite.campaignId, mock.Anything)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchRejectsNonDraftCampaign() {
	suite.campaign.Status = models.CampaignStatusActive
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)

	err := suite.makeUsecase().LaunchCampaign(context.Background(), suite.campaignId, suite.targetIds())
	suite.ErrorIs(err, models.ErrCampaignNotLaunchable)
}

func (suite *DeliveryUsecaseTestSuite) TestLaunchRejectsOptedOutOnlyTargets() {
	for i := range suite.targets {
		suite.targets[i].OptedOut = true
	}
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.employeeRepository.On("ListEmployeesByIds", mock.Anything, mock.Anything,
		suite.targetIds()).Return(suite.targets, nil)

	err := suite.makeUsecase().LaunchCampaign(context.Background(), suite.campaignId, suite.targetIds())
	suite.ErrorIs(err, models.ErrCampaignHasNoTargets)
}

func (suite *DeliveryUsecaseTestSuite) TestDeliverVoiceBatchSkipsClosedCampaign() {
	suite.campaign.Status = models.CampaignStatusClosed
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)

	err := suite.makeUsecase().DeliverVoiceBatch(context.Background(), suite.campaignId)
	suite.NoError(err)
	suite.voiceProvider.AssertNotCalled(suite.T(), "PlaceCall", mock.Anything, mock.Anything)
}

func TestDeliveryUsecase(t *testing.T) {
	suite.Run(t, new(DeliveryUsecaseTestSuite))
}
