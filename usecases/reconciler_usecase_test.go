package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hookwise/hookwise-backend/mocks"
	"github.com/hookwise/hookwise-backend/models"
)

type ReconcilerUsecaseTestSuite struct {
	suite.Suite
	executorFactory       *mocks.ExecutorFactory
	interactionRepository *mocks.InteractionRepository
	employeeRepository    *mocks.EmployeeRepository
	auditLogRepository    *mocks.AuditLogRepository
	voiceProvider         *mocks.VoiceProvider
	mailer                *mocks.Mailer

	callId      string
	interaction models.Interaction
	employee    models.Employee
	artifact    models.CallArtifact
}

func (suite *ReconcilerUsecaseTestSuite) SetupTest() {
	suite.executorFactory = mocks.NewExecutorFactory()
	suite.interactionRepository = new(mocks.InteractionRepository)
	suite.employeeRepository = new(mocks.EmployeeRepository)
	suite.auditLogRepository = new(mocks.AuditLogRepository)
	suite.voiceProvider = new(mocks.VoiceProvider)
	suite.mailer = new(mocks.Mailer)

	suite.callId = "call-7f3a"
	suite.employee = models.Employee{
		Id:        uuid.New(),
		FirstName: "Ada",
		LastName:  "One",
		Email:     "ada@example.com",
	}
	suite.interaction = models.Interaction{
		Id:         uuid.New(),
		CampaignId: uuid.New(),
		EmployeeId: suite.employee.Id,
		Status:     models.InteractionStatusPending,
		CallId:     null.StringFrom(suite.callId),
	}
	suite.artifact = models.CallArtifact{
		CallId:          suite.callId,
		Completed:       true,
		Answered:        true,
		Transcript:      "hello, this is IT support",
		RecordingUrl:    "https://recordings.example.com/7f3a",
		DurationSeconds: 185,
		RawAnalysis: map[string]json.RawMessage{
			models.CategoryPhishingSusceptibility: json.RawMessage(
				`{"fell_for_phish": true, "red_flags_missed": ["caller urgency"], "information_disclosed": ["badge number"]}`),
			models.CategoryCallDisposition: json.RawMessage(
				`{"answered": true, "ended_reason": "caller hung up"}`),
		},
	}
}

func (suite *ReconcilerUsecaseTestSuite) makeUsecase() *ReconcilerUsecase {
	return &ReconcilerUsecase{
		executorFactory:       suite.executorFactory,
		interactionRepository: suite.interactionRepository,
		employeeRepository:    suite.employeeRepository,
		auditLogRepository:    suite.auditLogRepository,
		artifactFetcher:       suite.voiceProvider,
		notifier:              suite.mailer,
		notifyFromSubject:     "Your phishing simulation results",
	}
}

func (suite *ReconcilerUsecaseTestSuite) expectSuccessfulWrite() {
	suite.interactionRepository.On("SaveCallAnalytics", mock.Anything, mock.Anything,
		mock.MatchedBy(func(update models.CallAnalyticsUpdate) bool {
			return update.InteractionId == suite.interaction.Id &&
				update.VoiceOutcome == models.VoiceOutcomeFailed
		})).Return(int64(1), nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.employeeRepository.On("GetEmployeeById", mock.Anything, mock.Anything,
		suite.employee.Id).Return(suite.employee, nil)
	suite.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)
}

func (suite *ReconcilerUsecaseTestSuite) TestProcessCallResultPersistsAndNotifiesOnce() {
	suite.expectSuccessfulWrite()
	usecase := suite.makeUsecase()

	suite.NoError(usecase.ProcessCallResult(context.Background(), suite.interaction, suite.artifact))

	// Replay with the processed marker set, as both ingestion paths will see it.
	processed := suite.interaction
	processed.AnalyticsProcessedAt = null.TimeFrom(processed.CreatedAt)
	suite.NoError(usecase.ProcessCallResult(context.Background(), processed, suite.artifact))

	suite.interactionRepository.AssertNumberOfCalls(suite.T(), "SaveCallAnalytics", 1)
	suite.mailer.AssertNumberOfCalls(suite.T(), "SendEmail", 1)
}

func (suite *ReconcilerUsecaseTestSuite) TestConcurrentPathLosingTheWriteSendsNothing() {
	suite.interactionRepository.On("SaveCallAnalytics", mock.Anything, mock.Anything,
		mock.Anything).Return(int64(0), nil)

	err := suite.makeUsecase().ProcessCallResult(context.Background(), suite.interaction, suite.artifact)
	suite.NoError(err)
	suite.mailer.AssertNotCalled(suite.T(), "SendEmail", mock.Anything, mock.Anything)
}

func (suite *ReconcilerUsecaseTestSuite) TestIncompleteCallIsLeftForNextSweep() {
	suite.artifact.Completed = false

	err := suite.makeUsecase().ProcessCallResult(context.Background(), suite.interaction, suite.artifact)
	suite.NoError(err)
	suite.interactionRepository.AssertNotCalled(suite.T(), "SaveCallAnalytics",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconcilerUsecaseTestSuite) TestUnknownAnalysisCategoryFailsFast() {
	suite.artifact.RawAnalysis["Sentiment Overview"] = json.RawMessage(`{"mood": "tense"}`)

	err := suite.makeUsecase().ProcessCallResult(context.Background(), suite.interaction, suite.artifact)
	suite.ErrorIs(err, models.ReconciliationError)
	suite.interactionRepository.AssertNotCalled(suite.T(), "SaveCallAnalytics",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconcilerUsecaseTestSuite) TestUnansweredCallGetsNoAnswerOutcome() {
	suite.artifact.Answered = false
	suite.artifact.RawAnalysis = map[string]json.RawMessage{}

	suite.interactionRepository.On("SaveCallAnalytics", mock.Anything, mock.Anything,
		mock.MatchedBy(func(update models.CallAnalyticsUpdate) bool {
			return update.VoiceOutcome == models.VoiceOutcomeNoAnswer
		})).Return(int64(1), nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.employeeRepository.On("GetEmployeeById", mock.Anything, mock.Anything,
		suite.employee.Id).Return(suite.employee, nil)
	suite.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	err := suite.makeUsecase().ProcessCallResult(context.Background(), suite.interaction, suite.artifact)
	suite.NoError(err)
}

func (suite *ReconcilerUsecaseTestSuite) TestSweepIsolatesPerItemFailures() {
	broken := suite.interaction
	broken.Id = uuid.New()
	broken.CallId = null.StringFrom("call-broken")

	suite.interactionRepository.On("ListInteractionsPendingCallAnalytics", mock.Anything,
		mock.Anything, reconcileSweepBatchSize).
		Return([]models.Interaction{broken, suite.interaction}, nil)
	suite.voiceProvider.On("GetCallArtifact", mock.Anything, "call-broken").
		Return(models.CallArtifact{}, models.ReconciliationError)
	suite.voiceProvider.On("GetCallArtifact", mock.Anything, suite.callId).
		Return(suite.artifact, nil)
	suite.expectSuccessfulWrite()

	err := suite.makeUsecase().SweepPendingCalls(context.Background())
	suite.NoError(err)
	suite.interactionRepository.AssertNumberOfCalls(suite.T(), "SaveCallAnalytics", 1)
	suite.mailer.AssertNumberOfCalls(suite.T(), "SendEmail", 1)
}

func (suite *ReconcilerUsecaseTestSuite) TestWebhookIgnoresUnknownCall() {
	suite.interactionRepository.On("GetInteractionByCallId", mock.Anything, mock.Anything,
		"call-unknown").Return(models.Interaction{}, models.NotFoundError)

	artifact := suite.artifact
	artifact.CallId = "call-unknown"
	err := suite.makeUsecase().ProcessCallEnded(context.Background(), artifact)
	suite.NoError(err)
}

func TestReconcilerUsecase(t *testing.T) {
	suite.Run(t, new(ReconcilerUsecaseTestSuite))
}
