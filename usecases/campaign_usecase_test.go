package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hookwise/hookwise-backend/mocks"
	"github.com/hookwise/hookwise-backend/models"
)

type CampaignUsecaseTestSuite struct {
	suite.Suite
	executorFactory       *mocks.ExecutorFactory
	transactionFactory    *mocks.TransactionFactory
	campaignRepository    *mocks.CampaignRepository
	interactionRepository *mocks.InteractionRepository
	auditLogRepository    *mocks.AuditLogRepository
	decoys                *mocks.DecoyRegistry

	campaignId uuid.UUID
	campaign   models.Campaign
}

func (suite *CampaignUsecaseTestSuite) SetupTest() {
	suite.executorFactory = mocks.NewExecutorFactory()
	suite.transactionFactory = mocks.NewTransactionFactory()
	suite.campaignRepository = new(mocks.CampaignRepository)
	suite.interactionRepository = new(mocks.InteractionRepository)
	suite.auditLogRepository = new(mocks.AuditLogRepository)
	suite.decoys = new(mocks.DecoyRegistry)

	suite.campaignId = uuid.New()
	suite.campaign = models.Campaign{
		Id:           suite.campaignId,
		Status:       models.CampaignStatusActive,
		Channel:      models.CampaignChannelEmail,
		SnapshotPath: null.StringFrom("/snapshots/test.html"),
		TunnelUrl:    null.StringFrom("https://abc.trycloudflare.com"),
	}
}

func (suite *CampaignUsecaseTestSuite) makeUsecase() *CampaignUsecase {
	return &CampaignUsecase{
		executorFactory:       suite.executorFactory,
		transactionFactory:    suite.transactionFactory,
		campaignRepository:    suite.campaignRepository,
		interactionRepository: suite.interactionRepository,
		auditLogRepository:    suite.auditLogRepository,
		decoys:                suite.decoys,
	}
}

func (suite *CampaignUsecaseTestSuite) TestCloseCampaign() {
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.decoys.On("Teardown", mock.Anything, suite.campaignId).Return(nil)
	suite.interactionRepository.On("SweepUnengagedInteractions", mock.Anything, mock.Anything,
		suite.campaignId).Return(int64(4), nil)
	suite.campaignRepository.On("UpdateCampaignCapture", mock.Anything, mock.Anything,
		suite.campaignId, null.String{}, null.String{}).Return(nil)
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusClosed).Return(nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := suite.makeUsecase().CloseCampaign(context.Background(), suite.campaignId)
	suite.NoError(err)

	suite.decoys.AssertCalled(suite.T(), "Teardown", mock.Anything, suite.campaignId)
	suite.interactionRepository.AssertCalled(suite.T(), "SweepUnengagedInteractions",
		mock.Anything, mock.Anything, suite.campaignId)
}

func (suite *CampaignUsecaseTestSuite) TestCloseRejectsNonActiveCampaign() {
	suite.campaign.Status = models.CampaignStatusDraft
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)

	err := suite.makeUsecase().CloseCampaign(context.Background(), suite.campaignId)
	suite.ErrorIs(err, models.ErrCampaignNotActive)
	suite.decoys.AssertNotCalled(suite.T(), "Teardown", mock.Anything, mock.Anything)
}

func (suite *CampaignUsecaseTestSuite) TestCloseDueCampaignsIsolatesFailures() {
	otherId := uuid.New()
	other := suite.campaign
	other.Id = otherId

	suite.campaignRepository.On("ListCampaignsDueForClose", mock.Anything, mock.Anything,
		mock.Anything).Return([]models.Campaign{other, suite.campaign}, nil)

	// The first campaign fails its lookup, the second still gets closed.
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		otherId).Return(models.Campaign{}, models.NotFoundError)
	suite.campaignRepository.On("GetCampaignById", mock.Anything, mock.Anything,
		suite.campaignId).Return(suite.campaign, nil)
	suite.decoys.On("Teardown", mock.Anything, suite.campaignId).Return(nil)
	suite.interactionRepository.On("SweepUnengagedInteractions", mock.Anything, mock.Anything,
		suite.campaignId).Return(int64(0), nil)
	suite.campaignRepository.On("UpdateCampaignCapture", mock.Anything, mock.Anything,
		suite.campaignId, null.String{}, null.String{}).Return(nil)
	suite.campaignRepository.On("UpdateCampaignStatus", mock.Anything, mock.Anything,
		suite.campaignId, models.CampaignStatusClosed).Return(nil)
	suite.auditLogRepository.On("CreateAuditLog", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := suite.makeUsecase().CloseDueCampaigns(context.Background())
	suite.NoError(err)
	suite.campaignRepository.AssertCalled(suite.T(), "UpdateCampaignStatus",
		mock.Anything, mock.Anything, suite.campaignId, models.CampaignStatusClosed)
}

func TestCampaignUsecase(t *testing.T) {
	suite.Run(t, new(CampaignUsecaseTestSuite))
}
