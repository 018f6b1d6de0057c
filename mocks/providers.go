package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/repositories"
)

type Mailer struct {
	mock.Mock
}

func (m *Mailer) SendEmail(ctx context.Context, email models.OutboundEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type VoiceProvider struct {
	mock.Mock
}

func (v *VoiceProvider) PlaceCall(ctx context.Context, call models.OutboundCall) (string, error) {
	args := v.Called(ctx, call)
	return args.String(0), args.Error(1)
}

func (v *VoiceProvider) GetCallArtifact(ctx context.Context, callId string) (models.CallArtifact, error) {
	args := v.Called(ctx, callId)
	return args.Get(0).(models.CallArtifact), args.Error(1)
}

type Capturer struct {
	mock.Mock
}

func (c *Capturer) CaptureUrl(ctx context.Context, targetUrl, snapshotId string) (string, error) {
	args := c.Called(ctx, targetUrl, snapshotId)
	return args.String(0), args.Error(1)
}

type Transformer struct {
	mock.Mock
}

func (t *Transformer) TransformSnapshot(snapshotPath string, learningUrl string) error {
	args := t.Called(snapshotPath, learningUrl)
	return args.Error(0)
}

type DecoyRegistry struct {
	mock.Mock
}

func (d *DecoyRegistry) Deploy(ctx context.Context, campaignId uuid.UUID, snapshotPath string) (string, error) {
	args := d.Called(ctx, campaignId, snapshotPath)
	return args.String(0), args.Error(1)
}

func (d *DecoyRegistry) Teardown(ctx context.Context, campaignId uuid.UUID) error {
	args := d.Called(ctx, campaignId)
	return args.Error(0)
}

type TaskQueueRepository struct {
	mock.Mock
}

func (t *TaskQueueRepository) EnqueueVoiceBatchTask(ctx context.Context, tx repositories.Transaction,
	campaignId uuid.UUID, runAt time.Time,
) error {
	args := t.Called(ctx, tx, campaignId, runAt)
	return args.Error(0)
}
