package models

import (
	"github.com/google/uuid"
)

// VoiceBatchArgs is the durable job dispatching the deferred voice batch of a
// campaign launched on both channels. Scheduling it through the task queue means a
// process restart between launch and the voice delay does not drop the batch.
type VoiceBatchArgs struct {
	CampaignId uuid.UUID `json:"campaign_id"`
}

func (VoiceBatchArgs) Kind() string { return "voice_batch_dispatch" }

// ReconcileCallsArgs is the periodic sweep over interactions that have a call id
// but no analytics yet.
type ReconcileCallsArgs struct{}

func (ReconcileCallsArgs) Kind() string { return "reconcile_pending_calls" }
