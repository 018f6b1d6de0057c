package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

type CampaignStatus string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusCapturing  CampaignStatus = "capturing"
	CampaignStatusGenerating CampaignStatus = "generating"
	CampaignStatusDelivering CampaignStatus = "delivering"
	CampaignStatusActive     CampaignStatus = "active"
	CampaignStatusClosed     CampaignStatus = "closed"
)

type CampaignChannel string

const (
	CampaignChannelEmail CampaignChannel = "email"
	CampaignChannelVoice CampaignChannel = "voice"
	CampaignChannelBoth  CampaignChannel = "both"
)

func (c CampaignChannel) EmailEnabled() bool {
	return c == CampaignChannelEmail || c == CampaignChannelBoth
}

func (c CampaignChannel) VoiceEnabled() bool {
	return c == CampaignChannelVoice || c == CampaignChannelBoth
}

type Campaign struct {
	Id                uuid.UUID
	Name              string
	Status            CampaignStatus
	TargetUrl         string
	Channel           CampaignChannel
	SnapshotPath      null.String
	TunnelUrl         null.String
	EmailSubject      string
	EmailBody         string
	VoiceScript       string
	VoiceDelayMinutes int
	ClosesAt          null.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Launchable campaigns may be picked up by the delivery orchestrator. A campaign
// rolled back after a failed launch goes back to draft and stays launchable.
func (c Campaign) Launchable() bool {
	return c.Status == CampaignStatusDraft
}

type CampaignUpdate struct {
	Id           uuid.UUID
	Status       *CampaignStatus
	SnapshotPath *null.String
	TunnelUrl    *null.String
}
