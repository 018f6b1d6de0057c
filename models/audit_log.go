package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditEventType string

const (
	AuditCaptureStarted     AuditEventType = "capture_started"
	AuditCaptureFailed      AuditEventType = "capture_failed"
	AuditTunnelOpened       AuditEventType = "tunnel_opened"
	AuditTunnelFailed       AuditEventType = "tunnel_failed"
	AuditEmailSent          AuditEventType = "email_sent"
	AuditDeliveryFailed     AuditEventType = "delivery_failed"
	AuditCallInitiated      AuditEventType = "call_initiated"
	AuditCallFailed         AuditEventType = "call_failed"
	AuditAnalyticsProcessed AuditEventType = "analytics_processed"
	AuditCampaignLaunched   AuditEventType = "campaign_launched"
	AuditCampaignRolledBack AuditEventType = "campaign_rolled_back"
	AuditCampaignClosed     AuditEventType = "campaign_closed"
)

// AuditLog is the append-only record of pipeline actions. Write-only from the core.
type AuditLog struct {
	Id         uuid.UUID
	CampaignId uuid.NullUUID
	EventType  AuditEventType
	Message    string
	Metadata   json.RawMessage
	CreatedAt  time.Time
}

type AuditLogCreate struct {
	CampaignId uuid.NullUUID
	EventType  AuditEventType
	Message    string
	Metadata   json.RawMessage
}

func NewCampaignAuditLog(campaignId uuid.UUID, eventType AuditEventType, message string) AuditLogCreate {
	return AuditLogCreate{
		CampaignId: uuid.NullUUID{UUID: campaignId, Valid: true},
		EventType:  eventType,
		Message:    message,
	}
}
