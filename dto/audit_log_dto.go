package dto

import (
	"encoding/json"
	"time"

	"github.com/hookwise/hookwise-backend/models"
)

type AuditLog struct {
	Id        string          `json:"id"`
	EventType string          `json:"event_type"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func AdaptAuditLog(log models.AuditLog) AuditLog {
	return AuditLog{
		Id:        log.Id.String(),
		EventType: string(log.EventType),
		Message:   log.Message,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}
