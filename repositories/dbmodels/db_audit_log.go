package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type DbAuditLog struct {
	Id         uuid.UUID       `db:"id"`
	CampaignId uuid.NullUUID   `db:"campaign_id"`
	EventType  string          `db:"event_type"`
	Message    string          `db:"message"`
	Metadata   json.RawMessage `db:"metadata"`
	CreatedAt  time.Time       `db:"created_at"`
}

const TABLE_AUDIT_LOGS = "audit_logs"

var SelectAuditLogColumns = utils.ColumnList[DbAuditLog]()

func AdaptAuditLog(db DbAuditLog) (models.AuditLog, error) {
	return models.AuditLog{
		Id:         db.Id,
		CampaignId: db.CampaignId,
		EventType:  models.AuditEventType(db.EventType),
		Message:    db.Message,
		Metadata:   db.Metadata,
		CreatedAt:  db.CreatedAt,
	}, nil
}
