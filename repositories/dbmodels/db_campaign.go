package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type DbCampaign struct {
	Id                uuid.UUID   `db:"id"`
	Name              string      `db:"name"`
	Status            string      `db:"status"`
	TargetUrl         string      `db:"target_url"`
	Channel           string      `db:"channel"`
	SnapshotPath      null.String `db:"snapshot_path"`
	TunnelUrl         null.String `db:"tunnel_url"`
	EmailSubject      string      `db:"email_subject"`
	EmailBody         string      `db:"email_body"`
	VoiceScript       string      `db:"voice_script"`
	VoiceDelayMinutes int         `db:"voice_delay_minutes"`
	ClosesAt          null.Time   `db:"closes_at"`
	CreatedAt         time.Time   `db:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at"`
}

const TABLE_CAMPAIGNS = "campaigns"

var SelectCampaignColumns = utils.ColumnList[DbCampaign]()

func AdaptCampaign(db DbCampaign) (models.Campaign, error) {
	return models.Campaign{
		Id:                db.Id,
		Name:              db.Name,
		Status:            models.CampaignStatus(db.Status),
		TargetUrl:         db.TargetUrl,
		Channel:           models.CampaignChannel(db.Channel),
		SnapshotPath:      db.SnapshotPath,
		TunnelUrl:         db.TunnelUrl,
		EmailSubject:      db.EmailSubject,
		EmailBody:         db.EmailBody,
		VoiceScript:       db.VoiceScript,
		VoiceDelayMinutes: db.VoiceDelayMinutes,
		ClosesAt:          db.ClosesAt,
		CreatedAt:         db.CreatedAt,
		UpdatedAt:         db.UpdatedAt,
	}, nil
}
