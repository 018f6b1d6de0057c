package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type DbInteraction struct {
	Id               uuid.UUID   `db:"id"`
	CampaignId       uuid.UUID   `db:"campaign_id"`
	EmployeeId       uuid.UUID   `db:"employee_id"`
	TrackingToken    string      `db:"tracking_token"`
	Status           string      `db:"status"`
	DeliveredAt      null.Time   `db:"delivered_at"`
	ClickedAt        null.Time   `db:"clicked_at"`
	ClickUserAgent   null.String `db:"click_user_agent"`
	Submitted        bool        `db:"submitted"`
	SubmittedAt      null.Time   `db:"submitted_at"`
	LearningViewedAt null.Time   `db:"learning_viewed_at"`
	ReportedAt       null.Time   `db:"reported_at"`

	CallId               null.String     `db:"call_id"`
	VoiceOutcome         null.String     `db:"voice_outcome"`
	CallTranscript       null.String     `db:"call_transcript"`
	CallRecordingUrl     null.String     `db:"call_recording_url"`
	CallDurationSeconds  null.Int        `db:"call_duration_seconds"`
	CallAnalytics        json.RawMessage `db:"call_analytics"`
	AnalyticsProcessedAt null.Time       `db:"analytics_processed_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const TABLE_INTERACTIONS = "interactions"

var SelectInteractionColumns = utils.ColumnList[DbInteraction]()

func AdaptInteraction(db DbInteraction) (models.Interaction, error) {
	interaction := models.Interaction{
		Id:               db.Id,
		CampaignId:       db.CampaignId,
		EmployeeId:       db.EmployeeId,
		TrackingToken:    db.TrackingToken,
		Status:           models.InteractionStatus(db.Status),
		DeliveredAt:      db.DeliveredAt,
		ClickedAt:        db.ClickedAt,
		ClickUserAgent:   db.ClickUserAgent,
		Submitted:        db.Submitted,
		SubmittedAt:      db.SubmittedAt,
		LearningViewedAt: db.LearningViewedAt,
		ReportedAt:       db.ReportedAt,

		CallId:               db.CallId,
		CallTranscript:       db.CallTranscript,
		CallRecordingUrl:     db.CallRecordingUrl,
		CallDurationSeconds:  db.CallDurationSeconds,
		CallAnalytics:        db.CallAnalytics,
		AnalyticsProcessedAt: db.AnalyticsProcessedAt,

		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}
	if db.VoiceOutcome.Valid {
		outcome := models.VoiceOutcome(db.VoiceOutcome.String)
		interaction.VoiceOutcome = &outcome
	}
	return interaction, nil
}
