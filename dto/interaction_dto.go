package dto

import (
	"time"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/pure_utils"
)

type Interaction struct {
	Id           string     `json:"id"`
	CampaignId   string     `json:"campaign_id"`
	EmployeeId   string     `json:"employee_id"`
	Status       string     `json:"status"`
	FellForPhish bool       `json:"fell_for_phish"`
	ClickedAt    *time.Time `json:"clicked_at,omitempty"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	ReportedAt   *time.Time `json:"reported_at,omitempty"`
	VoiceOutcome *string    `json:"voice_outcome,omitempty"`
}

func AdaptInteraction(interaction models.Interaction) Interaction {
	out := Interaction{
		Id:           interaction.Id.String(),
		CampaignId:   interaction.CampaignId.String(),
		EmployeeId:   interaction.EmployeeId.String(),
		Status:       string(interaction.Status),
		FellForPhish: interaction.FellForPhish(),
	}
	if interaction.ClickedAt.Valid {
		out.ClickedAt = &interaction.ClickedAt.Time
	}
	if interaction.SubmittedAt.Valid {
		out.SubmittedAt = &interaction.SubmittedAt.Time
	}
	if interaction.ReportedAt.Valid {
		out.ReportedAt = &interaction.ReportedAt.Time
	}
	if interaction.VoiceOutcome != nil {
		out.VoiceOutcome = pure_utils.Ptr(string(*interaction.VoiceOutcome))
	}
	return out
}
