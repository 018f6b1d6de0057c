package dto

import (
	"time"

	"github.com/hookwise/hookwise-backend/models"
)

type Campaign struct {
	Id        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	TargetUrl string     `json:"target_url"`
	Channel   string     `json:"channel"`
	TunnelUrl *string    `json:"tunnel_url,omitempty"`
	ClosesAt  *time.Time `json:"closes_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type LaunchCampaignBody struct {
	EmployeeIds []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
}

func AdaptCampaign(campaign models.Campaign) Campaign {
	out := Campaign{
		Id:        campaign.Id.String(),
		Name:      campaign.Name,
		Status:    string(campaign.Status),
		TargetUrl: campaign.TargetUrl,
		Channel:   string(campaign.Channel),
		CreatedAt: campaign.CreatedAt,
	}
	if campaign.TunnelUrl.Valid {
		out.TunnelUrl = &campaign.TunnelUrl.String
	}
	if campaign.ClosesAt.Valid {
		out.ClosesAt = &campaign.ClosesAt.Time
	}
	return out
}
