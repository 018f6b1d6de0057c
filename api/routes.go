package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hookwise/hookwise-backend/usecases"
)

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe)

	// Token scoped tracking endpoints, hit by targets from emails and the decoy.
	r.GET("/t/click", handleClickEvent(uc))
	r.POST("/t/submit", handleSubmitEvent(uc))
	r.GET("/t/learn", handleLearningPage(uc, conf))
	r.POST("/t/report", handleReportEvent(uc))

	r.POST("/webhooks/voice", handleVoiceWebhook(uc))

	r.GET("/campaigns/:campaign_id", handleGetCampaign(uc))
	r.GET("/campaigns/:campaign_id/interactions", handleListCampaignInteractions(uc))
	r.GET("/campaigns/:campaign_id/audit-logs", handleListCampaignAuditLogs(uc))
	r.POST("/campaigns/:campaign_id/launch", handleLaunchCampaign(uc))
	r.POST("/campaigns/:campaign_id/close", handleCloseCampaign(uc))
	r.POST("/campaigns/:campaign_id/reconcile", handleReconcileCampaignCalls(uc))
}

func handleLivenessProbe(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
