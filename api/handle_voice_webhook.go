package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hookwise/hookwise-backend/dto"
	"github.com/hookwise/hookwise-backend/repositories"
	"github.com/hookwise/hookwise-backend/usecases"
	"github.com/hookwise/hookwise-backend/utils"
)

// handleVoiceWebhook ingests provider events. Only call.ended carries a report and
// is processed; every other event type is acknowledged and discarded so the provider
// stops retrying.
func handleVoiceWebhook(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var event dto.VoiceWebhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "malformed event envelope"})
			return
		}

		if event.Type != dto.VoiceEventCallEnded {
			utils.LoggerFromContext(ctx).DebugContext(ctx, "ignoring voice event",
				"type", event.Type)
			c.Status(http.StatusNoContent)
			return
		}

		artifact := repositories.AdaptCallArtifact(event.Call)
		if err := uc.NewReconcilerUsecase().ProcessCallEnded(ctx, artifact); presentError(ctx, c, err) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}
