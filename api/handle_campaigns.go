package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hookwise/hookwise-backend/dto"
	"github.com/hookwise/hookwise-backend/pure_utils"
	"github.com/hookwise/hookwise-backend/usecases"
)

func campaignIdFromPath(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("campaign_id"))
}

func handleGetCampaign(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		campaignId, err := campaignIdFromPath(c)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		campaign, err := uc.NewCampaignUsecase().GetCampaign(ctx, campaignId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptCampaign(campaign))
	}
}

func handleListCampaignInteractions(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		campaignId, err := campaignIdFromPath(c)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		interactions, err := uc.NewCampaignUsecase().ListCampaignInteractions(ctx, campaignId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, pure_utils.Map(interactions, dto.AdaptInteraction))
	}
}

func handleListCampaignAuditLogs(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		campaignId, err := campaignIdFromPath(c)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
		if err != nil || limit < 1 {
			c.Status(http.StatusBadRequest)
			return
		}

		logs, err := uc.NewCampaignUsecase().ListCampaignAuditLogs(ctx, campaignId, limit)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, pure_utils.Map(logs, dto.AdaptAuditLog))
	}
}

// handleLaunchCampaign runs the delivery pipeline in-band: the response comes back
// once email dispatch finished (or the launch rolled back).
func handleLaunchCampaign(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		campaignId, err := campaignIdFromPath(c)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		var body dto.LaunchCampaignBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		employeeIds, err := pure_utils.MapErr(body.EmployeeIds, uuid.Parse)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		if err := uc.NewDeliveryUsecase().LaunchCampaign(ctx, campaignId, employeeIds); presentError(ctx, c, err) {
			return
		}

		campaign, err := uc.NewCampaignUsecase().GetCampaign(ctx, campaignId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptCampaign(campaign))
	}
}

func handleCloseCampaign(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		campaignId, err := campaignIdFromPath(c)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		if err := uc.NewCampaignUsecase().CloseCampaign(ctx, campaignId); presentError(ctx, c, err) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleReconcileCampaignCalls triggers one reconciliation sweep on demand, without
// waiting for the next periodic pass.
func handleReconcileCampaignCalls(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if _, err := campaignIdFromPath(c); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		if err := uc.NewReconcilerUsecase().SweepPendingCalls(ctx); presentError(ctx, c, err) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}
