package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hookwise/hookwise-backend/dto"
	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/usecases"
)

func handleClickEvent(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		redirect, err := uc.NewInteractionUsecase().HandleClick(ctx,
			c.Query("token"), c.Request.UserAgent())
		if presentError(ctx, c, err) {
			return
		}
		c.Redirect(http.StatusFound, redirect)
	}
}

// handleSubmitEvent accepts only the fixed shape {token, submitted: true}. The
// submitted field is validated against the raw JSON literal so that truthy strings
// or numbers are rejected before anything touches the state machine.
func handleSubmitEvent(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.SubmitEventBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": models.InvalidEventError.Error()})
			return
		}
		if err := body.Validate(); presentError(ctx, c, err) {
			return
		}

		interaction, err := uc.NewInteractionUsecase().HandleSubmit(ctx, body.Token)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": string(interaction.Status)})
	}
}

func handleLearningPage(uc usecases.Usecases, conf Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := uc.NewInteractionUsecase().HandleLearningView(ctx, c.Query("token")); presentError(ctx, c, err) {
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(learningPage(conf)))
	}
}

func handleReportEvent(uc usecases.Usecases) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.ReportEventBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": models.InvalidEventError.Error()})
			return
		}

		if err := uc.NewInteractionUsecase().HandleReport(ctx, body.Token); presentError(ctx, c, err) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func learningPage(conf Configuration) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Security awareness moment</title></head>
<body>
<h1>This was a phishing simulation</h1>
<p>The page you just interacted with was a training exercise run by your security
team. No credentials were stored: everything you typed was discarded before it left
your browser.</p>
<p>If something similar happens for real, report it instead of clicking. You can
practice right now: <a href="%s/t/report">report this message</a>.</p>
</body>
</html>`, conf.ApiBaseUrl)
}
