package decoy

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hookwise/hookwise-backend/utils"
)

type serverParams struct {
	snapshotPath string
	coreBaseUrl  string
	learningUrl  string
}

// newDecoyServer builds the http server for one deployment. It serves the
// transformed snapshot at the root and relays boolean submit events to the
// core tracking endpoint. The relay is best-effort: whatever the core answers,
// the visitor gets the learning page redirect target back.
func newDecoyServer(params serverParams) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	forwarder := &http.Client{Timeout: 10 * time.Second}

	router.GET("/", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.File(params.snapshotPath)
	})

	router.POST("/submit", func(c *gin.Context) {
		logger := utils.LoggerFromContext(c.Request.Context())

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 4096))
		if err == nil {
			resp, forwardErr := forwarder.Post(
				params.coreBaseUrl+"/t/submit",
				"application/json",
				bytes.NewReader(body))
			if forwardErr != nil {
				logger.WarnContext(c.Request.Context(), "error forwarding submit event",
					"error", forwardErr.Error())
			} else {
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			}
		}

		c.JSON(http.StatusOK, gin.H{"redirect": params.learningUrl})
	})

	return &http.Server{Handler: router}
}
