package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hookwise/hookwise-backend/models"
	"github.com/hookwise/hookwise-backend/utils"
)

type Configuration struct {
	SnapshotDir    string
	CaptureTimeout time.Duration
}

// Capturer snapshots a live page into a self contained HTML artifact on disk.
// The primary strategy renders the page in headless Chrome so that client side
// rendered login pages come out fully materialized; if that fails, a plain HTTP
// fetch of the raw document is attempted once before giving up.
type Capturer struct {
	config Configuration
}

func NewCapturer(config Configuration) Capturer {
	if config.CaptureTimeout == 0 {
		config.CaptureTimeout = 30 * time.Second
	}
	return Capturer{config: config}
}

func (c Capturer) SnapshotPath(snapshotId string) string {
	return filepath.Join(c.config.SnapshotDir, fmt.Sprintf("%s.html", snapshotId))
}

// CaptureUrl writes the snapshot artifact and returns its path.
func (c Capturer) CaptureUrl(ctx context.Context, targetUrl, snapshotId string) (string, error) {
	logger := utils.LoggerFromContext(ctx)

	if err := os.MkdirAll(c.config.SnapshotDir, 0o755); err != nil {
		return "", errors.Wrap(models.CaptureError, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.CaptureTimeout)
	defer cancel()

	html, err := c.renderWithBrowser(ctx, targetUrl)
	if err != nil {
		logger.WarnContext(ctx, "browser capture failed, falling back to raw fetch",
			"url", targetUrl, "error", err.Error())
		html, err = c.fetchRaw(ctx, targetUrl)
		if err != nil {
			return "", errors.Wrapf(models.CaptureError, "capturing %s: %v", targetUrl, err)
		}
	}

	path := c.SnapshotPath(snapshotId)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", errors.Wrap(models.CaptureError, err.Error())
	}
	return path, nil
}

func (c Capturer) renderWithBrowser(ctx context.Context, targetUrl string) (_ string, err error) {
	// rod panics on protocol errors, keep them contained to this function.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("browser capture panic: %v", r)
		}
	}()

	controlUrl, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return "", errors.Wrap(err, "can't launch headless browser")
	}

	browser := rod.New().ControlURL(controlUrl).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", errors.Wrap(err, "can't connect to headless browser")
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: targetUrl})
	if err != nil {
		return "", errors.Wrap(err, "can't open page")
	}
	if err := page.WaitLoad(); err != nil {
		return "", errors.Wrap(err, "page did not finish loading")
	}

	html, err := page.HTML()
	if err != nil {
		return "", errors.Wrap(err, "can't serialize page")
	}
	return html, nil
}

func (c Capturer) fetchRaw(ctx context.Context, targetUrl string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetUrl, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", errors.Newf("unexpected status %d fetching %s", resp.StatusCode, targetUrl)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
