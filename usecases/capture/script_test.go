package capture

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives the transformed page in a real headless browser: the injected script must
// swallow any fetch or XHR that is not aimed at the submit path, and a form submit
// must post the fixed-shape boolean event before redirecting to the learning page.
func TestStrippingScriptInBrowser(t *testing.T) {
	var exfilHits, submitHits atomic.Int64
	var submitBody []byte

	exfilCatcher := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exfilHits.Add(1)
	}))
	defer exfilCatcher.Close()

	mux := http.NewServeMux()
	decoy := httptest.NewServer(mux)
	defer decoy.Close()

	transformed, err := TransformHtml([]byte(sampleSnapshot), decoy.URL+"/learn")
	require.NoError(t, err)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(transformed)
	})
	mux.HandleFunc("POST "+SubmitPath, func(w http.ResponseWriter, r *http.Request) {
		submitHits.Add(1)
		submitBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /learn", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>learning moment</body></html>"))
	})

	controlUrl, err := launcher.New().Headless(true).Launch()
	if err != nil {
		t.Skipf("headless browser unavailable: %v", err)
	}
	browser := rod.New().ControlURL(controlUrl)
	require.NoError(t, browser.Connect())
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: decoy.URL + "/?token=tok-1"})
	require.NoError(t, err)
	require.NoError(t, page.WaitLoad())

	t.Run("off-path fetch is swallowed", func(t *testing.T) {
		res, err := page.Eval(fmt.Sprintf(
			`() => fetch(%q, { method: "POST", body: "secret" }).then(r => r.status)`,
			exfilCatcher.URL))
		require.NoError(t, err)
		assert.Equal(t, 204, res.Value.Int())
		assert.Equal(t, int64(0), exfilHits.Load())
	})

	t.Run("off-path XHR is swallowed", func(t *testing.T) {
		_, err := page.Eval(fmt.Sprintf(
			`() => { var x = new XMLHttpRequest(); x.open("GET", %q); x.send(); return true; }`,
			exfilCatcher.URL))
		require.NoError(t, err)
		assert.Equal(t, int64(0), exfilHits.Load())
	})

	t.Run("submit posts the boolean event and redirects to learning", func(t *testing.T) {
		wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
		_, err := page.Eval(`() => {
			document.querySelector("input[name=password]").value = "hunter2";
			document.querySelector("form").requestSubmit();
		}`)
		require.NoError(t, err)
		wait()

		info, err := page.Info()
		require.NoError(t, err)
		assert.Contains(t, info.URL, "/learn?token=tok-1")

		assert.Equal(t, int64(1), submitHits.Load())
		var event struct {
			Token     string          `json:"token"`
			Submitted json.RawMessage `json:"submitted"`
		}
		require.NoError(t, json.Unmarshal(submitBody, &event))
		assert.Equal(t, "tok-1", event.Token)
		assert.Equal(t, "true", string(event.Submitted))
		// Nothing typed into the page ever reached the wire.
		assert.NotContains(t, string(submitBody), "hunter2")
		assert.Equal(t, int64(0), exfilHits.Load())
	})
}
