package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleSnapshot = `<!DOCTYPE html>
<html>
<head>
<script src="https://cdn.example.com/analytics.js"></script>
<script>var inlineConfig = 1;</script>
</head>
<body>
<form action="https://login.example.com/session" method="get" onsubmit="return doLogin()">
<input type="text" name="username">
<input type="password" name="password">
</form>
<a href="https://example.com/help" target="_blank">Help</a>
<a href="/local/page">Local</a>
</body>
</html>`

func TestTransformHtml(t *testing.T) {
	out, err := TransformHtml([]byte(sampleSnapshot), "https://hookwise.test/t/learn")
	assert.NoError(t, err)
	rendered := string(out)

	t.Run("forms post to the local submit path", func(t *testing.T) {
		assert.Contains(t, rendered, `action="/submit"`)
		assert.Contains(t, rendered, `method="POST"`)
		assert.NotContains(t, rendered, "login.example.com")
		assert.NotContains(t, rendered, "doLogin")
	})

	t.Run("external links are neutralized", func(t *testing.T) {
		assert.NotContains(t, rendered, "https://example.com/help")
		assert.Contains(t, rendered, `onclick="return false"`)
		assert.Contains(t, rendered, `href="/local/page"`)
	})

	t.Run("externally sourced scripts are removed, inline ones kept", func(t *testing.T) {
		assert.NotContains(t, rendered, "cdn.example.com")
		assert.Contains(t, rendered, "inlineConfig")
	})

	t.Run("stripping script is injected with the learning url", func(t *testing.T) {
		assert.Contains(t, rendered, "https://hookwise.test/t/learn")
		assert.Contains(t, rendered, "clearSensitiveFields")
	})
}

func TestTransformHtmlRejectsGarbage(t *testing.T) {
	// html.Parse is lenient, so even fragments parse. Transform must still
	// inject the script when no body element exists.
	out, err := TransformHtml([]byte("just text"), "https://hookwise.test/t/learn")
	assert.NoError(t, err)
	assert.Contains(t, string(out), "clearSensitiveFields")
}
