package repositories

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"

	"github.com/hookwise/hookwise-backend/dto"
	"github.com/hookwise/hookwise-backend/models"
)

func newTestVoiceProviderRepository() VoiceProviderRepository {
	repo := NewVoiceProviderRepository(VoiceProviderConfiguration{
		ApiUrl:     "https://voice.example.com",
		ApiKey:     "test-key",
		FromNumber: "+15550100",
		WebhookUrl: "https://api.hookwise.example/webhooks/voice",
	})
	gock.InterceptClient(repo.httpClient)
	return repo
}

func TestPlaceCall(t *testing.T) {
	defer gock.Off()
	repo := newTestVoiceProviderRepository()

	gock.New("https://voice.example.com").
		Post("/v1/calls").
		MatchHeader("Authorization", "Bearer test-key").
		JSON(map[string]string{
			"from_number": "+15550100",
			"to_number":   "+15550123",
			"script":      "Hello, this is the IT helpdesk.",
			"webhook_url": "https://api.hookwise.example/webhooks/voice",
		}).
		Reply(http.StatusCreated).
		JSON(map[string]string{"call_id": "call_42"})

	callId, err := repo.PlaceCall(t.Context(), models.OutboundCall{
		ToPhone: "+15550123",
		Script:  "Hello, this is the IT helpdesk.",
	})

	assert.NoError(t, err)
	assert.Equal(t, "call_42", callId)
	assert.True(t, gock.IsDone())
}

func TestPlaceCallRejectsEmptyCallId(t *testing.T) {
	defer gock.Off()
	repo := newTestVoiceProviderRepository()

	gock.New("https://voice.example.com").
		Post("/v1/calls").
		Reply(http.StatusOK).
		JSON(map[string]string{})

	_, err := repo.PlaceCall(t.Context(), models.OutboundCall{ToPhone: "+15550123"})

	assert.ErrorContains(t, err, "empty call id")
}

func TestGetCallArtifact(t *testing.T) {
	defer gock.Off()
	repo := newTestVoiceProviderRepository()

	gock.New("https://voice.example.com").
		Get("/v1/calls/call_42").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"call_id":          "call_42",
			"completed":        true,
			"answered":         true,
			"transcript":       "Agent: hello. Target: hello.",
			"recording_url":    "https://voice.example.com/recordings/call_42",
			"duration_seconds": 95,
			"analysis": map[string]any{
				"Call Disposition": map[string]any{"call_answered": true},
			},
		})

	artifact, err := repo.GetCallArtifact(t.Context(), "call_42")

	assert.NoError(t, err)
	assert.True(t, artifact.Completed)
	assert.True(t, artifact.Answered)
	assert.Equal(t, "call_42", artifact.CallId)
	assert.Equal(t, 95, artifact.DurationSeconds)
	assert.JSONEq(t, `{"call_answered": true}`,
		string(artifact.RawAnalysis[models.CategoryCallDisposition]))
}

func TestGetCallArtifactProviderError(t *testing.T) {
	defer gock.Off()
	repo := newTestVoiceProviderRepository()

	gock.New("https://voice.example.com").
		Get("/v1/calls/call_42").
		Reply(http.StatusNotFound).
		JSON(map[string]string{"error": "unknown call"})

	_, err := repo.GetCallArtifact(t.Context(), "call_42")

	assert.ErrorContains(t, err, "status 404")
}

func TestAdaptCallArtifactKeepsRawAnalysis(t *testing.T) {
	raw := map[string]json.RawMessage{
		models.CategoryCallDisposition: json.RawMessage(`{"call_answered": false}`),
	}
	artifact := AdaptCallArtifact(dto.VoiceWebhookCallData{
		CallId:    "call_7",
		Completed: true,
		Analysis:  raw,
	})

	assert.Equal(t, "call_7", artifact.CallId)
	assert.Equal(t, raw, artifact.RawAnalysis)
}
