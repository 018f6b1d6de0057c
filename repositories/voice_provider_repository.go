package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hookwise/hookwise-backend/dto"
	"github.com/hookwise/hookwise-backend/models"
)

type VoiceProviderConfiguration struct {
	ApiUrl     string
	ApiKey     string
	FromNumber string
	WebhookUrl string
}

// VoiceProviderRepository is the client for the outbound AI calling provider: it
// places simulated vishing calls and fetches finished call artifacts, including the
// provider's structured analysis outputs.
type VoiceProviderRepository struct {
	config     VoiceProviderConfiguration
	httpClient *http.Client
}

func NewVoiceProviderRepository(config VoiceProviderConfiguration) VoiceProviderRepository {
	return VoiceProviderRepository{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type placeCallRequest struct {
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
	Script     string `json:"script"`
	WebhookUrl string `json:"webhook_url"`
}

type placeCallResponse struct {
	CallId string `json:"call_id"`
}

func (repo VoiceProviderRepository) do(ctx context.Context, method, path string,
	body []byte, out any,
) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, repo.config.ApiUrl+path, reader)
	if err != nil {
		return errors.Wrap(err, "can't build voice provider request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+repo.config.ApiKey)

	resp, err := repo.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "voice provider request error")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Newf("voice provider returned status %d on %s", resp.StatusCode, path)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out),
		"can't decode voice provider response")
}

// PlaceCall starts one outbound call and returns the provider call id.
func (repo VoiceProviderRepository) PlaceCall(ctx context.Context, call models.OutboundCall) (string, error) {
	payload, err := json.Marshal(placeCallRequest{
		FromNumber: repo.config.FromNumber,
		ToNumber:   call.ToPhone,
		Script:     call.Script,
		WebhookUrl: repo.config.WebhookUrl,
	})
	if err != nil {
		return "", errors.Wrap(err, "can't marshal place call request")
	}

	var response placeCallResponse
	if err := repo.do(ctx, http.MethodPost, "/v1/calls", payload, &response); err != nil {
		return "", err
	}
	if response.CallId == "" {
		return "", errors.New("voice provider returned an empty call id")
	}
	return response.CallId, nil
}

// GetCallArtifact fetches the record of a call. Completed is false while the call is
// still in progress on the provider side.
func (repo VoiceProviderRepository) GetCallArtifact(ctx context.Context, callId string) (models.CallArtifact, error) {
	var data dto.VoiceWebhookCallData
	if err := repo.do(ctx, http.MethodGet, "/v1/calls/"+callId, nil, &data); err != nil {
		return models.CallArtifact{}, err
	}
	return AdaptCallArtifact(data), nil
}

func AdaptCallArtifact(data dto.VoiceWebhookCallData) models.CallArtifact {
	return models.CallArtifact{
		CallId:          data.CallId,
		Completed:       data.Completed,
		Answered:        data.Answered,
		Transcript:      data.Transcript,
		RecordingUrl:    data.RecordingUrl,
		DurationSeconds: data.DurationSeconds,
		RawAnalysis:     data.Analysis,
	}
}
