package dto

import "encoding/json"

// Voice provider event envelope. Only "call.ended" events carry a report and are
// processed; every other type is acknowledged and discarded.
const VoiceEventCallEnded = "call.ended"

type VoiceWebhookEvent struct {
	Type string               `json:"type" binding:"required"`
	Call VoiceWebhookCallData `json:"call"`
}

type VoiceWebhookCallData struct {
	CallId          string                     `json:"call_id"`
	Completed       bool                       `json:"completed"`
	Answered        bool                       `json:"answered"`
	Transcript      string                     `json:"transcript"`
	RecordingUrl    string                     `json:"recording_url"`
	DurationSeconds int                        `json:"duration_seconds"`
	Analysis        map[string]json.RawMessage `json:"analysis"`
}
