package models

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Named analysis categories returned by the voice provider as "structured outputs".
// The set is closed on purpose: an unknown or malformed category fails fast at
// ingestion instead of propagating silently into reporting.
const (
	CategoryPhishingSusceptibility = "Phishing Susceptibility Analysis"
	CategorySecurityCoaching       = "Security Awareness Coaching"
	CategoryCallDisposition        = "Call Disposition"
)

type PhishingSusceptibilityAnalysis struct {
	FellForPhish         bool     `json:"fell_for_phish"`
	RedFlagsMissed       []string `json:"red_flags_missed"`
	InformationDisclosed []string `json:"information_disclosed"`
}

type SecurityCoaching struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

type CallDisposition struct {
	Answered    bool   `json:"answered"`
	EndedReason string `json:"ended_reason"`
}

// CallAnalysis is the validated, closed union of the provider's category mapping.
// Susceptibility is the only category the outcome derivation depends on.
type CallAnalysis struct {
	Susceptibility *PhishingSusceptibilityAnalysis
	Coaching       *SecurityCoaching
	Disposition    *CallDisposition
}

// CallArtifact is the provider-side record of a finished call.
type CallArtifact struct {
	CallId          string
	Completed       bool
	Answered        bool
	Transcript      string
	RecordingUrl    string
	DurationSeconds int
	RawAnalysis     map[string]json.RawMessage
}

// MarshalCallAnalysisPayload serializes the provider's full category mapping for
// storage alongside the derived outcome.
func MarshalCallAnalysisPayload(raw map[string]json.RawMessage) (json.RawMessage, error) {
	payload, err := json.Marshal(raw)
	return payload, errors.Wrap(err, "can't marshal call analysis payload")
}

func decodeStrict(raw json.RawMessage, out any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// AdaptCallAnalysis validates the free-form category mapping into the closed union.
func AdaptCallAnalysis(raw map[string]json.RawMessage) (CallAnalysis, error) {
	var analysis CallAnalysis
	for category, payload := range raw {
		switch category {
		case CategoryPhishingSusceptibility:
			var susceptibility PhishingSusceptibilityAnalysis
			if err := decodeStrict(payload, &susceptibility); err != nil {
				return CallAnalysis{}, errors.Wrapf(ReconciliationError,
					"malformed %q payload: %v", category, err)
			}
			analysis.Susceptibility = &susceptibility
		case CategorySecurityCoaching:
			var coaching SecurityCoaching
			if err := decodeStrict(payload, &coaching); err != nil {
				return CallAnalysis{}, errors.Wrapf(ReconciliationError,
					"malformed %q payload: %v", category, err)
			}
			analysis.Coaching = &coaching
		case CategoryCallDisposition:
			var disposition CallDisposition
			if err := decodeStrict(payload, &disposition); err != nil {
				return CallAnalysis{}, errors.Wrapf(ReconciliationError,
					"malformed %q payload: %v", category, err)
			}
			analysis.Disposition = &disposition
		default:
			return CallAnalysis{}, errors.Wrapf(ReconciliationError,
				"unknown analysis category %q", category)
		}
	}
	return analysis, nil
}

// Outcome derives the coarse voice outcome for an artifact. The susceptibility
// category is required for answered, completed calls.
func (a CallAnalysis) Outcome(artifact CallArtifact) (VoiceOutcome, error) {
	if !artifact.Answered {
		return VoiceOutcomeNoAnswer, nil
	}
	if a.Susceptibility == nil {
		return "", errors.Wrap(ReconciliationError,
			"call artifact has no phishing susceptibility analysis")
	}
	if a.Susceptibility.FellForPhish {
		return VoiceOutcomeFailed, nil
	}
	return VoiceOutcomePassed, nil
}
