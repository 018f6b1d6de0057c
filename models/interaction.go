package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// InteractionStatus is the canonical per-target funnel state. Transitions are
// forward-only: an event targeting a state at or below the current one is a no-op.
type InteractionStatus string

const (
	InteractionStatusPending              InteractionStatus = "pending"
	InteractionStatusDelivered            InteractionStatus = "delivered"
	InteractionStatusLinkClicked          InteractionStatus = "link_clicked"
	InteractionStatusCredentialsSubmitted InteractionStatus = "credentials_submitted"
	InteractionStatusLearningViewed       InteractionStatus = "learning_viewed"
	InteractionStatusReported             InteractionStatus = "reported"
	InteractionStatusNoInteraction        InteractionStatus = "no_interaction"
)

// Source states from which each token scoped event is accepted. Used both for the
// in-memory guard and for the conditional UPDATE's status filter, so duplicate or
// out-of-order events converge to a no-op instead of regressing state.
var (
	ClickEligibleStatuses = []InteractionStatus{
		InteractionStatusPending,
		InteractionStatusDelivered,
	}
	SubmitEligibleStatuses = []InteractionStatus{
		InteractionStatusPending,
		InteractionStatusDelivered,
		InteractionStatusLinkClicked,
	}
	LearningViewEligibleStatuses = []InteractionStatus{
		InteractionStatusPending,
		InteractionStatusDelivered,
		InteractionStatusLinkClicked,
		InteractionStatusCredentialsSubmitted,
	}
	ReportEligibleStatuses = []InteractionStatus{
		InteractionStatusPending,
		InteractionStatusDelivered,
		InteractionStatusLinkClicked,
		InteractionStatusCredentialsSubmitted,
		InteractionStatusLearningViewed,
	}
	// Campaign close sweeps every interaction that never engaged.
	CloseSweepStatuses = []InteractionStatus{
		InteractionStatusPending,
		InteractionStatusDelivered,
	}
)

func (s InteractionStatus) Terminal() bool {
	return s == InteractionStatusReported || s == InteractionStatusNoInteraction
}

type VoiceOutcome string

const (
	VoiceOutcomeNoAnswer VoiceOutcome = "no_answer"
	VoiceOutcomePassed   VoiceOutcome = "passed"
	VoiceOutcomeFailed   VoiceOutcome = "failed"
)

// Interaction is the join entity between a campaign and one employee, keyed for all
// external events by its unguessable tracking token, never by the employee identity.
// It carries no credential values: submission is a boolean and a timestamp.
type Interaction struct {
	Id               uuid.UUID
	CampaignId       uuid.UUID
	EmployeeId       uuid.UUID
	TrackingToken    string
	Status           InteractionStatus
	DeliveredAt      null.Time
	ClickedAt        null.Time
	ClickUserAgent   null.String
	Submitted        bool
	SubmittedAt      null.Time
	LearningViewedAt null.Time
	ReportedAt       null.Time

	// Voice channel fields, populated by the call analytics reconciler only.
	CallId               null.String
	VoiceOutcome         *VoiceOutcome
	CallTranscript       null.String
	CallRecordingUrl     null.String
	CallDurationSeconds  null.Int
	CallAnalytics        json.RawMessage
	AnalyticsProcessedAt null.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FellForPhish is the single canonical "fell for it" derivation consumed by all
// reporting: a credential submission on the email funnel, or a failed voice outcome.
// A learning page view alone does not count as a failure.
func (i Interaction) FellForPhish() bool {
	if i.Status == InteractionStatusCredentialsSubmitted || i.Submitted {
		return true
	}
	return i.VoiceOutcome != nil && *i.VoiceOutcome == VoiceOutcomeFailed
}

// AnalyticsProcessed is the idempotency guard shared by the webhook and polling
// ingestion paths: once set, reprocessing the same call is a safe no-op.
func (i Interaction) AnalyticsProcessed() bool {
	return i.AnalyticsProcessedAt.Valid
}

type InteractionCreate struct {
	CampaignId    uuid.UUID
	EmployeeId    uuid.UUID
	TrackingToken string
}

// CallAnalyticsUpdate is the single write the reconciler performs on an interaction.
type CallAnalyticsUpdate struct {
	InteractionId   uuid.UUID
	VoiceOutcome    VoiceOutcome
	Transcript      string
	RecordingUrl    string
	DurationSeconds int
	Analytics       json.RawMessage
}
