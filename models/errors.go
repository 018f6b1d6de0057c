package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// DB related errors
var ErrIgnoreRollBackError = errors.New("ignore rollback error")

// Pipeline errors
var (
	// CaptureError aborts a launch and rolls the campaign back to draft.
	CaptureError = errors.New("page capture failed")

	// TunnelError is a public exposure failure after a successful capture, same rollback.
	TunnelError = errors.New("tunnel exposure failed")

	// DeliveryError is a per-target send or call failure. It is logged and isolated,
	// it never aborts the rest of the batch.
	DeliveryError = errors.New("delivery failed")

	// InvalidEventError is a malformed token or boolean payload, rejected at the
	// boundary with zero state mutation.
	InvalidEventError = errors.Wrap(BadParameterError, "invalid tracking event")

	// ReconciliationError is a per-call failure during webhook or sweep processing,
	// isolated and eligible for retry on the next sweep pass.
	ReconciliationError = errors.New("call reconciliation failed")
)

// Campaign lifecycle errors
var (
	ErrCampaignNotLaunchable = errors.Wrap(BadParameterError, "campaign is not in a launchable status")
	ErrCampaignNotActive     = errors.Wrap(BadParameterError, "campaign is not active")
	ErrCampaignHasNoTargets  = errors.Wrap(BadParameterError, "campaign has no targets")
)
