package dto

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/hookwise/hookwise-backend/models"
)

// SubmitEventBody is the boolean capture payload. Submitted is decoded as raw JSON
// so that only the literal boolean true is accepted: "true", 1 or a missing field
// must be rejected with no state mutation.
type SubmitEventBody struct {
	Token     string          `json:"token"`
	Submitted json.RawMessage `json:"submitted"`
}

func (b SubmitEventBody) Validate() error {
	if b.Token == "" {
		return errors.Wrap(models.InvalidEventError, "missing token")
	}
	if string(b.Submitted) != "true" {
		return errors.Wrap(models.InvalidEventError, "submitted must be the boolean true")
	}
	return nil
}

type ReportEventBody struct {
	Token string `json:"token" binding:"required"`
}
