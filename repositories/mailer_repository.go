package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"

	"github.com/hookwise/hookwise-backend/models"
)

type MailerConfiguration struct {
	ApiUrl    string
	ApiKey    string
	FromEmail string
	FromName  string
}

// MailerRepository is the outbound transactional email client. Simulation emails and
// outcome notifications both go through it.
type MailerRepository struct {
	config     MailerConfiguration
	httpClient *http.Client
}

func NewMailerRepository(config MailerConfiguration) MailerRepository {
	return MailerRepository{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendEmailRequest struct {
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
	ToEmail   string `json:"to_email"`
	ToName    string `json:"to_name"`
	Subject   string `json:"subject"`
	HtmlBody  string `json:"html_body"`
}

func (repo MailerRepository) SendEmail(ctx context.Context, email models.OutboundEmail) error {
	payload, err := json.Marshal(sendEmailRequest{
		FromEmail: repo.config.FromEmail,
		FromName:  repo.config.FromName,
		ToEmail:   email.ToEmail,
		ToName:    email.ToName,
		Subject:   email.Subject,
		HtmlBody:  email.HtmlBody,
	})
	if err != nil {
		return errors.Wrap(err, "can't marshal send email request")
	}

	send := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			repo.config.ApiUrl+"/v1/messages", bytes.NewReader(payload))
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+repo.config.ApiKey)

		resp, err := repo.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			return errors.Newf("mail provider returned status %d", resp.StatusCode)
		default:
			return retry.Unrecoverable(
				errors.Newf("mail provider rejected the message with status %d", resp.StatusCode))
		}
	}

	err = retry.Do(send,
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.Delay(200*time.Millisecond),
	)
	return errors.Wrap(err, "error sending email")
}
