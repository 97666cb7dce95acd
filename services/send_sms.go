package services

import (
	"context"
	"fmt"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const maxSMSBody = 320

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioTexter sends SMS through Twilio's messaging API.
type TwilioTexter struct {
	api  messageCreator
	from string
	to   string
}

func NewTwilioTexter(cfg config.NotifyConfig) *TwilioTexter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioTexter{api: client.Api, from: cfg.TwilioFromNumber, to: cfg.NotifyPhone}
}

func (t *TwilioTexter) NotifyContact(ctx context.Context, message models.ContactMessage) error {
	return t.SendSMS(ctx, truncate(contactSummary(message), maxSMSBody))
}

// SendSMS texts body to the configured phone number. The Twilio client takes no context, so
// ctx is only checked before the call.
func (t *TwilioTexter) SendSMS(ctx context.Context, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(t.to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
