package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendMailer sends e-mail through the Resend HTTP API.
type ResendMailer struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
}

func NewResendMailer(cfg config.NotifyConfig) *ResendMailer {
	return &ResendMailer{
		apiKey:     cfg.ResendAPIKey,
		from:       cfg.ResendFromEmail,
		recipients: []string{cfg.NotifyEmail},
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// NotifyContact mails the message to the site owner with the visitor as reply-to.
func (m *ResendMailer) NotifyContact(ctx context.Context, message models.ContactMessage) error {
	subject := fmt.Sprintf("Nova mensagem de contato: %s", message.Nome)
	body := fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt; escreveu:</p><p>%s</p>",
		html.EscapeString(message.Nome),
		html.EscapeString(message.Email),
		strings.ReplaceAll(html.EscapeString(message.Mensagem), "\n", "<br>"))

	return m.SendEmail(ctx, ResendEmailRequest{
		Subject: subject,
		Html:    body,
		Text:    contactSummary(message),
		ReplyTo: message.Email,
	})
}

// SendEmail sends an email using the Resend API. From and To default to the mailer's
// configured sender and recipients.
func (m *ResendMailer) SendEmail(ctx context.Context, payload ResendEmailRequest) error {
	if payload.From == "" {
		payload.From = m.from
	}
	if len(payload.To) == 0 {
		payload.To = m.recipients
	}
	if len(payload.To) == 0 || payload.To[0] == "" {
		return fmt.Errorf("at least one recipient is required")
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
