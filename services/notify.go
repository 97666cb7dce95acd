package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
)

// ContactNotifier tells the site owner about a new contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, message models.ContactMessage) error
}

// Channel is a named notifier, used for logging which one failed.
type Channel struct {
	Name     string
	Notifier ContactNotifier
}

// NotifyEverywhere sends a contact message through every channel.
// Individual failures are logged and the remaining channels are still attempted.
type NotifyEverywhere struct {
	channels []Channel
}

func NewNotifyEverywhere(channels ...Channel) *NotifyEverywhere {
	return &NotifyEverywhere{channels: channels}
}

// NewContactNotifier builds the channels enabled by cfg. It returns a notifier with no channels
// when nothing is configured.
func NewContactNotifier(cfg config.NotifyConfig) *NotifyEverywhere {
	var channels []Channel

	if cfg.EmailEnabled() {
		channels = append(channels, Channel{Name: "email", Notifier: NewResendMailer(cfg)})
	}

	if cfg.SMSEnabled() {
		channels = append(channels, Channel{Name: "sms", Notifier: NewTwilioTexter(cfg)})
	}

	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Name
	}
	log.Info().Strs("channels", names).Msg("Contact notifications configured")

	return NewNotifyEverywhere(channels...)
}

func (n *NotifyEverywhere) Channels() int {
	return len(n.channels)
}

func (n *NotifyEverywhere) NotifyContact(ctx context.Context, message models.ContactMessage) error {
	var failures []string
	var successes []string

	for _, channel := range n.channels {
		if err := channel.Notifier.NotifyContact(ctx, message); err != nil {
			log.Error().Err(err).Str("channel", channel.Name).Uint("messageID", message.ID).Msg("Failed to send contact notification")
			failures = append(failures, fmt.Sprintf("%s: %v", channel.Name, err))
			continue
		}
		successes = append(successes, channel.Name)
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Uint("messageID", message.ID).Msg("Contact notification sent")
	}

	if len(failures) > 0 {
		return fmt.Errorf("some channels failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

// contactSummary is the plain text body shared by every channel.
func contactSummary(message models.ContactMessage) string {
	return fmt.Sprintf("Nova mensagem de %s <%s>:\n\n%s", message.Nome, message.Email, message.Mensagem)
}
