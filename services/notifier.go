// Package services delivers notifications about new contact messages to
// the site owner by email and SMS.
package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/models"
)

// Notifier announces a stored contact message
type Notifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

// MultiNotifier fans a message out to every notifier and joins their errors
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	var errList []error
	for _, n := range m {
		if err := n.NotifyContact(ctx, msg); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// FromConfig builds a notifier for every channel whose settings are present.
// With nothing configured the result notifies nobody.
func FromConfig(c map[string]string) MultiNotifier {
	var notifiers MultiNotifier
	recipients := config.GetList(c, "NOTIFY_EMAIL")

	if apiKey := config.GetString(c, "RESEND_API_KEY", ""); apiKey != "" && len(recipients) > 0 {
		notifiers = append(notifiers, NewResendNotifier(apiKey, config.GetString(c, "RESEND_FROM_EMAIL", ""), recipients))
	}

	if host := config.GetString(c, "SMTP_HOST", ""); host != "" && len(recipients) > 0 {
		notifiers = append(notifiers, NewSMTPNotifier(SMTPConfig{
			Host:     host,
			Port:     config.GetInt(c, "SMTP_PORT", 587),
			Username: config.GetString(c, "SMTP_USERNAME", ""),
			Password: config.GetString(c, "SMTP_PASSWORD", ""),
			From:     config.GetString(c, "SMTP_FROM", ""),
			To:       recipients,
		}))
	}

	sid := config.GetString(c, "TWILIO_ACCOUNT_SID", "")
	phone := config.GetString(c, "NOTIFY_PHONE", "")
	if sid != "" && phone != "" {
		notifiers = append(notifiers, NewSMSNotifier(
			sid,
			config.GetString(c, "TWILIO_AUTH_TOKEN", ""),
			config.GetString(c, "TWILIO_FROM_NUMBER", ""),
			phone,
		))
	}

	log.Info().Int("channels", len(notifiers)).Msg("Contact notifications configured")
	return notifiers
}

func contactSubject(msg models.ContactMessage) string {
	return fmt.Sprintf("New inquiry: %s", msg.Subject)
}

func contactText(msg models.ContactMessage) string {
	return fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s\n", msg.Name, msg.Email, msg.Subject, msg.Message)
}

func contactHTML(msg models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(msg.Name), html.EscapeString(msg.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(msg.Subject))
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"))
	return b.String()
}
