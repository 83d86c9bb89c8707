package services

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/rpupo63/portfolio-site/models"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

// SMTPNotifier emails new contact messages through an SMTP relay
type SMTPNotifier struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	send   func(*gomail.Message) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	return &SMTPNotifier{cfg: cfg, dialer: d, send: func(m *gomail.Message) error { return d.DialAndSend(m) }}
}

func (n *SMTPNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	m, err := n.buildMessage(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- n.send(m)
	}()

	wait := n.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func (n *SMTPNotifier) buildMessage(msg models.ContactMessage) (*gomail.Message, error) {
	if n.cfg.From == "" {
		return nil, fmt.Errorf("SMTP_FROM is required")
	}
	if len(n.cfg.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To...)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", contactSubject(msg))
	m.SetBody("text/plain", contactText(msg))
	m.AddAlternative("text/html", contactHTML(msg))
	return m, nil
}
