package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/models"
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

// ResendNotifier emails new contact messages through the Resend API
type ResendNotifier struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewResendNotifier(apiKey, from string, recipients []string) *ResendNotifier {
	return &ResendNotifier{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{},
		logger:     log.With().Str("notifier", "resend").Logger(),
	}
}

func (n *ResendNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	return n.SendEmail(ctx, ResendEmailRequest{
		Subject: contactSubject(msg),
		Html:    contactHTML(msg),
		Text:    contactText(msg),
		ReplyTo: msg.Email,
	})
}

// SendEmail fills in the sender and recipients and posts the email to Resend
func (n *ResendNotifier) SendEmail(ctx context.Context, payload ResendEmailRequest) error {
	if n.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required")
	}
	if n.from == "" {
		return fmt.Errorf("RESEND_FROM_EMAIL is required")
	}
	if len(n.recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	payload.From = n.from
	payload.To = n.recipients

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
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
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
