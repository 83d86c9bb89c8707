package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-site/models"
)

// smsBodyLimit keeps a notification inside a few SMS segments
const smsBodyLimit = 300

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a short summary of new contact messages through Twilio
type SMSNotifier struct {
	api  messageCreator
	from string
	to   string
}

func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{api: client.Api, from: from, to: to}
}

// The twilio client takes no context, so ctx only short-circuits a cancelled request
func (n *SMSNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(smsBody(msg))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Info().Str("messageSid", *resp.Sid).Msg("Sent contact SMS via Twilio")
	}
	return nil
}

func smsBody(msg models.ContactMessage) string {
	body := fmt.Sprintf("New inquiry (%s) from %s <%s>: %s", msg.Subject, msg.Name, msg.Email, msg.Message)
	runes := []rune(body)
	if len(runes) > smsBodyLimit {
		body = string(runes[:smsBodyLimit-3]) + "..."
	}
	return body
}
