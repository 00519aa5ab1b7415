package services

import (
	"context"
	"fmt"

	"github.com/SignorelliLorenzo/portfolio/config"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// maxSMSBody keeps a notification within a few SMS segments.
const maxSMSBody = 320

// MessageCreator is the part of the Twilio REST API used to send texts.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a short summary of each contact request.
type SMSNotifier struct {
	api  MessageCreator
	from string
	to   []string
}

// NewSMSNotifierFromConfig reads the TWILIO_* keys and CONTACT_NOTIFY_SMS. It
// returns nil when any of them is unset.
func NewSMSNotifierFromConfig(c map[string]string) *SMSNotifier {
	if !configured("twilio", c, "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER", "CONTACT_NOTIFY_SMS") {
		return nil
	}
	sid := config.GetString(c, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(c, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(c, "TWILIO_FROM_NUMBER", "")
	to := config.GetList(c, "CONTACT_NOTIFY_SMS")

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return NewSMSNotifier(client.Api, from, to)
}

func NewSMSNotifier(api MessageCreator, from string, to []string) *SMSNotifier {
	return &SMSNotifier{api: api, from: from, to: to}
}

func (n *SMSNotifier) Name() string { return "twilio" }

// Notify sends one text per recipient and returns the first failure after
// trying all of them.
func (n *SMSNotifier) Notify(ctx context.Context, req models.ContactRequest) error {
	body := smsBody(req)

	var firstErr error
	for _, to := range n.to {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(body)

		resp, err := n.api.CreateMessage(params)
		if err != nil {
			if firstErr == nil {
				firstErr = errs.NewServiceError("twilio", 0, err)
			}
			continue
		}
		if resp != nil && resp.Sid != nil {
			log.Info().Str("messageSid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}
	return firstErr
}

func smsBody(req models.ContactRequest) string {
	body := fmt.Sprintf("Contact from %s <%s>: %s", req.Name, req.Email, req.Message)
	runes := []rune(body)
	if len(runes) > maxSMSBody {
		body = string(runes[:maxSMSBody-1]) + "…"
	}
	return body
}
