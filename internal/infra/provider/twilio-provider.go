package provider

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppScheme = "whatsapp:"

// TwilioGateway sends WhatsApp messages and places voice calls through Twilio.
type TwilioGateway struct {
	Logger      *logger.Logger
	api         ITwilioAPI
	from        string
	voiceNumber string
}

func NewTwilioGateway(logger *logger.Logger, accountSID, authToken, from, voiceNumber string) *TwilioGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioGatewayWithAPI(logger, client.Api, from, voiceNumber)
}

// NewTwilioGatewayWithAPI builds a gateway over an existing API client.
func NewTwilioGatewayWithAPI(logger *logger.Logger, api ITwilioAPI, from, voiceNumber string) *TwilioGateway {
	return &TwilioGateway{Logger: logger, api: api, from: from, voiceNumber: voiceNumber}
}

// SendMessage sends body to the given address and returns the message SID.
func (tg *TwilioGateway) SendMessage(ctx context.Context, to, body string) (string, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(body) == "" {
		return "", apperrors.NewDispatchError("send message", "recipient and body cannot be empty", nil)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(messagingAddress(to, tg.from))
	params.SetFrom(tg.from)
	params.SetBody(body)

	msg, err := callWithContext(ctx, func() (*openapi.ApiV2010Message, error) {
		return tg.api.CreateMessage(params)
	})
	if err != nil {
		tg.Logger.Error("Failed to send message", logrus.Fields{"to": to, "error": err.Error()})
		return "", apperrors.NewDispatchError("send message", dispatchDetail(err), err)
	}
	if msg == nil || msg.Sid == nil {
		return "", apperrors.NewDispatchError("send message", "provider returned no message SID", nil)
	}

	tg.Logger.Info("Message sent successfully", logrus.Fields{"to": to, "message_sid": *msg.Sid})
	return *msg.Sid, nil
}

// PlaceCall dials to and points the call at voiceWebhookURL. An empty from
// falls back to the configured voice number.
func (tg *TwilioGateway) PlaceCall(ctx context.Context, to, from, voiceWebhookURL string) (string, error) {
	if from == "" {
		from = tg.voiceNumber
	}
	to = strings.TrimPrefix(strings.TrimSpace(to), whatsAppScheme)
	from = strings.TrimPrefix(strings.TrimSpace(from), whatsAppScheme)
	if to == "" || from == "" || voiceWebhookURL == "" {
		return "", apperrors.NewDispatchError("place call", "to, from and webhook URL are required", nil)
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetUrl(voiceWebhookURL)

	call, err := callWithContext(ctx, func() (*openapi.ApiV2010Call, error) {
		return tg.api.CreateCall(params)
	})
	if err != nil {
		tg.Logger.Error("Failed to place call", logrus.Fields{"to": to, "error": err.Error()})
		return "", apperrors.NewDispatchError("place call", dispatchDetail(err), err)
	}
	if call == nil || call.Sid == nil {
		return "", apperrors.NewDispatchError("place call", "provider returned no call SID", nil)
	}

	tg.Logger.Info("Call initiated", logrus.Fields{"to": to, "call_sid": *call.Sid})
	return *call.Sid, nil
}

// messagingAddress puts to on the same scheme as the sender, so a WhatsApp
// sender always targets a WhatsApp address.
func messagingAddress(to, from string) string {
	to = strings.TrimSpace(to)
	if strings.HasPrefix(from, whatsAppScheme) && !strings.HasPrefix(to, whatsAppScheme) {
		return whatsAppScheme + to
	}
	return to
}

// callWithContext runs fn and gives up when ctx is done. The Twilio client
// has no context support, an abandoned call finishes in the background.
func callWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func dispatchDetail(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return "provider request failed"
}
