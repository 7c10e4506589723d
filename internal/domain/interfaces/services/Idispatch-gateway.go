package Iservices

import "context"

// IDispatchGateway is the outbound messaging and voice provider. Every
// failure is an *apperrors.DispatchError.
type IDispatchGateway interface {
	SendMessage(ctx context.Context, to, body string) (string, error)
	PlaceCall(ctx context.Context, to, from, voiceWebhookURL string) (string, error)
}
