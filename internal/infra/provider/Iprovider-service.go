package provider

import (
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ITwilioAPI is the slice of the Twilio REST client the gateway uses.
// *openapi.ApiService satisfies it.
type ITwilioAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}
