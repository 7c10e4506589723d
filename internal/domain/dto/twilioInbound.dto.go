package dto

import (
	"net/url"
	"strings"
)

// ChatInboundForm is the form body Twilio posts for an inbound WhatsApp message.
type ChatInboundForm struct {
	Body       string
	From       string
	MessageSid string
}

func ChatInboundFromValues(v url.Values) ChatInboundForm {
	return ChatInboundForm{
		Body:       v.Get("Body"),
		From:       strings.TrimSpace(v.Get("From")),
		MessageSid: v.Get("MessageSid"),
	}
}

// VoiceInboundForm is the form body Twilio posts to the voice webhook.
type VoiceInboundForm struct {
	SpeechResult string
	Digits       string
	CallSid      string
	From         string
}

func VoiceInboundFromValues(v url.Values) VoiceInboundForm {
	return VoiceInboundForm{
		SpeechResult: v.Get("SpeechResult"),
		Digits:       strings.TrimSpace(v.Get("Digits")),
		CallSid:      strings.TrimSpace(v.Get("CallSid")),
		From:         strings.TrimSpace(v.Get("From")),
	}
}
