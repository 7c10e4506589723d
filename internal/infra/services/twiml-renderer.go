package services

import (
	"cancer-support-bot/internal/domain/entities"
	"fmt"
	"strconv"

	"github.com/twilio/twilio-go/twiml"
)

// RenderVoiceTwiML renders a voice response as a TwiML <Response> document.
func RenderVoiceTwiML(v entities.VoiceResponse) (string, error) {
	elements, err := voiceElements(v.Directives)
	if err != nil {
		return "", err
	}
	return twiml.Voice(elements)
}

// RenderChatTwiML renders an inline WhatsApp reply.
func RenderChatTwiML(reply entities.ChatResponse) (string, error) {
	return twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: reply.Reply}})
}

// RenderEmptyTwiML renders an empty <Response/>, used to acknowledge a
// message whose reply is sent separately.
func RenderEmptyTwiML() (string, error) {
	return twiml.Messages([]twiml.Element{})
}

func voiceElements(directives []entities.Directive) ([]twiml.Element, error) {
	elements := make([]twiml.Element, 0, len(directives))
	for _, d := range directives {
		switch d.Kind {
		case entities.DirectiveSay:
			elements = append(elements, &twiml.VoiceSay{Message: d.Text, Voice: d.Voice, Language: d.Language})
		case entities.DirectiveGather:
			nested, err := voiceElements(d.Nested)
			if err != nil {
				return nil, err
			}
			gather := &twiml.VoiceGather{
				Input:         d.Input,
				Action:        d.URL,
				Method:        d.Method,
				Language:      d.Language,
				SpeechTimeout: d.SpeechTimeout,
				SpeechModel:   d.SpeechModel,
				FinishOnKey:   d.FinishOnKey,
				InnerElements: nested,
			}
			if d.Timeout > 0 {
				gather.Timeout = strconv.Itoa(d.Timeout)
			}
			if d.FinishOnKey != "" {
				gather.NumDigits = "1"
			}
			elements = append(elements, gather)
		case entities.DirectivePause:
			pause := &twiml.VoicePause{}
			if d.Length > 0 {
				pause.Length = strconv.Itoa(d.Length)
			}
			elements = append(elements, pause)
		case entities.DirectiveHangup:
			elements = append(elements, &twiml.VoiceHangup{})
		case entities.DirectiveRedirect:
			elements = append(elements, &twiml.VoiceRedirect{Url: d.URL, Method: d.Method})
		default:
			return nil, fmt.Errorf("unknown voice directive %q", d.Kind)
		}
	}
	return elements, nil
}
