package handlers

import (
	"cancer-support-bot/internal/config"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/domain/entities"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"cancer-support-bot/internal/infra/services"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type HttpHandlers struct {
	Logger           *logger.Logger
	ChannelService   Iservices.IChannelServices
	VoiceService     Iservices.IVoiceServices
	ChatDispatchMode string
}

func NewHttpHandlers(logger *logger.Logger, channelService Iservices.IChannelServices, voiceService Iservices.IVoiceServices, chatDispatchMode string) *HttpHandlers {
	return &HttpHandlers{Logger: logger, ChannelService: channelService, VoiceService: voiceService, ChatDispatchMode: chatDispatchMode}
}

// ChatWebhook handles an inbound WhatsApp or SMS message posted by Twilio.
//
// In inline mode the reply is returned in the TwiML response. In background
// mode the request is acknowledged with an empty TwiML document and the reply
// is generated and sent through the dispatch gateway afterwards.
//
// HTTP Status Codes:
// - 200 OK: TwiML reply or acknowledgment.
// - 400 Bad Request: unparseable form or missing From.
// - 500 Internal Server Error: the TwiML document could not be rendered.
func (th *HttpHandlers) ChatWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		th.Logger.Warn(fmt.Sprintf("Invalid form payload: %s", err.Error()))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	form := dto.ChatInboundFromValues(r.PostForm)
	if form.From == "" {
		th.Logger.Warn("Received chat message without a sender")
		http.Error(w, "From is required", http.StatusBadRequest)
		return
	}

	utterance := entities.Utterance{Text: form.Body, Channel: entities.ChannelChat, From: form.From}
	th.Logger.Info("Received chat message", logrus.Fields{"from": form.From, "message_sid": form.MessageSid})

	var document string
	var err error
	if th.ChatDispatchMode == config.ChatDispatchBackground {
		go th.ChannelService.WebhookService(utterance)
		document, err = services.RenderEmptyTwiML()
	} else {
		response := th.ChannelService.HandleChatTurn(r.Context(), utterance)
		document, err = services.RenderChatTwiML(response)
	}
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to render TwiML: %s", err.Error()))
		http.Error(w, "Failed to build response", http.StatusInternalServerError)
		return
	}

	writeXML(w, "text/xml", document)
}

// VoiceWebhook handles one turn of a phone call. The state query parameter
// is echoed from the previous response's action URL. Requests without a
// CallSid are rejected with 400.
func (th *HttpHandlers) VoiceWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		th.Logger.Warn(fmt.Sprintf("Invalid form payload: %s", err.Error()))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	form := dto.VoiceInboundFromValues(r.PostForm)
	if form.CallSid == "" {
		// Session state, and with it the retry and silence caps, is keyed by CallSid.
		th.Logger.Warn("Received voice request without a CallSid")
		http.Error(w, "CallSid is required", http.StatusBadRequest)
		return
	}

	utterance := entities.Utterance{
		Text:        form.SpeechResult,
		Digits:      form.Digits,
		Channel:     entities.ChannelVoice,
		From:        form.From,
		CallSID:     form.CallSid,
		InputMode:   inputMode(form),
		ResumeState: r.URL.Query().Get("state"),
	}

	response := th.VoiceService.HandleVoiceTurn(r.Context(), utterance)

	document, err := services.RenderVoiceTwiML(response)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to render TwiML: %s", err.Error()), logrus.Fields{"call_sid": form.CallSid})
		http.Error(w, "Failed to build response", http.StatusInternalServerError)
		return
	}

	th.Logger.Info("Voice turn handled", logrus.Fields{"call_sid": form.CallSid, "state": response.State})
	writeXML(w, "application/xml", document)
}

func inputMode(form dto.VoiceInboundForm) entities.InputMode {
	switch {
	case form.SpeechResult != "":
		return entities.InputModeSpeech
	case form.Digits != "":
		return entities.InputModeDigits
	default:
		return entities.InputModeNone
	}
}
