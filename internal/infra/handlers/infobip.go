package handlers

import (
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/domain/entities"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"encoding/json"
	"fmt"
	"net/http"
)

type InfobipHandlers struct {
	Logger         *logger.Logger
	ChannelService Iservices.IChannelServices
}

func NewInfobipHandlers(logger *logger.Logger, channelService Iservices.IChannelServices) *InfobipHandlers {
	return &InfobipHandlers{Logger: logger, ChannelService: channelService}
}

// InfoBipWebhook receives inbound WhatsApp messages from Infobip. The reply is
// always sent in the background since Infobip expects a bare acknowledgment.
func (th *InfobipHandlers) InfoBipWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var webhookRequest dto.InboundResponse
	if err := json.NewDecoder(r.Body).Decode(&webhookRequest); err != nil {
		th.Logger.Warn(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		http.Error(w, "Error to process JSON", http.StatusBadRequest)
		return
	}

	last, ok := webhookRequest.LastResult()
	if !ok {
		th.Logger.Warn("Received webhook event with no results.")
		w.WriteHeader(http.StatusOK)
		return
	}
	if last.From == "" {
		http.Error(w, "from is required", http.StatusBadRequest)
		return
	}

	go th.ChannelService.WebhookService(entities.Utterance{
		Text:    last.Message.Text,
		Channel: entities.ChannelChat,
		From:    last.From,
	})

	w.WriteHeader(http.StatusOK)
}
