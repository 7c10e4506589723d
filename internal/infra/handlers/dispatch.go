package handlers

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DispatchHandlers expose the gateway to operators: sending a message and
// placing a call that is answered by the voice webhook.
type DispatchHandlers struct {
	Logger          *logger.Logger
	Gateway         Iservices.IDispatchGateway
	VoiceWebhookURL string
	Timeout         time.Duration
}

func NewDispatchHandlers(logger *logger.Logger, gateway Iservices.IDispatchGateway, publicBaseURL string, timeout time.Duration) *DispatchHandlers {
	return &DispatchHandlers{
		Logger:          logger,
		Gateway:         gateway,
		VoiceWebhookURL: strings.TrimRight(publicBaseURL, "/") + "/voice",
		Timeout:         timeout,
	}
}

func (th *DispatchHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.To) == "" || strings.TrimSpace(body.Body) == "" {
		writeError(w, http.StatusBadRequest, "to and body are required")
		return
	}

	ctx, cancel := th.withTimeout(r.Context())
	defer cancel()

	messageSid, err := th.Gateway.SendMessage(ctx, body.To, body.Body)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to send message: %s", err.Error()), logrus.Fields{"to": body.To})
		writeError(w, dispatchStatus(err), "Failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, dto.SendMessageResponse{MessageSid: messageSid})
}

func (th *DispatchHandlers) MakeCall(w http.ResponseWriter, r *http.Request) {
	var body dto.MakeCallRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.ToPhone) == "" {
		writeError(w, http.StatusBadRequest, "to_phone is required")
		return
	}

	ctx, cancel := th.withTimeout(r.Context())
	defer cancel()

	callSid, err := th.Gateway.PlaceCall(ctx, body.ToPhone, body.FromPhone, th.VoiceWebhookURL)
	if err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to place call: %s", err.Error()), logrus.Fields{"to": body.ToPhone})
		writeError(w, dispatchStatus(err), "Failed to place call")
		return
	}

	th.Logger.Info("Call initiated", logrus.Fields{"to": body.ToPhone, "call_sid": callSid})
	writeJSON(w, http.StatusOK, dto.MakeCallResponse{Message: "Call initiated", CallSid: callSid})
}

func (th *DispatchHandlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if th.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, th.Timeout)
}

func dispatchStatus(err error) int {
	if apperrors.IsDispatch(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
