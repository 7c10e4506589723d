package provider

import (
	"bytes"
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// InfobipWhatsAppProvider sends WhatsApp messages through the Infobip API.
// Access tokens come from the client-credentials flow and are cached by the
// oauth2 token source until they expire.
type InfobipWhatsAppProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	baseURL    string
	from       string
}

func NewInfobipWhatsAppProvider(logger *logger.Logger, baseHTTPClient *http.Client, baseURL, clientID, clientSecret, from string) *InfobipWhatsAppProvider {
	baseURL = strings.TrimRight(baseURL, "/")
	credentials := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/auth/1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, baseHTTPClient)
	httpClient := credentials.Client(ctx)
	httpClient.Timeout = baseHTTPClient.Timeout

	return &InfobipWhatsAppProvider{
		Logger:     logger,
		HttpClient: httpClient,
		baseURL:    baseURL,
		from:       infobipAddress(from),
	}
}

// SendMessage sends a text message to a recipient's phone number.
//
// Parameters:
//   - to: the recipient's number in international format; a whatsapp: scheme
//     and leading + are stripped since Infobip expects bare digits.
//   - body: the content of the text message.
//
// Returns the Infobip message id, or a DispatchError when validation, token
// retrieval, the HTTP request or the API response fails.
func (ip *InfobipWhatsAppProvider) SendMessage(ctx context.Context, to, body string) (string, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(body) == "" {
		return "", apperrors.NewDispatchError("send message", "recipient and body cannot be empty", nil)
	}

	payload, err := json.Marshal(dto.InfobipTextMessage{
		From:    ip.from,
		To:      infobipAddress(to),
		Content: dto.InfobipTextContent{Text: body},
	})
	if err != nil {
		return "", apperrors.NewDispatchError("send message", "failed to marshal payload", err)
	}

	url := fmt.Sprintf("%s/whatsapp/1/message/text", ip.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewDispatchError("send message", "failed to create HTTP request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := ip.HttpClient.Do(req)
	if err != nil {
		ip.Logger.Error("HTTP request failed", logrus.Fields{"to": to, "error": err.Error()})
		detail := "HTTP request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			detail = "request timed out"
		}
		return "", apperrors.NewDispatchError("send message", detail, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperrors.NewDispatchError("send message", "failed to read response body", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		ip.Logger.Error("Unexpected HTTP status", logrus.Fields{"status": res.Status, "response_body": string(resBody)})
		return "", apperrors.NewDispatchError("send message", "unexpected HTTP status: "+res.Status, nil)
	}

	var sendResp dto.InfobipSendResponse
	if err := json.Unmarshal(resBody, &sendResp); err != nil {
		return "", apperrors.NewDispatchError("send message", "malformed response", err)
	}

	ip.Logger.Info("Message sent successfully", logrus.Fields{"to": to, "message_id": sendResp.MessageID})
	return sendResp.MessageID, nil
}

// PlaceCall is not offered by the WhatsApp channel of Infobip.
func (ip *InfobipWhatsAppProvider) PlaceCall(ctx context.Context, to, from, voiceWebhookURL string) (string, error) {
	return "", apperrors.NewDispatchError("place call", "voice calls are not supported by the Infobip WhatsApp gateway", nil)
}

func infobipAddress(address string) string {
	address = strings.TrimSpace(address)
	address = strings.TrimPrefix(address, whatsAppScheme)
	return strings.TrimPrefix(address, "+")
}
