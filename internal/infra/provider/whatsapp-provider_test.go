package provider

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInfobipServer(t *testing.T, messageStatus int) (*httptest.Server, *int32, *dto.InfobipTextMessage) {
	t.Helper()
	var tokenCalls int32
	var sent dto.InfobipTextMessage

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/whatsapp/1/message/text", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.WriteHeader(messageStatus)
		_, _ = w.Write([]byte(`{"to":"16085550123","messageId":"ib-msg-1","status":{"groupName":"PENDING"}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &tokenCalls, &sent
}

func TestInfobipProvider_SendMessage(t *testing.T) {
	server, tokenCalls, sent := newInfobipServer(t, http.StatusOK)
	ip := NewInfobipWhatsAppProvider(logger.Discard(), &http.Client{Timeout: time.Second}, server.URL, "client-id", "client-secret", "+447860099299")

	id, err := ip.SendMessage(context.Background(), "whatsapp:+16085550123", "Take care")
	require.NoError(t, err)
	assert.Equal(t, "ib-msg-1", id)
	assert.Equal(t, "16085550123", sent.To)
	assert.Equal(t, "447860099299", sent.From)
	assert.Equal(t, "Take care", sent.Content.Text)

	_, err = ip.SendMessage(context.Background(), "+16085550123", "Again")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(tokenCalls), "token is cached between sends")
}

func TestInfobipProvider_SendMessage_BadStatus(t *testing.T) {
	server, _, _ := newInfobipServer(t, http.StatusBadRequest)
	ip := NewInfobipWhatsAppProvider(logger.Discard(), &http.Client{Timeout: time.Second}, server.URL, "client-id", "client-secret", "447860099299")

	_, err := ip.SendMessage(context.Background(), "16085550123", "hi")
	assert.True(t, apperrors.IsDispatch(err))
}

func TestInfobipProvider_PlaceCallUnsupported(t *testing.T) {
	ip := NewInfobipWhatsAppProvider(logger.Discard(), &http.Client{}, "http://localhost", "id", "secret", "1")

	_, err := ip.PlaceCall(context.Background(), "1", "2", "http://localhost/voice")
	assert.True(t, apperrors.IsDispatch(err))
}
