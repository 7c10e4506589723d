package handlers

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/infra/logger"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSendMessage(t *testing.T) {
	gw := &fakeGateway{}
	h := NewDispatchHandlers(logger.Discard(), gw, "https://bot.example.org/", time.Second)

	rec := httptest.NewRecorder()
	h.SendMessage(rec, jsonRequest(http.MethodPost, "/send_message", `{"to": "+16085550123", "body": "Your appointment is tomorrow."}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SM123", resp.MessageSid)
	assert.Equal(t, "+16085550123", gw.lastTo)
}

func TestSendMessage_Failures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{name: "dispatch error", err: apperrors.NewDispatchError("send message", "unexpected HTTP status: 500", nil), body: `{"to": "+1", "body": "x"}`, status: http.StatusBadGateway},
		{name: "other error", err: errors.New("boom"), body: `{"to": "+1", "body": "x"}`, status: http.StatusInternalServerError},
		{name: "missing body", body: `{"to": "+1"}`, status: http.StatusBadRequest},
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDispatchHandlers(logger.Discard(), &fakeGateway{err: tc.err}, "https://bot.example.org", time.Second)

			rec := httptest.NewRecorder()
			h.SendMessage(rec, jsonRequest(http.MethodPost, "/send_message", tc.body))

			assert.Equal(t, tc.status, rec.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestMakeCall(t *testing.T) {
	gw := &fakeGateway{}
	h := NewDispatchHandlers(logger.Discard(), gw, "https://bot.example.org/", time.Second)

	rec := httptest.NewRecorder()
	h.MakeCall(rec, jsonRequest(http.MethodPost, "/make_call", `{"to_phone": "+16085550123"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.MakeCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.MakeCallResponse{Message: "Call initiated", CallSid: "CA123"}, resp)
	assert.Equal(t, "https://bot.example.org/voice", gw.lastWebhook)
	assert.Empty(t, gw.lastFrom)
}

func TestMakeCall_Failures(t *testing.T) {
	h := NewDispatchHandlers(logger.Discard(), &fakeGateway{}, "https://bot.example.org", time.Second)
	rec := httptest.NewRecorder()
	h.MakeCall(rec, jsonRequest(http.MethodPost, "/make_call", `{"from_phone": "+1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewDispatchHandlers(logger.Discard(), &fakeGateway{err: apperrors.NewDispatchError("place call", "request timed out", nil)}, "https://bot.example.org", time.Second)
	rec = httptest.NewRecorder()
	h.MakeCall(rec, jsonRequest(http.MethodPost, "/make_call", `{"to_phone": "+16085550123", "from_phone": "+16085550000"}`))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
