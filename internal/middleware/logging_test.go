package middleware

import (
	"cancer-support-bot/internal/infra/logger"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_TagsAndLogsRequests(t *testing.T) {
	base, hook := test.NewNullLogger()
	handler := LoggingMiddleware(logger.FromLogrus(context.Background(), base))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/voice", nil))

	requestID := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Contains(t, entry.Message, "POST /voice")
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, requestID, entry.Data["request_id"])
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	base, hook := test.NewNullLogger()
	handler := LoggingMiddleware(logger.FromLogrus(context.Background(), base))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
}

func TestLoggingMiddleware_SkipsHealthCheck(t *testing.T) {
	base, hook := test.NewNullLogger()
	handler := LoggingMiddleware(logger.FromLogrus(context.Background(), base))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	assert.Empty(t, hook.AllEntries())
}
