package handlers

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/domain/entities"
	"cancer-support-bot/internal/infra/logger"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signUpBody = `{"name": "Ana", "email": "ana@example.org", "phone": "+16502530000", "diagnosis": "lymphoma"}`

func newTestUserHandlers() *UserHandlers {
	return NewUserHandlers(logger.Discard(), &fakeUserService{registered: map[string]entities.RegisteredUser{}})
}

func newUserRouter(h *UserHandlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/users/{phone}", h.UpdateUser).Methods(http.MethodPut)
	router.HandleFunc("/users/{phone}/treatments", h.AddTreatmentDate).Methods(http.MethodPost)
	router.HandleFunc("/users/{phone}/messages", h.SendUserMessage).Methods(http.MethodPost)
	return router
}

func TestSignUp(t *testing.T) {
	h := newTestUserHandlers()

	rec := httptest.NewRecorder()
	h.SignUp(rec, jsonRequest(http.MethodPost, "/sign_up", signUpBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, registrationSucceeded, resp.Message)

	rec = httptest.NewRecorder()
	h.SignUp(rec, jsonRequest(http.MethodPost, "/sign_up", signUpBody))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, phoneAlreadyTaken, resp.Message)
}

func TestSignUp_BadRequests(t *testing.T) {
	h := newTestUserHandlers()

	for _, body := range []string{`{`, `{"name": "Ana", "email": "ana@example.org"}`} {
		rec := httptest.NewRecorder()
		h.SignUp(rec, jsonRequest(http.MethodPost, "/sign_up", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetUser(t *testing.T) {
	h := newTestUserHandlers()
	h.SignUp(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/sign_up", signUpBody))

	router := mux.NewRouter()
	router.HandleFunc("/users/{phone}", h.GetUser)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/+16502530000", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var user entities.RegisteredUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "ana@example.org", user.Email)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/+16502539999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUser(t *testing.T) {
	h := newTestUserHandlers()
	h.SignUp(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/sign_up", signUpBody))
	router := newUserRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPut, "/users/+16502530000", `{"name": "Ana Maria"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var user entities.RegisteredUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Ana Maria", user.Name)
	assert.Equal(t, "ana@example.org", user.Email)

	cases := []struct {
		path   string
		body   string
		status int
	}{
		{path: "/users/+16502530000", body: `{`, status: http.StatusBadRequest},
		{path: "/users/+16502530000", body: `{"email": "nope"}`, status: http.StatusBadRequest},
		{path: "/users/+16502539999", body: `{"name": "Bo"}`, status: http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, jsonRequest(http.MethodPut, tc.path, tc.body))
		assert.Equal(t, tc.status, rec.Code, tc.body)
	}
}

func TestAddTreatmentDate(t *testing.T) {
	h := newTestUserHandlers()
	h.SignUp(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/sign_up", signUpBody))
	router := newUserRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/users/+16502530000/treatments", `{"treatmentDate": "2026-11-20"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, treatmentDateAdded, resp.Message)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/users/+16502530000/treatments", `{"treatmentDate": "someday"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/users/+16502539999/treatments", `{"treatmentDate": "2026-11-20"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendUserMessage(t *testing.T) {
	users := &fakeUserService{registered: map[string]entities.RegisteredUser{}}
	h := NewUserHandlers(logger.Discard(), users)
	h.SignUp(httptest.NewRecorder(), jsonRequest(http.MethodPost, "/sign_up", signUpBody))
	router := newUserRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/users/+16502530000/messages", `{"message": "See you Monday"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.UserMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SM456", resp.MessageSid)
	assert.Equal(t, []string{"See you Monday"}, users.sent)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/users/+16502539999/messages", `{"message": "hi"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	users.sendError = apperrors.NewDispatchError("send message", "unexpected status 500", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/users/+16502530000/messages", `{"message": "hi"}`))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
