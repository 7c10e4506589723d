package handlers

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

const (
	registrationSucceeded = "Registration successful! Welcome to our platform."
	phoneAlreadyTaken     = "Phone number already registered. Please use a different number or try logging in."
	treatmentDateAdded    = "Treatment date added successfully"
	messageSent           = "Message sent successfully"
)

type UserHandlers struct {
	Logger      *logger.Logger
	UserService Iservices.IUserService
}

func NewUserHandlers(logger *logger.Logger, userService Iservices.IUserService) *UserHandlers {
	return &UserHandlers{Logger: logger, UserService: userService}
}

// SignUp registers a patient.
//
// HTTP Status Codes:
// - 201 Created: the user was stored.
// - 400 Bad Request: malformed JSON, missing name, invalid email or phone.
// - 409 Conflict: the phone number is already registered.
func (th *UserHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var body dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := th.UserService.Register(r.Context(), body); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrDuplicatePhone):
			writeError(w, http.StatusConflict, phoneAlreadyTaken)
		default:
			th.Logger.Error(fmt.Sprintf("Failed to register user: %s", err.Error()))
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegistrationResponse{Success: true, Message: registrationSucceeded})
}

func (th *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]

	user, err := th.UserService.FindByPhone(r.Context(), phone)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			th.Logger.Error(fmt.Sprintf("Failed to find user: %s", err.Error()))
			writeError(w, http.StatusInternalServerError, "Lookup failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser edits the profile of the user addressed by the phone path variable.
//
// HTTP Status Codes:
// - 200 OK: the updated user.
// - 400 Bad Request: malformed JSON, empty name or invalid email.
// - 404 Not Found: no user is registered under the phone number.
func (th *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := th.UserService.Update(r.Context(), mux.Vars(r)["phone"], body)
	if err != nil {
		th.writeUserError(w, err, "Update failed")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (th *UserHandlers) AddTreatmentDate(w http.ResponseWriter, r *http.Request) {
	var body dto.TreatmentDateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := th.UserService.AddTreatmentDate(r.Context(), mux.Vars(r)["phone"], body.TreatmentDate); err != nil {
		th.writeUserError(w, err, "Failed to add treatment date")
		return
	}

	writeJSON(w, http.StatusOK, dto.RegistrationResponse{Success: true, Message: treatmentDateAdded})
}

// SendUserMessage sends an operator message to a registered user. Gateway
// failures are reported as 502.
func (th *UserHandlers) SendUserMessage(w http.ResponseWriter, r *http.Request) {
	var body dto.UserMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sid, err := th.UserService.SendMessage(r.Context(), mux.Vars(r)["phone"], body.Message)
	if err != nil {
		if apperrors.IsDispatch(err) {
			th.Logger.Error(fmt.Sprintf("Failed to send message: %s", err.Error()))
			writeError(w, http.StatusBadGateway, "Failed to send message")
			return
		}
		th.writeUserError(w, err, "Failed to send message")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserMessageResponse{Success: true, Message: messageSent, MessageSid: sid})
}

func (th *UserHandlers) writeUserError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		th.Logger.Error(fmt.Sprintf("%s: %s", fallback, err.Error()))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
