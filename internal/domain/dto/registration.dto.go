package dto

type SignUpRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Diagnosis string `json:"diagnosis"`
}

type RegistrationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateUserRequest carries the editable profile fields. Nil fields are left
// unchanged; phone and creation time cannot be edited.
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Diagnosis *string `json:"diagnosis"`
}

type TreatmentDateRequest struct {
	TreatmentDate string `json:"treatmentDate"`
}

type UserMessageRequest struct {
	Message string `json:"message"`
}

type UserMessageResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	MessageSid string `json:"message_sid"`
}
