package dto

type SendMessageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type SendMessageResponse struct {
	MessageSid string `json:"message_sid"`
}

type MakeCallRequest struct {
	ToPhone   string `json:"to_phone"`
	FromPhone string `json:"from_phone"`
}

type MakeCallResponse struct {
	Message string `json:"message"`
	CallSid string `json:"call_sid"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
