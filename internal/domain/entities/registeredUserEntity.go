package entities

import "time"

type Symptom struct {
	Name       string    `json:"name" bson:"name"`
	Severity   string    `json:"severity" bson:"severity"`
	ReportedAt time.Time `json:"reported_at" bson:"reported_at"`
}

type ChatEntry struct {
	Role      string    `json:"role" bson:"role"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// RegisteredUser is a patient record in the user store. Phone is unique.
// TreatmentDates is kept in ascending order.
type RegisteredUser struct {
	Name            string      `json:"name" bson:"name"`
	Email           string      `json:"email" bson:"email"`
	Phone           string      `json:"phone" bson:"phone"`
	Diagnosis       string      `json:"diagnosis" bson:"diagnosis"`
	ChatHistory     []ChatEntry `json:"chat_history" bson:"chat_history"`
	Symptoms        []Symptom   `json:"symptoms" bson:"symptoms"`
	TreatmentDates  []time.Time `json:"treatment_dates" bson:"treatment_dates"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	LastInteraction time.Time   `json:"last_interaction,omitempty" bson:"last_interaction,omitempty"`
}
