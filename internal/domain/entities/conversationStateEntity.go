package entities

import "time"

// ConversationState is the per-call memory of the voice channel, keyed by the
// call session id. The chat channel keeps no state between turns.
type ConversationState struct {
	CallSID            string    `json:"call_sid"`
	TurnCount          int       `json:"turn_count"`
	Greeted            bool      `json:"greeted"`
	GenerationFailures int       `json:"generation_failures"`
	SilentTurns        int       `json:"silent_turns"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewConversationState returns the state of a call nobody has spoken on yet.
func NewConversationState(callSID string) ConversationState {
	return ConversationState{CallSID: callSID, UpdatedAt: time.Now()}
}
