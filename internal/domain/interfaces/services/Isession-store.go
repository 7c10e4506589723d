package Iservices

import "cancer-support-bot/internal/domain/entities"

// ISessionStore keeps voice conversation state between turns of one call.
// Values are copies; concurrent turns of the same call are not coordinated.
type ISessionStore interface {
	Get(callSID string) (entities.ConversationState, bool)
	Put(state entities.ConversationState)
	Delete(callSID string)
}
