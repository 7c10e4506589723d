package services

import (
	"cancer-support-bot/internal/domain/entities"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionStore keeps voice conversation state per call SID. Entries expire
// after ttl and the least recently used entry is dropped past capacity.
type SessionStore struct {
	cache *expirable.LRU[string, entities.ConversationState]
}

func NewSessionStore(capacity int, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: expirable.NewLRU[string, entities.ConversationState](capacity, nil, ttl)}
}

func (s *SessionStore) Get(callSID string) (entities.ConversationState, bool) {
	if callSID == "" {
		return entities.ConversationState{}, false
	}
	return s.cache.Get(callSID)
}

func (s *SessionStore) Put(state entities.ConversationState) {
	if state.CallSID == "" {
		return
	}
	state.UpdatedAt = time.Now()
	s.cache.Add(state.CallSID, state)
}

func (s *SessionStore) Delete(callSID string) {
	s.cache.Remove(callSID)
}

func (s *SessionStore) Len() int {
	return s.cache.Len()
}
