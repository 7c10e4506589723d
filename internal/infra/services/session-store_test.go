package services

import (
	"cancer-support-bot/internal/domain/entities"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_PutGetDelete(t *testing.T) {
	store := NewSessionStore(10, time.Minute)

	state := entities.NewConversationState("CA1")
	state.TurnCount = 3
	store.Put(state)

	got, ok := store.Get("CA1")
	require.True(t, ok)
	assert.Equal(t, 3, got.TurnCount)
	assert.Equal(t, 1, store.Len())

	store.Delete("CA1")
	_, ok = store.Get("CA1")
	assert.False(t, ok)
}

func TestSessionStore_IgnoresEmptyCallSID(t *testing.T) {
	store := NewSessionStore(10, time.Minute)

	store.Put(entities.NewConversationState(""))
	_, ok := store.Get("")

	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestSessionStore_EntriesExpire(t *testing.T) {
	store := NewSessionStore(10, 30*time.Millisecond)
	store.Put(entities.NewConversationState("CA1"))

	assert.Eventually(t, func() bool {
		_, ok := store.Get("CA1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestSessionStore_EvictsPastCapacity(t *testing.T) {
	store := NewSessionStore(2, time.Minute)
	for _, sid := range []string{"CA1", "CA2", "CA3"} {
		store.Put(entities.NewConversationState(sid))
	}

	_, ok := store.Get("CA1")
	assert.False(t, ok)
	assert.Equal(t, 2, store.Len())
}
