package services

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/entities"
	"cancer-support-bot/internal/domain/interfaces/repository"
	"context"
	"sync"
)

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	block   bool
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	text, err, block := f.text, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", apperrors.NewGenerationError("service unreachable", ctx.Err())
	}
	return text, err
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type sentMessage struct {
	To   string
	Body string
}

type fakeGateway struct {
	mu    sync.Mutex
	sent  []sentMessage
	calls []string
	err   error
}

func (f *fakeGateway) SendMessage(ctx context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return "SM-fake", nil
}

func (f *fakeGateway) PlaceCall(ctx context.Context, to, from, voiceWebhookURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, to)
	return "CA-fake", nil
}

type fakeUserRepository struct {
	mu          sync.Mutex
	users       map[string]entities.RegisteredUser
	skipLookup  bool
	lookupError error
	updateError error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]entities.RegisteredUser{}}
}

func (r *fakeUserRepository) Create(ctx context.Context, collectionName string, entity entities.RegisteredUser) (entities.RegisteredUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[entity.Phone]; ok {
		return entity, repository.ErrDuplicateKey
	}
	r.users[entity.Phone] = entity
	return entity, nil
}

func (r *fakeUserRepository) FindOne(ctx context.Context, collectionName string, field string, value string) (entities.RegisteredUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupError != nil {
		return entities.RegisteredUser{}, r.lookupError
	}
	if r.skipLookup {
		return entities.RegisteredUser{}, repository.ErrNotFound
	}
	user, ok := r.users[value]
	if !ok {
		return entities.RegisteredUser{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) Update(ctx context.Context, collectionName string, field string, value string, entity entities.RegisteredUser) (entities.RegisteredUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateError != nil {
		return entity, r.updateError
	}
	if _, ok := r.users[value]; !ok {
		return entity, repository.ErrNotFound
	}
	r.users[value] = entity
	return entity, nil
}

func (r *fakeUserRepository) EnsureUniqueIndex(ctx context.Context, collectionName string, field string) error {
	return nil
}
