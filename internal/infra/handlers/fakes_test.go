package handlers

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/domain/entities"
	"context"
	"strings"
	"sync"
	"time"
)

type fakeChannelService struct {
	mu         sync.Mutex
	reply      string
	turns      []entities.Utterance
	background chan entities.Utterance
}

func (f *fakeChannelService) HandleChatTurn(ctx context.Context, u entities.Utterance) entities.ChatResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, u)
	return entities.ChatResponse{To: u.From, Reply: f.reply, Generated: true}
}

func (f *fakeChannelService) WebhookService(u entities.Utterance) {
	f.background <- u
}

type fakeVoiceService struct {
	last     entities.Utterance
	response entities.VoiceResponse
}

func (f *fakeVoiceService) HandleVoiceTurn(ctx context.Context, u entities.Utterance) entities.VoiceResponse {
	f.last = u
	return f.response
}

type fakeGateway struct {
	err         error
	lastTo      string
	lastFrom    string
	lastWebhook string
}

func (f *fakeGateway) SendMessage(ctx context.Context, to, body string) (string, error) {
	f.lastTo = to
	if f.err != nil {
		return "", f.err
	}
	return "SM123", nil
}

func (f *fakeGateway) PlaceCall(ctx context.Context, to, from, voiceWebhookURL string) (string, error) {
	f.lastTo, f.lastFrom, f.lastWebhook = to, from, voiceWebhookURL
	if f.err != nil {
		return "", f.err
	}
	return "CA123", nil
}

type fakeUserService struct {
	registered map[string]entities.RegisteredUser
	sendError  error
	sent       []string
}

func (f *fakeUserService) Register(ctx context.Context, input dto.SignUpRequest) (entities.RegisteredUser, error) {
	if input.Phone == "" {
		return entities.RegisteredUser{}, apperrors.Validation("phone number is required")
	}
	if _, ok := f.registered[input.Phone]; ok {
		return entities.RegisteredUser{}, apperrors.ErrDuplicatePhone
	}
	user := entities.RegisteredUser{Name: input.Name, Email: input.Email, Phone: input.Phone}
	f.registered[input.Phone] = user
	return user, nil
}

func (f *fakeUserService) FindByPhone(ctx context.Context, phone string) (entities.RegisteredUser, error) {
	user, ok := f.registered[phone]
	if !ok {
		return entities.RegisteredUser{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserService) Update(ctx context.Context, phone string, input dto.UpdateUserRequest) (entities.RegisteredUser, error) {
	user, ok := f.registered[phone]
	if !ok {
		return entities.RegisteredUser{}, apperrors.ErrUserNotFound
	}
	if input.Email != nil {
		if !strings.Contains(*input.Email, "@") {
			return entities.RegisteredUser{}, apperrors.Validation("email %q is not valid", *input.Email)
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	f.registered[phone] = user
	return user, nil
}

func (f *fakeUserService) AddTreatmentDate(ctx context.Context, phone string, date string) (entities.RegisteredUser, error) {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return entities.RegisteredUser{}, apperrors.Validation("treatment date %q is not a valid date", date)
	}
	user, ok := f.registered[phone]
	if !ok {
		return entities.RegisteredUser{}, apperrors.ErrUserNotFound
	}
	user.TreatmentDates = append(user.TreatmentDates, parsed)
	f.registered[phone] = user
	return user, nil
}

func (f *fakeUserService) SendMessage(ctx context.Context, phone string, message string) (string, error) {
	if _, ok := f.registered[phone]; !ok {
		return "", apperrors.ErrUserNotFound
	}
	if f.sendError != nil {
		return "", f.sendError
	}
	f.sent = append(f.sent, message)
	return "SM456", nil
}
