package services

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/domain/entities"
	"cancer-support-bot/internal/domain/interfaces/repository"
	repocontants "cancer-support-bot/internal/domain/interfaces/repository/contants"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/sirupsen/logrus"
)

// UserService is the service responsible for patient registration and the
// operator actions on registered patients.
type UserService struct {
	UserRepository repository.Repository[entities.RegisteredUser]
	Gateway        Iservices.IDispatchGateway
	Logger         *logger.Logger
	DefaultRegion  string
}

// NewUserService creates a new instance of the service.
func NewUserService(userRepository repository.Repository[entities.RegisteredUser], gateway Iservices.IDispatchGateway, logger *logger.Logger, defaultRegion string) *UserService {
	return &UserService{
		UserRepository: userRepository,
		Gateway:        gateway,
		Logger:         logger,
		DefaultRegion:  defaultRegion,
	}
}

// EnsureIndexes creates the unique phone index backing registration dedup.
func (us *UserService) EnsureIndexes(ctx context.Context) error {
	return us.UserRepository.EnsureUniqueIndex(ctx, repocontants.USERS_COLLECTION, "phone")
}

// Register validates input and inserts a new user. A phone number that is
// already registered yields apperrors.ErrDuplicatePhone and no record is created.
func (us *UserService) Register(ctx context.Context, input dto.SignUpRequest) (entities.RegisteredUser, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return entities.RegisteredUser{}, apperrors.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return entities.RegisteredUser{}, apperrors.Validation("email %q is not valid", email)
	}

	phone, err := us.NormalizePhone(input.Phone)
	if err != nil {
		return entities.RegisteredUser{}, err
	}

	_, err = us.UserRepository.FindOne(ctx, repocontants.USERS_COLLECTION, "phone", phone)
	switch {
	case err == nil:
		return entities.RegisteredUser{}, apperrors.ErrDuplicatePhone
	case !errors.Is(err, repository.ErrNotFound):
		us.Logger.Error(fmt.Sprintf("Failed to look up user: %v", err), logrus.Fields{"phone": phone})
		return entities.RegisteredUser{}, err
	}

	user := entities.RegisteredUser{
		Name:           name,
		Email:          email,
		Phone:          phone,
		Diagnosis:      strings.TrimSpace(input.Diagnosis),
		ChatHistory:    []entities.ChatEntry{},
		Symptoms:       []entities.Symptom{},
		TreatmentDates: []time.Time{},
		CreatedAt:      time.Now().UTC(),
	}

	created, err := us.UserRepository.Create(ctx, repocontants.USERS_COLLECTION, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return entities.RegisteredUser{}, apperrors.ErrDuplicatePhone
		}
		us.Logger.Error(fmt.Sprintf("Failed to create user: %v", err), logrus.Fields{"phone": phone})
		return entities.RegisteredUser{}, err
	}

	us.Logger.Info("User registered", logrus.Fields{"phone": phone})
	return created, nil
}

// FindByPhone retrieves a user by phone number in any accepted format.
func (us *UserService) FindByPhone(ctx context.Context, phone string) (entities.RegisteredUser, error) {
	normalized, err := us.NormalizePhone(phone)
	if err != nil {
		return entities.RegisteredUser{}, err
	}

	user, err := us.UserRepository.FindOne(ctx, repocontants.USERS_COLLECTION, "phone", normalized)
	if errors.Is(err, repository.ErrNotFound) {
		return entities.RegisteredUser{}, apperrors.ErrUserNotFound
	}
	return user, err
}

// Update applies the non-nil fields of input to the user stored under phone.
func (us *UserService) Update(ctx context.Context, phone string, input dto.UpdateUserRequest) (entities.RegisteredUser, error) {
	user, err := us.FindByPhone(ctx, phone)
	if err != nil {
		return entities.RegisteredUser{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return entities.RegisteredUser{}, apperrors.Validation("name cannot be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return entities.RegisteredUser{}, apperrors.Validation("email %q is not valid", email)
		}
		user.Email = email
	}
	if input.Diagnosis != nil {
		user.Diagnosis = strings.TrimSpace(*input.Diagnosis)
	}
	user.LastInteraction = time.Now().UTC()

	updated, err := us.save(ctx, user)
	if err != nil {
		return entities.RegisteredUser{}, err
	}
	us.Logger.Info("User updated", logrus.Fields{"phone": user.Phone})
	return updated, nil
}

// AddTreatmentDate records a treatment date for the user. date is RFC 3339 or
// a plain YYYY-MM-DD day.
func (us *UserService) AddTreatmentDate(ctx context.Context, phone string, date string) (entities.RegisteredUser, error) {
	when, err := parseTreatmentDate(date)
	if err != nil {
		return entities.RegisteredUser{}, err
	}

	user, err := us.FindByPhone(ctx, phone)
	if err != nil {
		return entities.RegisteredUser{}, err
	}

	user.TreatmentDates = append(user.TreatmentDates, when)
	sort.Slice(user.TreatmentDates, func(i, j int) bool {
		return user.TreatmentDates[i].Before(user.TreatmentDates[j])
	})

	updated, err := us.save(ctx, user)
	if err != nil {
		return entities.RegisteredUser{}, err
	}
	us.Logger.Info("Treatment date added", logrus.Fields{"phone": user.Phone, "date": when.Format(time.RFC3339)})
	return updated, nil
}

// SendMessage sends message to a registered user through the gateway and
// returns the provider's message SID. Gateway failures are returned as-is.
func (us *UserService) SendMessage(ctx context.Context, phone string, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.Validation("message is required")
	}

	user, err := us.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}

	sid, err := us.Gateway.SendMessage(ctx, user.Phone, message)
	if err != nil {
		return "", err
	}

	user.LastInteraction = time.Now().UTC()
	if _, err := us.save(ctx, user); err != nil {
		us.Logger.Warn(fmt.Sprintf("Message sent but last interaction was not stored: %v", err), logrus.Fields{"phone": user.Phone})
	}
	return sid, nil
}

func (us *UserService) save(ctx context.Context, user entities.RegisteredUser) (entities.RegisteredUser, error) {
	updated, err := us.UserRepository.Update(ctx, repocontants.USERS_COLLECTION, "phone", user.Phone, user)
	if errors.Is(err, repository.ErrNotFound) {
		return entities.RegisteredUser{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		us.Logger.Error(fmt.Sprintf("Failed to update user: %v", err), logrus.Fields{"phone": user.Phone})
		return entities.RegisteredUser{}, err
	}
	return updated, nil
}

func parseTreatmentDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.Validation("treatment date is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.Validation("treatment date %q is not a valid date", raw)
}

// NormalizePhone parses phone in the default region and formats it as E.164.
// A whatsapp: scheme is ignored.
func (us *UserService) NormalizePhone(phone string) (string, error) {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "whatsapp:")
	if phone == "" {
		return "", apperrors.Validation("phone number is required")
	}

	parsed, err := phonenumbers.Parse(phone, us.DefaultRegion)
	if err != nil {
		return "", apperrors.Validation("phone number %q could not be parsed: %v", phone, err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", apperrors.Validation("phone number %q is not valid", phone)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
