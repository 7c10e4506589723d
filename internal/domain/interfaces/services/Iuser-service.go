package Iservices

import (
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/domain/entities"
	"context"
)

type IUserService interface {
	Register(ctx context.Context, input dto.SignUpRequest) (entities.RegisteredUser, error)
	FindByPhone(ctx context.Context, phone string) (entities.RegisteredUser, error)
	Update(ctx context.Context, phone string, input dto.UpdateUserRequest) (entities.RegisteredUser, error)
	AddTreatmentDate(ctx context.Context, phone string, date string) (entities.RegisteredUser, error)
	SendMessage(ctx context.Context, phone string, message string) (string, error)
}
