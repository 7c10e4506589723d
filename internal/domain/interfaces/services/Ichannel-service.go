package Iservices

import (
	"cancer-support-bot/internal/domain/entities"
	"context"
)

type IChannelServices interface {
	HandleChatTurn(ctx context.Context, u entities.Utterance) entities.ChatResponse
	WebhookService(u entities.Utterance)
}
