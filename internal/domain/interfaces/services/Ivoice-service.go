package Iservices

import (
	"cancer-support-bot/internal/domain/entities"
	"context"
)

type IVoiceServices interface {
	HandleVoiceTurn(ctx context.Context, u entities.Utterance) entities.VoiceResponse
}
