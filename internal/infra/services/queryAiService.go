package services

import (
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/entities"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

type QueryAIService struct {
	Logger    *logger.Logger
	Generator Iservices.ITextGenerator
	Timeout   time.Duration
}

func NewQueryAIService(logger *logger.Logger, generator Iservices.ITextGenerator, timeout time.Duration) *QueryAIService {
	return &QueryAIService{
		Logger:    logger,
		Generator: generator,
		Timeout:   timeout,
	}
}

// ExecuteQueryAI sends prompt to the text generator, bounded by the configured
// timeout. It never fails: on any error the reply carries the fallback message
// and the detail is logged for operators only.
func (th *QueryAIService) ExecuteQueryAI(ctx context.Context, prompt string, fields logrus.Fields) entities.GeneratedReply {
	if th.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, th.Timeout)
		defer cancel()
	}

	text, err := th.Generator.Generate(ctx, prompt)
	if err == nil && text == "" {
		err = apperrors.NewGenerationError("empty response", nil)
	}
	if err != nil {
		var genErr *apperrors.GenerationError
		if !errors.As(err, &genErr) {
			genErr = apperrors.NewGenerationError("generator failed", err)
		}
		if ctx.Err() != nil && genErr.Detail != "request timed out" {
			genErr = apperrors.NewGenerationError("request timed out", err)
		}

		th.Logger.Error("Failed to execute AI query", logrus.Fields{"error": genErr.Error()}, fields)
		return entities.GeneratedReply{
			Success:     false,
			ErrorDetail: genErr.Detail,
			Fallback:    entities.FallbackMessage,
		}
	}

	return entities.GeneratedReply{
		Body:     text,
		Success:  true,
		Fallback: entities.FallbackMessage,
	}
}
