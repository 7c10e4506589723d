package Iservices

import "context"

// ITextGenerator turns a prompt into generated text. Every failure is an
// *apperrors.GenerationError.
type ITextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
