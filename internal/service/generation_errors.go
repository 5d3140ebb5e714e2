package service

import (
	"context"
	"errors"

	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/util"
)

// mapGenerationError translates a collaborator failure into an AppError.
// Caller deadlines win over whatever the provider reported.
func mapGenerationError(ctx context.Context, err error, format string, args ...interface{}) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return util.TimeoutError(err, "Request timed out while waiting for the AI service")
	}

	var (
		exhausted *llm.ErrRetriesExhausted
		unavail   *llm.ErrProviderUnavailable
		limited   *llm.ErrRateLimit
		invalid   *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &invalid):
		return util.GenerationError(err, format, args...)
	case errors.As(err, &exhausted), errors.As(err, &unavail), errors.As(err, &limited):
		return util.ServiceUnavailableError(err, format, args...)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return util.TimeoutError(err, "Request timed out while waiting for the AI service")
	}
	return util.GenerationError(err, format, args...)
}
