package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

const (
	PurposeSkillAnalysis  = "skill_analysis"
	PurposeQuizGeneration = "quiz_generation"
)

// WithPurpose attaches a purpose label used for logging and metrics.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
