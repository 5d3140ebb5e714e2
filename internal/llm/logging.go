package llm

import (
	"context"
	"time"

	"skill_extractor_backend/pkg/logger"
	"skill_extractor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// LoggingProvider is a decorator that logs every round-trip and records
// request metrics.
type LoggingProvider struct {
	inner Provider
}

// WithLogging wraps a Provider with structured logging and metrics.
func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	elapsed := time.Since(start)
	monitoring.ObserveLLM(purpose, elapsed, err)

	fields := []zap.Field{
		zap.String("purpose", purpose),
		zap.String("model", l.inner.ModelID()),
		zap.Duration("latency", elapsed),
		zap.Int("prompt_chars", promptLength(req)),
	}
	if resp != nil {
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
			zap.String("stop_reason", resp.StopReason),
		)
	}

	if err != nil {
		logger.Log.Warn("LLM request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	logger.Log.Info("LLM request completed", fields...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func promptLength(req Request) int {
	n := len(req.System)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n
}
