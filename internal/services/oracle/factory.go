package oracle

import (
	"context"

	"TruthSource/internal/domain/repository"
	"TruthSource/internal/domain/service"
	"TruthSource/pkg/config"
	"TruthSource/pkg/logger"
)

// New builds the configured backend wrapped in a Guarded deadline. A backend
// that cannot be built degrades to Unconfigured so the process still serves
// health checks and answers analysis calls with 503.
func New(ctx context.Context, cfg *config.Config, l *logger.Logger, m repository.Metrics) service.Oracle {
	oc := cfg.Oracle
	var backend service.Oracle

	switch {
	case !cfg.OracleConfigured():
		l.Warn("oracle not configured, analysis endpoints will be unavailable",
			logger.String("provider", oc.Provider))
		backend = NewUnconfigured(oc.Provider, ErrNotConfigured)
	case oc.Provider == config.ProviderOpenAI:
		backend = NewOpenAI(OpenAIConfig{
			BaseURL:     oc.BaseURL,
			Model:       oc.Model,
			APIKey:      oc.APIKey,
			Temperature: oc.Temperature,
			MaxAttempts: oc.MaxAttempts,
			Timeout:     oc.Timeout,
		}, l)
	case oc.Provider == config.ProviderGemini:
		g, err := NewGemini(ctx, GeminiConfig{
			Model:       oc.Model,
			APIKey:      oc.APIKey,
			Temperature: oc.Temperature,
			MaxAttempts: oc.MaxAttempts,
		}, l)
		if err != nil {
			l.Error("gemini oracle init failed", logger.Error(err))
			backend = NewUnconfigured(oc.Provider, err)
		} else {
			backend = g
		}
	default:
		backend = NewUnconfigured(oc.Provider, ErrNotConfigured)
	}

	return NewGuarded(backend, oc.Timeout, m, l)
}

// Ready reports whether o can serve calls at all.
func Ready(o service.Oracle) bool {
	if g, ok := o.(*Guarded); ok {
		o = g.next
	}
	_, down := o.(*Unconfigured)
	return !down
}
