// Generator - dispatches one generation call to the backend a model name selects.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Generator binds one GenerationSettings value to backend dispatch.
// Generate does not mutate the Generator, so concurrent calls are independent.
type Generator struct {
	settings GenerationSettings
	policy   InclusionPolicy
	router   Router
	backends map[ProviderType]BackendFactory
	logger   *slog.Logger
}

// NewGenerator creates a generator with default routing, the OmitFalsy policy,
// and backends configured from the environment.
func NewGenerator(settings GenerationSettings) *Generator {
	return &Generator{
		settings: settings,
		policy:   OmitFalsy,
		router:   SelectProvider,
		backends: DefaultBackends(),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Policy sets the inclusion policy for optional settings.
func (g *Generator) Policy(policy InclusionPolicy) *Generator {
	g.policy = policy
	return g
}

// Router replaces the model-name routing strategy.
func (g *Generator) Router(router Router) *Generator {
	if router != nil {
		g.router = router
	}
	return g
}

// Backend registers the factory used for a provider.
func (g *Generator) Backend(provider ProviderType, factory BackendFactory) *Generator {
	if g.backends == nil {
		g.backends = make(map[ProviderType]BackendFactory)
	}
	g.backends[provider] = factory
	return g
}

// Logger sets the structured logger.
func (g *Generator) Logger(logger *slog.Logger) *Generator {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Settings returns the bound settings.
func (g *Generator) Settings() GenerationSettings {
	return g.settings
}

// Generate routes model to one backend, sends exactly one request, and
// returns its result. Backend errors are wrapped, never retried.
func (g *Generator) Generate(ctx context.Context, model string) (Result, error) {
	requestID := uuid.NewString()
	provider := g.router(model)

	factory, ok := g.backends[provider]
	if !ok || factory == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	backend, err := factory()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", provider, err)
	}

	logger := g.logger.With(
		slog.String("request_id", requestID),
		slog.String("provider", backend.Name()),
		slog.String("model", model),
	)
	logger.DebugContext(ctx, "generation started",
		slog.Int("messages", len(g.settings.Messages)),
		slog.Int("tools", len(g.settings.Tools)),
		slog.String("policy", g.policy.String()),
	)

	start := time.Now()
	result, err := backend.Generate(ctx, model, g.settings, g.policy)
	if err != nil {
		logger.DebugContext(ctx, "generation failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return Result{}, err
	}

	result.RequestID = requestID
	logger.DebugContext(ctx, "generation finished",
		slog.Duration("duration", time.Since(start)),
		slog.String("stop_reason", result.StopReason),
	)
	return result, nil
}

// Generate is a one-shot helper: NewGenerator(settings).Generate(ctx, model).
func Generate(ctx context.Context, settings GenerationSettings, model string) (Result, error) {
	return NewGenerator(settings).Generate(ctx, model)
}
