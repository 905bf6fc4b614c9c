// Backend interface - the abstract chat-completion capability.
// Each backend implementation hides:
// - API client initialization and authentication
// - Translation of generic settings into its request shape
// - Extraction of a uniform Result from its response

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse is returned when a backend answers with no content.
	ErrEmptyResponse = errors.New("backend returned no content")
	// ErrUnknownProvider is returned when no backend is registered for a provider.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Backend is one chat-completion provider.
type Backend interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Generate sends one request built from settings and returns its result.
	Generate(ctx context.Context, model string, settings GenerationSettings, policy InclusionPolicy) (Result, error)
}

// BackendFactory builds a fresh backend handle for a single call.
type BackendFactory func() (Backend, error)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderOpenAI is the OpenAI provider (GPT models and compatibles).
	ProviderOpenAI ProviderType = iota
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	default:
		return "unknown"
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownProvider, s)
	}
}

// Router picks a provider for a model identifier.
type Router func(model string) ProviderType

// SelectProvider routes any model name containing "claude" (any case) to
// Anthropic. Everything else is assumed to be OpenAI-compatible.
func SelectProvider(model string) ProviderType {
	if strings.Contains(strings.ToLower(model), "claude") {
		return ProviderAnthropic
	}
	return ProviderOpenAI
}
