// Backend factories that read credentials from the environment.
//
// Quick Start:
//
//	settings := llm.GenerationSettings{
//	    MaxTokens: 256,
//	    Messages:  []llm.Message{llm.UserMessage("hi")},
//	}
//	result, err := llm.NewGenerator(settings).Generate(ctx, "claude-sonnet-4-20250514")
//
//	// Explicit backend, e.g. a gateway
//	gen := llm.NewGenerator(settings).
//	    Backend(llm.ProviderOpenAI, llm.ProviderOpenAI.WithKey("sk-...", "https://gateway/v1"))

package llm

import (
	"fmt"
	"os"
)

// EnvVar returns the environment variable name for this provider's API key.
func (p ProviderType) EnvVar() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// BaseURLEnvVar returns the environment variable overriding the endpoint.
func (p ProviderType) BaseURLEnvVar() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_BASE_URL"
	case ProviderAnthropic:
		return "ANTHROPIC_BASE_URL"
	default:
		return ""
	}
}

// FromEnv returns a factory reading the API key and base URL at call time.
func (p ProviderType) FromEnv() BackendFactory {
	return func() (Backend, error) {
		envVar := p.EnvVar()
		apiKey := os.Getenv(envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable not set", envVar)
		}
		return p.build(apiKey, os.Getenv(p.BaseURLEnvVar()))
	}
}

// WithKey returns a factory using an explicit API key and optional base URL.
func (p ProviderType) WithKey(apiKey, baseURL string) BackendFactory {
	return func() (Backend, error) {
		return p.build(apiKey, baseURL)
	}
}

func (p ProviderType) build(apiKey, baseURL string) (Backend, error) {
	switch p {
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, baseURL), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownProvider, p)
	}
}

// DefaultBackends returns environment-configured factories for both providers.
func DefaultBackends() map[ProviderType]BackendFactory {
	return map[ProviderType]BackendFactory{
		ProviderOpenAI:    ProviderOpenAI.FromEnv(),
		ProviderAnthropic: ProviderAnthropic.FromEnv(),
	}
}

// Model identifier constants.
const (
	ModelOpenAIGPT4o            = "gpt-4o"
	ModelOpenAIGPT4oMini        = "gpt-4o-mini"
	ModelAnthropicClaudeSonnet4 = "claude-sonnet-4-20250514"
	ModelAnthropicClaudeHaiku45 = "claude-haiku-4-5-20251001"
)
