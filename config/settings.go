// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/richinex/chatgen/llm"
)

// Settings holds all application configuration.
type Settings struct {
	LLM LLMConfig
}

// LLMConfig holds generation defaults for the selected provider.
type LLMConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature *float64 // nil when LLM_TEMPERATURE is unset
	Policy      llm.InclusionPolicy
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
	baseURLEnv   string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", llm.ModelOpenAIGPT4o, llm.ProviderOpenAI.EnvVar(), llm.ProviderOpenAI.BaseURLEnvVar()},
	"anthropic": {"ANTHROPIC_MODEL", llm.ModelAnthropicClaudeSonnet4, llm.ProviderAnthropic.EnvVar(), llm.ProviderAnthropic.BaseURLEnvVar()},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"gpt":    "openai",
}

// New creates settings for the specified provider, loading values from environment variables.
// An empty provider defaults to openai.
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New(provider string) (Settings, error) {
	if provider == "" {
		provider = "openai"
	}
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvInt("LLM_MAX_TOKENS", 1024)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64Ptr("LLM_TEMPERATURE")
	if err != nil {
		return Settings{}, err
	}

	policy, err := llm.ParseInclusionPolicy(os.Getenv("LLM_INCLUSION_POLICY"))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid value for LLM_INCLUSION_POLICY: %w", err)
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			Model:       model,
			BaseURL:     os.Getenv(info.baseURLEnv),
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Policy:      policy,
		},
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// BaseURLFor returns the endpoint override for a provider, or "" for the default.
func BaseURLFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}
	return os.Getenv(info.baseURLEnv), nil
}

// SupportedProviders returns the sorted list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvFloat64Ptr(key string) (*float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return &f, nil
}
