// Command execution for CLI commands.
//
// Information Hiding:
// - Settings assembly from request files, environment and flags
// - Backend credential lookup
// - Output formatting

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/richinex/chatgen/config"
	"github.com/richinex/chatgen/llm"
)

// Options holds CLI execution options. Pointer fields are nil unless the
// corresponding flag was set.
type Options struct {
	Model       string
	Provider    string // forces a backend instead of routing by model name
	RequestFile string
	Prompt      string
	Policy      string
	JSON        bool
	Verbose     bool

	System           string
	MaxTokens        int
	Temperature      *float64
	TopP             *float64
	TopK             *int
	StopTokens       []string
	FrequencyPenalty *float64
	PresencePenalty  *float64
	N                *int
	LogitBias        map[string]float64
	LogProbs         *bool
	TopLogProbs      *int
	Seed             *int
	ServiceTier      string
	ResponseFormat   string // text, json_object
}

// Generate sends one request and writes the generated text to out.
// Verbose logging and token usage go to errOut.
func Generate(ctx context.Context, opts Options, out, errOut io.Writer) error {
	gen, model, err := newGenerator(opts, errOut)
	if err != nil {
		return err
	}

	result, err := gen.Generate(ctx, model)
	if err != nil {
		return err
	}

	if opts.JSON {
		var v any
		if err := result.DecodeJSON(&v); err != nil {
			return err
		}
		return writeJSON(out, v)
	}

	if _, err := fmt.Fprintln(out, result.Text); err != nil {
		return err
	}
	if opts.Verbose && result.Usage != nil {
		if _, err := fmt.Fprintf(errOut, "\n[%s %s] tokens: %d prompt, %d completion, %d total (request %s)\n",
			result.Provider, result.Model,
			result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens,
			result.RequestID); err != nil {
			return err
		}
	}
	return nil
}

// Preview writes the backend request that Generate would send, without sending it.
func Preview(opts Options, out io.Writer) error {
	settings, cfg, err := buildSettings(opts)
	if err != nil {
		return err
	}
	model, provider, err := resolveModel(opts, cfg)
	if err != nil {
		return err
	}
	policy, err := resolvePolicy(opts, cfg)
	if err != nil {
		return err
	}

	preview := map[string]any{
		"provider": provider.String(),
		"policy":   policy.String(),
	}
	switch provider {
	case llm.ProviderAnthropic:
		preview["request"] = llm.BuildAnthropicRequest(model, settings, policy)
	default:
		request, err := llm.BuildOpenAIRequest(model, settings, policy)
		if err != nil {
			return err
		}
		preview["request"] = request
		if unsent := llm.OpenAIUnsentFields(settings, policy); len(unsent) > 0 {
			preview["unsent"] = unsent
		}
	}

	return writeJSON(out, preview)
}

// ListProviders writes the supported providers and their defaults.
func ListProviders(out io.Writer) error {
	for _, name := range config.SupportedProviders() {
		model, err := config.ModelFor(name)
		if err != nil {
			return err
		}
		status := "missing key"
		if _, err := config.APIKeyFor(name); err == nil {
			status = "key set"
		}
		if _, err := fmt.Fprintf(out, "%-10s default model %-28s (%s)\n", name, model, status); err != nil {
			return err
		}
	}
	return nil
}

func newGenerator(opts Options, errOut io.Writer) (*llm.Generator, string, error) {
	settings, cfg, err := buildSettings(opts)
	if err != nil {
		return nil, "", err
	}
	model, provider, err := resolveModel(opts, cfg)
	if err != nil {
		return nil, "", err
	}
	policy, err := resolvePolicy(opts, cfg)
	if err != nil {
		return nil, "", err
	}

	gen := llm.NewGenerator(settings).
		Policy(policy).
		Backend(llm.ProviderOpenAI, backendFromConfig(llm.ProviderOpenAI)).
		Backend(llm.ProviderAnthropic, backendFromConfig(llm.ProviderAnthropic))

	if opts.Provider != "" {
		gen = gen.Router(func(string) llm.ProviderType { return provider })
	}
	if opts.Verbose {
		gen = gen.Logger(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return gen, model, nil
}

// backendFromConfig resolves credentials when the call is made.
func backendFromConfig(provider llm.ProviderType) llm.BackendFactory {
	return func() (llm.Backend, error) {
		key, err := config.APIKeyFor(provider.String())
		if err != nil {
			return nil, err
		}
		baseURL, err := config.BaseURLFor(provider.String())
		if err != nil {
			return nil, err
		}
		return provider.WithKey(key, baseURL)()
	}
}

// buildSettings layers the request file, environment defaults and flags.
func buildSettings(opts Options) (llm.GenerationSettings, config.Settings, error) {
	var settings llm.GenerationSettings
	if opts.RequestFile != "" {
		loaded, err := config.LoadRequest(opts.RequestFile)
		if err != nil {
			return llm.GenerationSettings{}, config.Settings{}, err
		}
		settings = loaded
	}

	cfg, err := config.New(opts.Provider)
	if err != nil {
		return llm.GenerationSettings{}, config.Settings{}, err
	}

	if opts.MaxTokens > 0 {
		settings.MaxTokens = opts.MaxTokens
	}
	if settings.MaxTokens == 0 {
		settings.MaxTokens = cfg.LLM.MaxTokens
	}
	if settings.Temperature == nil {
		settings.Temperature = cfg.LLM.Temperature
	}

	if opts.System != "" {
		settings.System = opts.System
	}
	if opts.Temperature != nil {
		settings.Temperature = opts.Temperature
	}
	if opts.TopP != nil {
		settings.TopP = opts.TopP
	}
	if opts.TopK != nil {
		settings.TopK = opts.TopK
	}
	if opts.StopTokens != nil {
		settings.StopTokens = opts.StopTokens
	}
	if opts.FrequencyPenalty != nil {
		settings.FrequencyPenalty = opts.FrequencyPenalty
	}
	if opts.PresencePenalty != nil {
		settings.PresencePenalty = opts.PresencePenalty
	}
	if opts.N != nil {
		settings.N = opts.N
	}
	if opts.LogitBias != nil {
		settings.LogitBias = opts.LogitBias
	}
	if opts.LogProbs != nil {
		settings.LogProbs = opts.LogProbs
	}
	if opts.TopLogProbs != nil {
		settings.TopLogProbs = opts.TopLogProbs
	}
	if opts.Seed != nil {
		settings.Seed = opts.Seed
	}
	if opts.ServiceTier != "" {
		settings.ServiceTier = llm.ServiceTier(opts.ServiceTier)
	}
	switch llm.ResponseFormatType(opts.ResponseFormat) {
	case "":
	case llm.ResponseFormatText:
		settings.ResponseFormat = llm.NewTextFormat()
	case llm.ResponseFormatJSONObject:
		settings.ResponseFormat = llm.NewJSONObjectFormat()
	default:
		return llm.GenerationSettings{}, config.Settings{}, fmt.Errorf("unsupported response format %q (use a request file for json_schema)", opts.ResponseFormat)
	}

	if opts.Prompt != "" {
		messages := make([]llm.Message, 0, len(settings.Messages)+1)
		messages = append(messages, settings.Messages...)
		settings.Messages = append(messages, llm.UserMessage(opts.Prompt))
	}

	return settings, cfg, nil
}

// resolveModel returns the model to call and the provider that will serve it.
func resolveModel(opts Options, cfg config.Settings) (string, llm.ProviderType, error) {
	model := opts.Model
	if model == "" {
		model = cfg.LLM.Model
	}
	if opts.Provider == "" {
		return model, llm.SelectProvider(model), nil
	}
	provider, err := llm.ParseProviderType(opts.Provider)
	if err != nil {
		return "", 0, err
	}
	return model, provider, nil
}

func resolvePolicy(opts Options, cfg config.Settings) (llm.InclusionPolicy, error) {
	if opts.Policy == "" {
		return cfg.LLM.Policy, nil
	}
	return llm.ParseInclusionPolicy(opts.Policy)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
