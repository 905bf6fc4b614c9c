// Anthropic backend using the official anthropic-sdk-go.
//
// Information Hiding:
// - API endpoint and authentication
// - Request format for the Anthropic Messages API
// - Temperature rescaling onto Claude's 0-1 range

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeTemperatureScale maps the generic 0-2 temperature onto Claude's 0-1 range.
const ClaudeTemperatureScale = 0.5

// GenericToClaudeTemperature converts a generic (OpenAI scale) temperature.
func GenericToClaudeTemperature(t float64) float64 {
	return t * ClaudeTemperatureScale
}

// AnthropicProvider implements Backend for Anthropic Claude.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic backend. An empty apiKey
// leaves the SDK to read ANTHROPIC_API_KEY; an empty baseURL keeps the default endpoint.
func NewAnthropicProvider(apiKey, baseURL string, opts ...option.RequestOption) *AnthropicProvider {
	var clientOpts []option.RequestOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &AnthropicProvider{client: anthropic.NewClient(clientOpts...)}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic.String()
}

// Generate sends one Messages API request.
func (p *AnthropicProvider) Generate(ctx context.Context, model string, settings GenerationSettings, policy InclusionPolicy) (Result, error) {
	params := BuildAnthropicRequest(model, settings, policy)

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("anthropic generation failed: %w", err)
	}
	return anthropicResult(message)
}

// BuildAnthropicRequest translates generic settings into a Messages API request.
// Only parameters Claude supports are considered; OpenAI-only settings are dropped.
func BuildAnthropicRequest(model string, settings GenerationSettings, policy InclusionPolicy) anthropic.MessageNewParams {
	messages, system := convertToAnthropicMessages(settings.Messages, settings.System)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(settings.MaxTokens),
		Messages:  messages,
	}

	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: system},
		}
	}
	if t, ok := pick(policy, settings.Temperature); ok {
		params.Temperature = anthropic.Float(GenericToClaudeTemperature(t))
	}
	// Stop sequences follow presence like tools: a set but empty list is sent.
	if settings.StopTokens != nil {
		params.StopSequences = settings.StopTokens
	}
	if topP, ok := pick(policy, settings.TopP); ok {
		params.TopP = anthropic.Float(topP)
	}
	if topK, ok := pick(policy, settings.TopK); ok {
		params.TopK = anthropic.Int(int64(topK))
	}
	if settings.Tools != nil {
		params.Tools = ToAnthropicTools(settings.Tools)
	}

	return params
}

// convertToAnthropicMessages maps user/assistant turns role-for-role.
// System-role turns are never sent as messages; they are appended to the
// system prompt instead. Other roles are dropped.
func convertToAnthropicMessages(messages []Message, system string) ([]anthropic.MessageParam, string) {
	anthropicMessages := make([]anthropic.MessageParam, 0, len(messages))
	systemParts := make([]string, 0, 1)
	if system != "" {
		systemParts = append(systemParts, system)
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if msg.Content != "" {
				systemParts = append(systemParts, msg.Content)
			}
		case RoleUser:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case RoleAssistant:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	return anthropicMessages, strings.Join(systemParts, "\n\n")
}

// anthropicResult keeps the first content block raw and the first text block as Text.
func anthropicResult(message *anthropic.Message) (Result, error) {
	if message == nil || len(message.Content) == 0 {
		return Result{}, ErrEmptyResponse
	}

	text := ""
	for _, block := range message.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text = variant.Text
			break
		}
	}

	var raw json.RawMessage
	if r := message.Content[0].RawJSON(); r != "" {
		raw = json.RawMessage(r)
	}

	var usage *TokenUsage
	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		usage = &TokenUsage{
			PromptTokens:     uint32(message.Usage.InputTokens),
			CompletionTokens: uint32(message.Usage.OutputTokens),
			TotalTokens:      uint32(message.Usage.InputTokens + message.Usage.OutputTokens),
		}
	}

	return Result{
		Text:       text,
		Content:    raw,
		Provider:   ProviderAnthropic.String(),
		Model:      string(message.Model),
		ID:         message.ID,
		StopReason: string(message.StopReason),
		Usage:      usage,
	}, nil
}

// Verify AnthropicProvider implements Backend
var _ Backend = (*AnthropicProvider)(nil)
