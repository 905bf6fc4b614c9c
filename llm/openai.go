// OpenAI backend using the go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request format for the OpenAI Chat Completions API
// - System prompt placement as a leading message

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Backend for OpenAI and compatible endpoints.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI backend. An empty baseURL keeps the default endpoint.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg)}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI.String()
}

// Generate sends one chat completion request.
func (p *OpenAIProvider) Generate(ctx context.Context, model string, settings GenerationSettings, policy InclusionPolicy) (Result, error) {
	req, err := BuildOpenAIRequest(model, settings, policy)
	if err != nil {
		return Result{}, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("openai generation failed: %w", err)
	}
	return openAIResult(resp)
}

// BuildOpenAIRequest translates generic settings into a chat completion request.
// Claude-only settings (top_k) are dropped.
func BuildOpenAIRequest(model string, settings GenerationSettings, policy InclusionPolicy) (openai.ChatCompletionRequest, error) {
	req := openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: settings.MaxTokens,
		Messages:  convertToOpenAIMessages(settings.Messages, settings.System),
	}

	if t, ok := pick(policy, settings.Temperature); ok {
		req.Temperature = float32(t)
	}
	if keepSlice(policy, settings.StopTokens) {
		req.Stop = settings.StopTokens
	}
	if v, ok := pick(policy, settings.FrequencyPenalty); ok {
		req.FrequencyPenalty = float32(v)
	}
	if v, ok := pick(policy, settings.PresencePenalty); ok {
		req.PresencePenalty = float32(v)
	}
	if v, ok := pick(policy, settings.TopP); ok {
		req.TopP = float32(v)
	}
	if v, ok := pick(policy, settings.N); ok {
		req.N = v
	}
	if keepMap(policy, settings.LogitBias) {
		req.LogitBias = convertLogitBias(settings.LogitBias)
	}
	if v, ok := pick(policy, settings.LogProbs); ok {
		req.LogProbs = v
	}
	if v, ok := pick(policy, settings.TopLogProbs); ok {
		req.TopLogProbs = v
	}
	if v, ok := pick(policy, settings.Seed); ok {
		req.Seed = &v
	}
	if settings.ServiceTier != "" {
		req.ServiceTier = openai.ServiceTier(settings.ServiceTier)
	}
	if settings.ResponseFormat != nil {
		format, err := convertResponseFormat(settings.ResponseFormat)
		if err != nil {
			return openai.ChatCompletionRequest{}, err
		}
		req.ResponseFormat = format
	}
	// An empty list is translated, but go-openai omits empty tools on the wire.
	if settings.Tools != nil {
		req.Tools = ToOpenAITools(settings.Tools)
	}

	return req, nil
}

// OpenAIUnsentFields names the explicitly set settings that go-openai
// leaves off the wire because their value is zero. Under OmitFalsy these
// are dropped by the policy anyway, so the list is only non-empty for
// OmitAbsent.
func OpenAIUnsentFields(settings GenerationSettings, policy InclusionPolicy) []string {
	if policy != OmitAbsent {
		return nil
	}

	var unsent []string
	zero := func(name string, isZero bool) {
		if isZero {
			unsent = append(unsent, name)
		}
	}
	zero("temperature", settings.Temperature != nil && *settings.Temperature == 0)
	zero("stop", settings.StopTokens != nil && len(settings.StopTokens) == 0)
	zero("frequency_penalty", settings.FrequencyPenalty != nil && *settings.FrequencyPenalty == 0)
	zero("presence_penalty", settings.PresencePenalty != nil && *settings.PresencePenalty == 0)
	zero("top_p", settings.TopP != nil && *settings.TopP == 0)
	zero("n", settings.N != nil && *settings.N == 0)
	zero("logit_bias", settings.LogitBias != nil && len(settings.LogitBias) == 0)
	zero("logprobs", settings.LogProbs != nil && !*settings.LogProbs)
	zero("top_logprobs", settings.TopLogProbs != nil && *settings.TopLogProbs == 0)
	return unsent
}

// convertToOpenAIMessages prepends the system prompt, then appends every
// message with its role preserved.
func convertToOpenAIMessages(messages []Message, system string) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return result
}

// convertLogitBias rounds biases to the integer wire type go-openai uses.
func convertLogitBias(bias map[string]float64) map[string]int {
	result := make(map[string]int, len(bias))
	for token, b := range bias {
		result[token] = int(math.Round(b))
	}
	return result
}

func convertResponseFormat(format *ResponseFormat) (*openai.ChatCompletionResponseFormat, error) {
	result := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatType(format.Type),
	}
	if format.Type == ResponseFormatJSONSchema && format.JSONSchema != nil {
		schema := &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        format.JSONSchema.Name,
			Description: format.JSONSchema.Description,
			Strict:      format.JSONSchema.Strict,
		}
		if format.JSONSchema.Schema != nil {
			raw, err := json.Marshal(format.JSONSchema.Schema)
			if err != nil {
				return nil, fmt.Errorf("response format %q: encode schema: %w", format.JSONSchema.Name, err)
			}
			schema.Schema = json.RawMessage(raw)
		}
		result.JSONSchema = schema
	}
	return result, nil
}

// openAIResult returns the first choice's message content.
func openAIResult(resp openai.ChatCompletionResponse) (Result, error) {
	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyResponse
	}
	choice := resp.Choices[0]

	var raw json.RawMessage
	if b, err := json.Marshal(choice.Message); err == nil {
		raw = b
	}

	return Result{
		Text:       choice.Message.Content,
		Content:    raw,
		Provider:   ProviderOpenAI.String(),
		Model:      resp.Model,
		ID:         resp.ID,
		StopReason: string(choice.FinishReason),
		Usage: &TokenUsage{
			PromptTokens:     uint32(resp.Usage.PromptTokens),
			CompletionTokens: uint32(resp.Usage.CompletionTokens),
			TotalTokens:      uint32(resp.Usage.TotalTokens),
		},
	}, nil
}

// Verify OpenAIProvider implements Backend
var _ Backend = (*OpenAIProvider)(nil)
