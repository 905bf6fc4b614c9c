// Package llm provides the generic generation settings shared by all backends.
package llm

import "encoding/json"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of an already-built conversation.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// ToolDefinition declares a tool the model may reference.
type ToolDefinition struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"` // JSON Schema of the arguments
}

// ServiceTier selects the OpenAI processing tier. Empty means absent.
type ServiceTier string

const (
	ServiceTierAuto    ServiceTier = "auto"
	ServiceTierDefault ServiceTier = "default"
)

// GenerationSettings is the generic parameter bag for a single generation call.
// Optional scalars are pointers so that "not set" can be told apart from zero.
// A settings value carries no backend identity and is read-only once built.
type GenerationSettings struct {
	MaxTokens int       `json:"max_tokens" yaml:"max_tokens"`
	Messages  []Message `json:"messages" yaml:"messages"`

	System string `json:"system,omitempty" yaml:"system,omitempty"`
	// Temperature is on the OpenAI 0-2 scale; the Claude path rescales it.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty" yaml:"top_k,omitempty"` // Claude only
	StopTokens  []string `json:"stop_token,omitempty" yaml:"stop_token,omitempty"`

	// OpenAI only.
	FrequencyPenalty *float64           `json:"frequency_penalty,omitempty" yaml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64           `json:"presence_penalty,omitempty" yaml:"presence_penalty,omitempty"`
	N                *int               `json:"n,omitempty" yaml:"n,omitempty"`
	LogitBias        map[string]float64 `json:"logit_bias,omitempty" yaml:"logit_bias,omitempty"`
	LogProbs         *bool              `json:"logprobs,omitempty" yaml:"logprobs,omitempty"`
	TopLogProbs      *int               `json:"top_logprobs,omitempty" yaml:"top_logprobs,omitempty"`
	Seed             *int               `json:"seed,omitempty" yaml:"seed,omitempty"`
	ServiceTier      ServiceTier        `json:"service_tier,omitempty" yaml:"service_tier,omitempty"`
	ResponseFormat   *ResponseFormat    `json:"response_format,omitempty" yaml:"response_format,omitempty"`

	// Tools is included whenever non-nil, even if empty.
	Tools []ToolDefinition `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// ResponseFormatType defines the type of response format.
type ResponseFormatType string

const (
	ResponseFormatText       ResponseFormatType = "text"
	ResponseFormatJSONObject ResponseFormatType = "json_object"
	ResponseFormatJSONSchema ResponseFormatType = "json_schema"
)

// ResponseFormat specifies how the OpenAI backend should format its response.
type ResponseFormat struct {
	Type       ResponseFormatType `json:"type" yaml:"type"`
	JSONSchema *JSONSchemaFormat  `json:"json_schema,omitempty" yaml:"json_schema,omitempty"`
}

// JSONSchemaFormat defines a JSON schema for structured outputs.
type JSONSchemaFormat struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Strict      bool           `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// NewTextFormat creates a text response format.
func NewTextFormat() *ResponseFormat {
	return &ResponseFormat{Type: ResponseFormatText}
}

// NewJSONObjectFormat creates a JSON object response format.
func NewJSONObjectFormat() *ResponseFormat {
	return &ResponseFormat{Type: ResponseFormatJSONObject}
}

// NewJSONSchemaFormat creates a strict JSON schema response format.
func NewJSONSchemaFormat(name string, schema map[string]any) *ResponseFormat {
	return &ResponseFormat{
		Type: ResponseFormatJSONSchema,
		JSONSchema: &JSONSchemaFormat{
			Name:   name,
			Schema: schema,
			Strict: true,
		},
	}
}

// Result is the uniform outcome of a generation call.
type Result struct {
	// Text is the plain generated text.
	Text string
	// Content is the backend's raw first content element (Claude content block
	// or OpenAI choice message), kept for callers that need non-text output.
	Content json.RawMessage

	Provider   string
	Model      string
	ID         string // backend response id
	RequestID  string // local correlation id
	StopReason string
	Usage      *TokenUsage
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}
