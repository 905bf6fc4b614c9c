package llm

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func buildOpenAI(t *testing.T, model string, settings GenerationSettings, policy InclusionPolicy) openai.ChatCompletionRequest {
	t.Helper()
	req, err := BuildOpenAIRequest(model, settings, policy)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}

func wireFields(t *testing.T, req openai.ChatCompletionRequest) map[string]any {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return wire
}

func TestBuildOpenAIRequestMinimal(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens: 100,
		Messages:  []Message{UserMessage("hi")},
	}
	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)

	if req.Model != "gpt-4o" || req.MaxTokens != 100 {
		t.Errorf("unexpected model/max tokens: %q %d", req.Model, req.MaxTokens)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != openai.ChatMessageRoleUser || req.Messages[0].Content != "hi" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
	if req.Temperature != 0 || req.TopP != 0 || req.N != 0 || req.Seed != nil {
		t.Error("optional scalars must be omitted")
	}
	if req.Stop != nil || req.LogitBias != nil || req.Tools != nil || req.ResponseFormat != nil {
		t.Error("optional collections must be omitted")
	}
	if req.ServiceTier != "" {
		t.Error("service tier must be omitted")
	}
}

func TestBuildOpenAIRequestSystemFirst(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens: 10,
		System:    "You are helpful",
	}
	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)

	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[0].Content != "You are helpful" {
		t.Errorf("expected system message first, got %+v", req.Messages[0])
	}
}

func TestBuildOpenAIRequestPreservesEmbeddedSystem(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens: 10,
		System:    "first",
		Messages:  []Message{UserMessage("hi"), SystemMessage("embedded"), AssistantMessage("ok")},
	}
	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)

	roles := []string{openai.ChatMessageRoleSystem, openai.ChatMessageRoleUser, openai.ChatMessageRoleSystem, openai.ChatMessageRoleAssistant}
	if len(req.Messages) != len(roles) {
		t.Fatalf("expected %d messages, got %d", len(roles), len(req.Messages))
	}
	for i, role := range roles {
		if req.Messages[i].Role != role {
			t.Errorf("message %d: expected role %q, got %q", i, role, req.Messages[i].Role)
		}
	}
}

func TestBuildOpenAIRequestFalsyOmission(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens:   10,
		Messages:    []Message{UserMessage("hi")},
		LogitBias:   map[string]float64{},
		N:           Int(0),
		Seed:        Int(0),
		LogProbs:    Bool(false),
		StopTokens:  []string{},
		Temperature: Float(0),
	}

	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)
	if req.LogitBias != nil {
		t.Error("empty logit_bias must be omitted")
	}
	if req.N != 0 {
		t.Error("n=0 must be omitted")
	}
	if req.Seed != nil {
		t.Error("seed=0 must be omitted under OmitFalsy")
	}
	if req.Stop != nil {
		t.Error("empty stop list must be omitted")
	}

	req = buildOpenAI(t, "gpt-4o", settings, OmitAbsent)
	if req.Seed == nil || *req.Seed != 0 {
		t.Error("seed=0 must be sent under OmitAbsent")
	}
	if req.LogitBias == nil {
		t.Error("empty logit_bias must be kept under OmitAbsent")
	}
}

func TestBuildOpenAIRequestOptionalFields(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens:        10,
		Messages:         []Message{UserMessage("hi")},
		Temperature:      Float(1.0),
		TopP:             Float(0.5),
		TopK:             Int(40),
		StopTokens:       []string{"END"},
		FrequencyPenalty: Float(0.25),
		PresencePenalty:  Float(-0.5),
		N:                Int(2),
		LogitBias:        map[string]float64{"50256": -99.6},
		LogProbs:         Bool(true),
		TopLogProbs:      Int(3),
		Seed:             Int(42),
		ServiceTier:      ServiceTierAuto,
		ResponseFormat:   NewJSONObjectFormat(),
	}
	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)

	if req.Temperature != 1.0 {
		t.Errorf("temperature must not be rescaled on OpenAI, got %v", req.Temperature)
	}
	if req.TopP != 0.5 || req.FrequencyPenalty != 0.25 || req.PresencePenalty != -0.5 {
		t.Errorf("unexpected floats: %v %v %v", req.TopP, req.FrequencyPenalty, req.PresencePenalty)
	}
	if len(req.Stop) != 1 || req.Stop[0] != "END" {
		t.Errorf("unexpected stop: %v", req.Stop)
	}
	if req.N != 2 || !req.LogProbs || req.TopLogProbs != 3 {
		t.Errorf("unexpected n/logprobs: %d %v %d", req.N, req.LogProbs, req.TopLogProbs)
	}
	if req.LogitBias["50256"] != -100 {
		t.Errorf("expected rounded logit bias -100, got %v", req.LogitBias)
	}
	if req.Seed == nil || *req.Seed != 42 {
		t.Errorf("unexpected seed: %v", req.Seed)
	}
	if string(req.ServiceTier) != "auto" {
		t.Errorf("unexpected service tier %q", req.ServiceTier)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("unexpected response format: %+v", req.ResponseFormat)
	}

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := wire["top_k"]; ok {
		t.Error("top_k is Claude only and must not reach OpenAI")
	}
}

func TestBuildOpenAIRequestJSONSchemaFormat(t *testing.T) {
	format := NewJSONSchemaFormat("weather", map[string]any{
		"type":       "object",
		"properties": map[string]any{"city": map[string]any{"type": "string"}},
	})
	format.JSONSchema.Description = "Weather report"

	settings := GenerationSettings{
		MaxTokens:      10,
		Messages:       []Message{UserMessage("hi")},
		ResponseFormat: format,
	}
	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)

	rf := req.ResponseFormat
	if rf == nil || rf.Type != openai.ChatCompletionResponseFormatTypeJSONSchema || rf.JSONSchema == nil {
		t.Fatalf("unexpected response format: %+v", rf)
	}
	if rf.JSONSchema.Name != "weather" || rf.JSONSchema.Description != "Weather report" || !rf.JSONSchema.Strict {
		t.Errorf("unexpected schema bundle: %+v", rf.JSONSchema)
	}

	raw, err := rf.JSONSchema.Schema.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("schema not carried through: %s", raw)
	}
}

func TestBuildOpenAIRequestUnencodableSchema(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens:      10,
		Messages:       []Message{UserMessage("hi")},
		ResponseFormat: NewJSONSchemaFormat("broken", map[string]any{"type": make(chan int)}),
	}
	if _, err := BuildOpenAIRequest("gpt-4o", settings, OmitFalsy); err == nil {
		t.Fatal("expected schema encoding error")
	}
}

func TestBuildOpenAIRequestEmptyTools(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens: 10,
		Messages:  []Message{UserMessage("hi")},
		Tools:     []ToolDefinition{},
	}
	req := buildOpenAI(t, "gpt-4o", settings, OmitFalsy)
	if req.Tools == nil || len(req.Tools) != 0 {
		t.Errorf("expected empty non-nil tools, got %#v", req.Tools)
	}
	// go-openai tags tools omitempty
	if _, ok := wireFields(t, req)["tools"]; ok {
		t.Error("empty tools list is not expected on the wire")
	}
}

func TestOpenAIUnsentFields(t *testing.T) {
	settings := GenerationSettings{
		MaxTokens:        10,
		Messages:         []Message{UserMessage("hi")},
		Temperature:      Float(0),
		TopP:             Float(0.5),
		FrequencyPenalty: Float(0),
		N:                Int(0),
		LogProbs:         Bool(false),
		StopTokens:       []string{},
		Seed:             Int(0),
	}

	if got := OpenAIUnsentFields(settings, OmitFalsy); got != nil {
		t.Errorf("OmitFalsy drops zeros by policy, got %v", got)
	}

	got := OpenAIUnsentFields(settings, OmitAbsent)
	want := []string{"temperature", "stop", "frequency_penalty", "n", "logprobs"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	wire := wireFields(t, buildOpenAI(t, "gpt-4o", settings, OmitAbsent))
	for i, name := range want {
		if got[i] != name {
			t.Errorf("field %d: expected %q, got %q", i, name, got[i])
		}
		if _, ok := wire[name]; ok {
			t.Errorf("%s reported unsent but present on the wire", name)
		}
	}
	if wire["seed"] != float64(0) {
		t.Errorf("seed=0 must reach the wire under OmitAbsent, got %v", wire["seed"])
	}
}
