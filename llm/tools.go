// Tool definition translation. Both translations are total, order-preserving
// 1:1 maps; an empty list translates to an empty (non-nil) list.

package llm

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// emptyObjectSchema stands in for a missing schema. go-openai always writes
// the parameters key, and the API rejects null there.
var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// ToOpenAITools converts tool definitions to OpenAI function tools.
// A tool without a schema takes no arguments.
func ToOpenAITools(tools []ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		fn := &openai.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  emptyObjectSchema,
		}
		if t.Schema != nil {
			fn.Parameters = t.Schema
		}
		result[i] = openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: fn,
		}
	}
	return result
}

// ToAnthropicTools converts tool definitions to Claude tools.
func ToAnthropicTools(tools []ToolDefinition) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			InputSchema: toAnthropicInputSchema(t.Schema),
		}
		if t.Description != "" {
			toolParam.Description = anthropic.String(t.Description)
		}
		result[i] = anthropic.ToolUnionParam{OfTool: &toolParam}
	}
	return result
}

// toAnthropicInputSchema splits a JSON schema into the SDK's typed fields.
// Keywords other than type/properties/required ride along as extra fields.
func toAnthropicInputSchema(schema map[string]any) anthropic.ToolInputSchemaParam {
	var param anthropic.ToolInputSchemaParam
	if schema == nil {
		return param
	}

	if properties, ok := schema["properties"]; ok {
		param.Properties = properties
	}
	param.Required = stringList(schema["required"])

	extra := make(map[string]any)
	for k, v := range schema {
		switch k {
		case "type", "properties", "required":
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		param.ExtraFields = extra
	}
	return param
}

// stringList accepts both []string and decoded JSON/YAML []any.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		result := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
