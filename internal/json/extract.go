// Package json extracts JSON values from model output.
//
// Models asked for JSON often wrap it in a markdown fence or add a sentence
// before or after it. Extract recovers the value in those cases.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no valid JSON value can be found.
var ErrNoJSON = errors.New("no valid JSON found")

// Extract returns the JSON portion of text. It tries, in order:
// the whole text, the contents of a ``` fence, and the span between the
// first opening and last matching closing bracket ({...} or [...]).
func Extract(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) && trimmed != "" {
		return trimmed, nil
	}

	if fenced, ok := fencedBlock(trimmed); ok && json.Valid([]byte(fenced)) {
		return fenced, nil
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(trimmed, pair[0])
		end := strings.LastIndex(trimmed, pair[1])
		if start != -1 && end > start {
			candidate := trimmed[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
	}

	preview := trimmed
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("%w in %q", ErrNoJSON, preview)
}

// Decode extracts JSON from text and unmarshals it into v.
func Decode(text string, v any) error {
	raw, err := Extract(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// fencedBlock returns the body of the first ``` fence, skipping a language tag.
func fencedBlock(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open == -1 {
		return "", false
	}
	body := text[open+3:]
	if nl := strings.Index(body, "\n"); nl != -1 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	end := strings.Index(body, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}
