package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/richinex/chatgen/llm"
)

// LoadRequest reads a YAML (or JSON) request document into generation settings.
// Unknown keys are rejected so typos do not silently drop a parameter.
func LoadRequest(path string) (llm.GenerationSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.GenerationSettings{}, fmt.Errorf("read request %s: %w", path, err)
	}
	settings, err := ParseRequest(data)
	if err != nil {
		return llm.GenerationSettings{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return settings, nil
}

// ParseRequest decodes a request document.
func ParseRequest(data []byte) (llm.GenerationSettings, error) {
	var settings llm.GenerationSettings

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return llm.GenerationSettings{}, err
	}
	return settings, nil
}
