package llm

import (
	"fmt"

	jsonx "github.com/richinex/chatgen/internal/json"
)

// DecodeJSON extracts the JSON value from Text into v. Markdown fences and
// surrounding prose are tolerated, which suits JSON response formats.
func (r Result) DecodeJSON(v any) error {
	if err := jsonx.Decode(r.Text, v); err != nil {
		return fmt.Errorf("decode %s result: %w", r.Provider, err)
	}
	return nil
}
