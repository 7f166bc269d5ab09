package plugin

import (
	"context"
	"encoding/json"
)

// TransformOptions carries the caller's intent for a Transform call: a
// JSON schema for /extract-schema, or a max length for /summarize. Both
// are zero for a plain /scrape.
type TransformOptions struct {
	Schema    json.RawMessage
	MaxLength int
}

// Transformer is the LLM extraction/summarization hook behind
// `/extract-schema` and `/summarize`. The core ships no LLM client of
// its own and reads no LLM_* env vars, so every concrete Transformer
// lives outside this module; Noop is the only implementation shipped
// here.
type Transformer interface {
	Transform(ctx context.Context, markdown string, opts TransformOptions) (json.RawMessage, error)
}

// Noop returns the input markdown unchanged, wrapped as a JSON string.
// It is the default Transformer when no LLM plugin is configured.
type Noop struct{}

func (Noop) Transform(_ context.Context, markdown string, _ TransformOptions) (json.RawMessage, error) {
	return json.Marshal(markdown)
}
