package action

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaFor generates a JSON schema for the argument struct type T.
func SchemaFor[T any]() (json.RawMessage, error) {
	s, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("action: derive schema: %w", err)
	}
	return json.Marshal(s)
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

// resolveFor derives and resolves the schema for T so incoming arguments can
// be validated before unmarshaling.
func resolveFor[T any]() (*jsonschema.Resolved, error) {
	s, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("action: derive schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("action: resolve schema: %w", err)
	}
	return resolved, nil
}

// validateArguments checks a raw argument payload against a resolved schema.
// Empty arguments validate as an empty object, matching how the widget sends
// actions that take no parameters.
func validateArguments(resolved *jsonschema.Resolved, raw string) error {
	if resolved == nil {
		return nil
	}
	if raw == "" {
		raw = "{}"
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return err
	}
	return resolved.Validate(v)
}
