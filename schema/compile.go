package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// compileSchema turns a raw schema map into a resolved validator.
func compileSchema(raw map[string]any) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving schema: %w", err)
	}
	return resolved, nil
}

// validate checks raw JSON against a resolved schema and decodes it into out.
// out must be a non-nil pointer.
func validate(resolved *jsonschema.Resolved, targetName string, raw json.RawMessage, out any) error {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return newValidationError(targetName, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := resolved.Validate(generic); err != nil {
		return newValidationError(targetName, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newValidationError(targetName, err)
	}
	return nil
}

// schemaToMap converts a generated schema into a plain map so shape families
// can compose and post-process it uniformly.
func schemaToMap(s *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("normalizing schema: %w", err)
	}
	stripSchemaIDs(m)
	return m, nil
}

// stripSchemaIDs removes $id and $schema keys, which confuse some model
// providers when they appear inside tool parameter schemas.
func stripSchemaIDs(m map[string]any) {
	delete(m, "$id")
	delete(m, "$schema")
	for _, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			stripSchemaIDs(vv)
		case []any:
			for _, item := range vv {
				if im, ok := item.(map[string]any); ok {
					stripSchemaIDs(im)
				}
			}
		}
	}
}

// applyStrictMode walks an object schema and tightens it for tool use:
// every object forbids unknown properties and requires all declared ones.
// Models fill optional fields far more reliably when they are required and
// nullable than when they are genuinely optional.
func applyStrictMode(m map[string]any) {
	if t, _ := m["type"].(string); t == "object" {
		m["additionalProperties"] = false
		if props, ok := m["properties"].(map[string]any); ok {
			required := make([]any, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Slice(required, func(i, j int) bool {
				a, _ := required[i].(string)
				b, _ := required[j].(string)
				return a < b
			})
			m["required"] = required
		}
	}
	for _, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			applyStrictMode(vv)
		case []any:
			for _, item := range vv {
				if im, ok := item.(map[string]any); ok {
					applyStrictMode(im)
				}
			}
		}
	}
}
