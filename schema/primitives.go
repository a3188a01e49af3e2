package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// mustResolve compiles a statically known schema literal. It panics only on
// programmer error, never on caller input.
func mustResolve(raw map[string]any) *jsonschema.Resolved {
	resolved, err := compileSchema(raw)
	if err != nil {
		panic(fmt.Sprintf("schema: invalid builtin schema: %v", err))
	}
	return resolved
}

type primitiveTarget struct {
	kind         Kind
	name         string
	schema       map[string]any
	resolved     *jsonschema.Resolved
	instructions string
}

func (t *primitiveTarget) Kind() Kind             { return t.kind }
func (t *primitiveTarget) Name() string           { return t.name }
func (t *primitiveTarget) Schema() map[string]any { return t.schema }
func (t *primitiveTarget) Instructions() string   { return t.instructions }

func (t *primitiveTarget) Decode(raw json.RawMessage) (any, error) {
	switch t.kind {
	case KindString:
		var s string
		if err := validate(t.resolved, t.name, raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case KindInt:
		var f float64
		if err := validate(t.resolved, t.name, raw, &f); err != nil {
			return nil, err
		}
		return int(f), nil
	case KindFloat:
		var f float64
		if err := validate(t.resolved, t.name, raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported primitive kind %d", t.kind)
	}
}

// String targets a free-form string value.
func String() Target {
	return &primitiveTarget{
		kind:     KindString,
		name:     "string",
		schema:   map[string]any{"type": "string"},
		resolved: mustResolve(map[string]any{"type": "string"}),
	}
}

// Int targets an integer value.
func Int() Target {
	return &primitiveTarget{
		kind:     KindInt,
		name:     "int",
		schema:   map[string]any{"type": "integer"},
		resolved: mustResolve(map[string]any{"type": "integer"}),
	}
}

// Float targets a floating point value.
func Float() Target {
	return &primitiveTarget{
		kind:     KindFloat,
		name:     "float",
		schema:   map[string]any{"type": "number"},
		resolved: mustResolve(map[string]any{"type": "number"}),
	}
}

type boolTarget struct{}

// Bool targets a boolean value. It is also a two-label set, so boolean
// questions resolve through the single-token classification path: label 0
// decodes to false and label 1 to true.
func Bool() Target { return boolTarget{} }

func (boolTarget) Kind() Kind             { return KindBool }
func (boolTarget) Name() string           { return "bool" }
func (boolTarget) Schema() map[string]any { return map[string]any{"type": "boolean"} }
func (boolTarget) Instructions() string   { return "" }
func (boolTarget) Labels() []string       { return []string{"false", "true"} }

func (boolTarget) Decode(raw json.RawMessage) (any, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, newValidationError("bool", err)
	}
	return b, nil
}

func (boolTarget) DecodeIndex(i int) (any, error) {
	switch i {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, fmt.Errorf("boolean label index %d out of range", i)
	}
}
