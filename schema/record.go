package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

type recordTarget[T any] struct {
	name     string
	schema   map[string]any
	resolved *jsonschema.Resolved
}

// Record targets a structured record backed by the Go struct T. The JSON
// Schema is generated from T's fields and json tags, tightened so every
// declared property is required and unknown properties are rejected.
func Record[T any]() (Target, error) {
	generated, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("generating schema for %T: %w", *new(T), err)
	}
	raw, err := schemaToMap(generated)
	if err != nil {
		return nil, err
	}
	applyStrictMode(raw)
	resolved, err := compileSchema(raw)
	if err != nil {
		return nil, err
	}
	return &recordTarget[T]{
		name:     recordName[T](),
		schema:   raw,
		resolved: resolved,
	}, nil
}

// MustRecord is Record but panics on schema generation failure. Use it for
// struct types known at compile time.
func MustRecord[T any]() Target {
	t, err := Record[T]()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *recordTarget[T]) Kind() Kind             { return KindRecord }
func (t *recordTarget[T]) Name() string           { return t.name }
func (t *recordTarget[T]) Schema() map[string]any { return t.schema }
func (t *recordTarget[T]) Instructions() string   { return "" }

func (t *recordTarget[T]) Decode(raw json.RawMessage) (any, error) {
	var v T
	if err := validate(t.resolved, t.name, raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// typeConstraints surfaces constraints declared on the struct type itself.
func (t *recordTarget[T]) typeConstraints() []string {
	var v T
	if cp, ok := any(v).(ConstraintProvider); ok {
		return cp.Constraints()
	}
	if cp, ok := any(&v).(ConstraintProvider); ok {
		return cp.Constraints()
	}
	return nil
}

func recordName[T any]() string {
	rt := reflect.TypeOf(*new(T))
	if rt == nil {
		return "record"
	}
	name := rt.Name()
	if name == "" {
		name = rt.String()
	}
	// Trim package qualifiers so prompts read naturally.
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Decode decodes and validates raw JSON produced for target t into a typed
// value. It is the typed convenience over Target.Decode.
func Decode[T any](t Target, raw json.RawMessage) (T, error) {
	var zero T
	v, err := t.Decode(raw)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		// Composite targets decode to []any / map[string]any. Round-trip
		// through JSON to reach the caller's concrete type.
		data, merr := json.Marshal(v)
		if merr != nil {
			return zero, fmt.Errorf("decoded value is %T, not %T", v, zero)
		}
		if uerr := json.Unmarshal(data, &typed); uerr != nil {
			return zero, fmt.Errorf("decoded value is %T, not %T: %w", v, zero, uerr)
		}
	}
	return typed, nil
}
