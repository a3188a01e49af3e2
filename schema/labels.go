package schema

import (
	"encoding/json"
	"fmt"
)

type labelsTarget struct {
	name   string
	labels []string
	decode func(i int) (any, error)
}

// Labels targets one of a fixed, ordered set of label strings. Choosing
// label i decodes to labels[i]. Label order is part of the target's
// identity: the classifier presents labels numbered from 0 in this order.
func Labels(labels ...string) Target {
	copied := append([]string(nil), labels...)
	return &labelsTarget{
		name:   "label",
		labels: copied,
		decode: func(i int) (any, error) { return copied[i], nil },
	}
}

// Enum targets one member of a string-typed enumeration. Choosing label i
// decodes to members[i] with its original type.
func Enum[T ~string](members ...T) Target {
	labels := make([]string, len(members))
	for i, m := range members {
		labels[i] = string(m)
	}
	copied := append([]T(nil), members...)
	return &labelsTarget{
		name:   "enum",
		labels: labels,
		decode: func(i int) (any, error) { return copied[i], nil },
	}
}

func (t *labelsTarget) Kind() Kind           { return KindLabels }
func (t *labelsTarget) Name() string         { return t.name }
func (t *labelsTarget) Instructions() string { return "" }
func (t *labelsTarget) Labels() []string     { return t.labels }

func (t *labelsTarget) Schema() map[string]any {
	values := make([]any, len(t.labels))
	for i, l := range t.labels {
		values[i] = l
	}
	return map[string]any{"type": "string", "enum": values}
}

func (t *labelsTarget) Decode(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, newValidationError(t.name, err)
	}
	for i, l := range t.labels {
		if l == s {
			return t.decode(i)
		}
	}
	return nil, newValidationError(t.name, fmt.Errorf("%q is not one of the allowed labels", s))
}

func (t *labelsTarget) DecodeIndex(i int) (any, error) {
	if i < 0 || i >= len(t.labels) {
		return nil, fmt.Errorf("label index %d out of range [0, %d)", i, len(t.labels))
	}
	return t.decode(i)
}
