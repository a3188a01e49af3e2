package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type listTarget struct {
	elem Target
}

// List targets a homogeneous list whose elements match elem.
func List(elem Target) Target { return &listTarget{elem: elem} }

// Elem returns the element target of a list, or nil when t is not a list.
func Elem(t Target) Target {
	if lt, ok := unwrap(t).(*listTarget); ok {
		return lt.elem
	}
	return nil
}

func (t *listTarget) Kind() Kind           { return KindList }
func (t *listTarget) Name() string         { return "[]" + t.elem.Name() }
func (t *listTarget) Instructions() string { return "" }

func (t *listTarget) Schema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": t.elem.Schema(),
	}
}

func (t *listTarget) Decode(raw json.RawMessage) (any, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, newValidationError(t.Name(), fmt.Errorf("expected a JSON array: %w", err))
	}
	out := make([]any, len(items))
	for i, item := range items {
		v, err := t.elem.Decode(item)
		if err != nil {
			return nil, newValidationError(t.Name(), fmt.Errorf("element %d: %w", i, err))
		}
		out[i] = v
	}
	return out, nil
}

type mapTarget struct {
	key   Target
	value Target
}

// Map targets a mapping from key to value. JSON object keys are strings on
// the wire; an Int key target parses them back into ints after validation.
func Map(key, value Target) Target { return &mapTarget{key: key, value: value} }

// KeyValue returns the key and value targets of a map, or nils when t is not
// a map.
func KeyValue(t Target) (Target, Target) {
	if mt, ok := unwrap(t).(*mapTarget); ok {
		return mt.key, mt.value
	}
	return nil, nil
}

func (t *mapTarget) Kind() Kind           { return KindMap }
func (t *mapTarget) Name() string         { return fmt.Sprintf("map[%s]%s", t.key.Name(), t.value.Name()) }
func (t *mapTarget) Instructions() string { return "" }

func (t *mapTarget) Schema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": t.value.Schema(),
	}
}

func (t *mapTarget) Decode(raw json.RawMessage) (any, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, newValidationError(t.Name(), fmt.Errorf("expected a JSON object: %w", err))
	}
	if t.key.Kind() == KindInt {
		out := make(map[int]any, len(entries))
		for k, v := range entries {
			ki, err := strconv.Atoi(k)
			if err != nil {
				return nil, newValidationError(t.Name(), fmt.Errorf("key %q is not an integer", k))
			}
			dv, err := t.value.Decode(v)
			if err != nil {
				return nil, newValidationError(t.Name(), fmt.Errorf("value for key %q: %w", k, err))
			}
			out[ki] = dv
		}
		return out, nil
	}
	out := make(map[string]any, len(entries))
	for k, v := range entries {
		dv, err := t.value.Decode(v)
		if err != nil {
			return nil, newValidationError(t.Name(), fmt.Errorf("value for key %q: %w", k, err))
		}
		out[k] = dv
	}
	return out, nil
}
