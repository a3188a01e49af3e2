package schema

import (
	"encoding/json"
	"fmt"
)

type slotsTarget struct {
	slots []string
}

// Slots targets the filled variables of a text template: a JSON object with
// one property per slot name. Slot values may be any JSON value; slots the
// model could not fill decode to nil.
func Slots(names ...string) Target {
	return &slotsTarget{slots: append([]string(nil), names...)}
}

func (t *slotsTarget) Kind() Kind           { return KindRecord }
func (t *slotsTarget) Name() string         { return "template" }
func (t *slotsTarget) Instructions() string { return "" }

func (t *slotsTarget) Schema() map[string]any {
	properties := make(map[string]any, len(t.slots))
	required := make([]any, 0, len(t.slots))
	for _, slot := range t.slots {
		// Any JSON value, null included, is a valid fill.
		properties[slot] = map[string]any{}
		required = append(required, slot)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func (t *slotsTarget) Decode(raw json.RawMessage) (any, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, newValidationError(t.Name(), fmt.Errorf("expected a JSON object: %w", err))
	}
	out := make(map[string]any, len(t.slots))
	for _, slot := range t.slots {
		rawValue, ok := entries[slot]
		if !ok {
			out[slot] = nil
			continue
		}
		var v any
		if err := json.Unmarshal(rawValue, &v); err != nil {
			return nil, newValidationError(t.Name(), fmt.Errorf("slot %q: %w", slot, err))
		}
		out[slot] = v
	}
	return out, nil
}
