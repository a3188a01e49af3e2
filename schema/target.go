// Package schema turns desired output shapes into JSON Schema tool
// descriptors and validates values against them.
//
// A Target is an explicit schema descriptor built by one of the shape-family
// constructors (String, Int, List, Record, Labels, ...) rather than by
// runtime reflection over arbitrary values. Every Target knows how to
// describe itself as a JSON Schema and how to decode-and-validate a raw JSON
// value back into a Go value.
//
// Information Hiding:
// - JSON Schema generation and compilation details
// - Validation machinery (resolved schema validators)
// - Shape-family specific decoding
package schema

import (
	"encoding/json"
)

// Kind identifies the shape family of a Target.
type Kind int

const (
	// KindString is a free-form string target.
	KindString Kind = iota
	// KindInt is an integer target.
	KindInt
	// KindFloat is a floating point target.
	KindFloat
	// KindBool is a boolean target (also a two-label set).
	KindBool
	// KindList is a homogeneous list target.
	KindList
	// KindMap is a string-keyed mapping target.
	KindMap
	// KindRecord is a structured record target backed by a Go struct.
	KindRecord
	// KindLabels is a fixed, ordered label set.
	KindLabels
)

// Target describes the desired output shape of a generation call.
// Targets are immutable once constructed.
type Target interface {
	// Kind returns the shape family.
	Kind() Kind

	// Name returns a short name for the shape ("int", "Location", ...).
	Name() string

	// Schema returns the JSON Schema for a value of this shape.
	// Callers must not mutate the returned map.
	Schema() map[string]any

	// Decode validates raw JSON against the schema and converts it into a
	// Go value of the shape. A structural mismatch returns *ValidationError.
	Decode(raw json.RawMessage) (any, error)

	// Instructions returns per-call guidance attached with Described, or "".
	Instructions() string
}

// LabelSet is implemented by targets that are a fixed, ordered label set
// (booleans, enums, literal lists). These take the classification fast path
// instead of the full tool-call loop.
type LabelSet interface {
	Target

	// Labels returns the ordered label strings. Order is significant: index i
	// here must decode the model's answer i.
	Labels() []string

	// DecodeIndex converts a chosen label index back to the caller's value.
	DecodeIndex(i int) (any, error)
}

// AsLabelSet returns the label-set view of t when its shape family is a
// fixed label set. Described and Constrained wrappers are looked through.
func AsLabelSet(t Target) (LabelSet, bool) {
	ls, ok := unwrap(t).(LabelSet)
	return ls, ok
}
