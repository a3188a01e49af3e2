package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/richinex/typecast/prompt"
	"github.com/richinex/typecast/schema"
)

// Handler runs when a plain case is selected.
type Handler func(ctx context.Context) (any, error)

// TypedHandler runs when a typed case is selected, receiving the value cast
// from the matched data.
type TypedHandler func(ctx context.Context, value any) (any, error)

// SlotHandler runs when a template case is selected, receiving the slot
// values extracted from the matched data. Slots absent in the data are nil.
type SlotHandler func(ctx context.Context, slots map[string]any) (any, error)

// Matcher routes data to exactly one of several cases using a single
// classification call. Cases are described to the model as labels; typed
// cases additionally surface their schema and constraints as context.
type Matcher struct {
	engine    *Engine
	data      string
	opts      []CallOption
	cases     []matchCase
	otherwise Handler
}

type matchCase struct {
	label    string
	target   schema.Target
	template string
	handler  Handler
	typed    TypedHandler
	slotted  SlotHandler
}

// noneLabel is offered alongside the cases when a fallback is registered, so
// the model can decline every case.
const noneLabel = "None of the above"

// Match starts building a matcher over the given data.
func (e *Engine) Match(data string, opts ...CallOption) *Matcher {
	return &Matcher{engine: e, data: data, opts: opts}
}

// Case adds a literal discriminator: the term itself is the label.
func (m *Matcher) Case(term string, handler Handler) *Matcher {
	m.cases = append(m.cases, matchCase{label: term, handler: handler})
	return m
}

// CaseTemplate adds a template discriminator with named slots in {slot}
// notation. The template text itself is the label; when selected, the slot
// values are extracted from the data and passed to the handler.
func (m *Matcher) CaseTemplate(template string, handler SlotHandler) *Matcher {
	m.cases = append(m.cases, matchCase{
		label:    template,
		template: template,
		slotted:  handler,
	})
	return m
}

// CaseType adds a type discriminator. When selected, the data is cast to the
// target and the handler receives the resulting value.
func (m *Matcher) CaseType(target schema.Target, handler TypedHandler) *Matcher {
	m.cases = append(m.cases, matchCase{
		label:  describeTarget(target),
		target: target,
		typed:  handler,
	})
	return m
}

// Otherwise registers the fallback for when no case matches.
func (m *Matcher) Otherwise(handler Handler) *Matcher {
	m.otherwise = handler
	return m
}

// Run classifies the data against the case labels, then runs the selected
// handler. Natural-language contract checks are suspended during selection
// and value extraction, and restored for the handler itself.
func (m *Matcher) Run(ctx context.Context) (any, error) {
	for _, c := range m.cases {
		if c.slotted != nil && !slotPattern.MatchString(c.template) {
			return nil, fmt.Errorf("match template %q has no {slot} variables", c.template)
		}
	}

	labels := make([]string, 0, len(m.cases)+1)
	for _, c := range m.cases {
		labels = append(labels, c.label)
	}
	// Without a fallback the model must pick one of the supplied cases.
	if m.otherwise != nil {
		labels = append(labels, noneLabel)
	}

	additionalContext, err := m.typeContext()
	if err != nil {
		return nil, err
	}

	cfg := m.engine.newCallConfig(m.opts)
	selectionCtx := DisableContracts(ctx)
	idx, err := m.engine.classifyLabels(selectionCtx, m.data, cfg.instructions, additionalContext, labels)
	if err != nil {
		return nil, err
	}

	if idx == len(m.cases) {
		return m.otherwise(ctx)
	}

	selected := m.cases[idx]
	if selected.slotted != nil {
		slots, serr := m.engine.FillTemplate(selectionCtx, m.data, selected.template, m.opts...)
		if serr != nil {
			return nil, serr
		}
		return selected.slotted(ctx, slots)
	}
	if selected.typed != nil {
		value, cerr := m.engine.Cast(selectionCtx, m.data, selected.target, m.opts...)
		if cerr != nil {
			return nil, cerr
		}
		return selected.typed(ctx, value)
	}
	return selected.handler(ctx)
}

// typeContext builds the additional-context block describing the typed
// cases' schemas and constraints. Composite discriminators contribute the
// record and label types they contain, so a list-of-record case still puts
// the record's schema in front of the model.
func (m *Matcher) typeContext() (string, error) {
	var infos []prompt.TypeInfo
	seen := make(map[string]bool)
	for _, c := range m.cases {
		if c.target == nil {
			continue
		}
		if err := collectTypeInfos(c.target, seen, &infos); err != nil {
			return "", err
		}
	}
	if len(infos) == 0 {
		return "", nil
	}
	return prompt.TypeContext(infos)
}

func collectTypeInfos(t schema.Target, seen map[string]bool, infos *[]prompt.TypeInfo) error {
	switch t.Kind() {
	case schema.KindRecord, schema.KindLabels:
		if seen[t.Name()] {
			return nil
		}
		seen[t.Name()] = true
		schemaJSON, err := json.Marshal(t.Schema())
		if err != nil {
			return err
		}
		*infos = append(*infos, prompt.TypeInfo{
			Name:        t.Name(),
			Schema:      string(schemaJSON),
			Constraints: schema.ConstraintsOf(t),
		})
	case schema.KindList:
		if elem := schema.Elem(t); elem != nil {
			return collectTypeInfos(elem, seen, infos)
		}
	case schema.KindMap:
		key, value := schema.KeyValue(t)
		if key != nil {
			if err := collectTypeInfos(key, seen, infos); err != nil {
				return err
			}
		}
		if value != nil {
			return collectTypeInfos(value, seen, infos)
		}
	}
	return nil
}

// describeTarget renders a type discriminator as a human-readable label.
func describeTarget(t schema.Target) string {
	label := describeShape(t)
	if constraints := schema.ConstraintsOf(t); len(constraints) > 0 {
		label += ", with the constraint that " + strings.Join(constraints, " and ")
	}
	return label
}

func describeShape(t schema.Target) string {
	switch t.Kind() {
	case schema.KindInt:
		return "An Integer"
	case schema.KindFloat:
		return "A Number"
	case schema.KindString:
		return "A String"
	case schema.KindBool:
		return "A Boolean"
	case schema.KindList:
		if elem := schema.Elem(t); elem != nil {
			return "A list of " + nounFor(elem)
		}
		return "A list"
	case schema.KindMap:
		key, value := schema.KeyValue(t)
		if key != nil && value != nil {
			return "A Dictionary from " + nounFor(key) + " to " + nounFor(value)
		}
		return "A Dictionary"
	default:
		return "Something of " + t.Name() + " type"
	}
}

func nounFor(t schema.Target) string {
	switch t.Kind() {
	case schema.KindInt:
		return "Integer"
	case schema.KindFloat:
		return "Number"
	case schema.KindString:
		return "String"
	case schema.KindBool:
		return "Boolean"
	case schema.KindList:
		return "List"
	case schema.KindMap:
		return "Dictionary"
	default:
		return t.Name()
	}
}
