package schema

import (
	"encoding/json"
	"strings"
)

// ConstraintProvider is implemented by record struct types that carry
// natural-language constraints on their values. Constraints are injected
// into the prompt and re-checked against the produced value.
type ConstraintProvider interface {
	Constraints() []string
}

type describedTarget struct {
	Target
	text string
}

// Described attaches per-call instructions to a target without changing its
// shape. Nested descriptions accumulate.
func Described(t Target, text string) Target {
	return &describedTarget{Target: t, text: text}
}

func (t *describedTarget) Instructions() string {
	inner := t.Target.Instructions()
	if inner == "" {
		return t.text
	}
	return inner + "\n" + t.text
}

type constrainedTarget struct {
	Target
	constraints []string
}

// Constrained attaches natural-language constraints to a target. The
// constraints become part of the prompt and are available for post-hoc
// checking via ConstraintsOf.
func Constrained(t Target, constraints ...string) Target {
	return &constrainedTarget{Target: t, constraints: append([]string(nil), constraints...)}
}

// ConstraintsOf collects all natural-language constraints attached to t,
// from Constrained wrappers and from record types implementing
// ConstraintProvider, outermost first.
func ConstraintsOf(t Target) []string {
	var out []string
	for {
		switch tt := t.(type) {
		case *constrainedTarget:
			out = append(out, tt.constraints...)
			t = tt.Target
		case *describedTarget:
			t = tt.Target
		default:
			if src, ok := t.(interface{ typeConstraints() []string }); ok {
				out = append(out, src.typeConstraints()...)
			}
			return out
		}
	}
}

// Identity returns a stable string identifying a target's shape, description
// and constraints. Two targets with equal identity produce interchangeable
// generations.
func Identity(t Target) string {
	var b strings.Builder
	b.WriteString(t.Name())
	if data, err := json.Marshal(t.Schema()); err == nil {
		b.Write(data)
	}
	b.WriteString(t.Instructions())
	for _, c := range ConstraintsOf(t) {
		b.WriteByte('|')
		b.WriteString(c)
	}
	return b.String()
}

func unwrap(t Target) Target {
	for {
		switch tt := t.(type) {
		case *describedTarget:
			t = tt.Target
		case *constrainedTarget:
			t = tt.Target
		default:
			return t
		}
	}
}
