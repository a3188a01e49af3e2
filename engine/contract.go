package engine

import (
	"context"

	"github.com/richinex/typecast/prompt"
	"github.com/richinex/typecast/schema"
)

// contractStateKey scopes the contract toggle to a context subtree.
type contractStateKey struct{}

// DisableContracts returns a context in which natural-language contract
// checks are skipped. The parent context is unaffected, so the suspension
// ends where the returned context stops being used.
func DisableContracts(ctx context.Context) context.Context {
	return context.WithValue(ctx, contractStateKey{}, false)
}

// RestoreContracts returns a context in which contract checks run again,
// reversing an enclosing DisableContracts.
func RestoreContracts(ctx context.Context) context.Context {
	return context.WithValue(ctx, contractStateKey{}, true)
}

// contractsEnabled resolves the toggle: the nearest context override wins,
// otherwise the configured default applies.
func (e *Engine) contractsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contractStateKey{}).(bool); ok {
		return v
	}
	return e.settings.Contracts.Enabled
}

// ValidateConstraints asks the model whether data satisfies every constraint
// and returns the boolean verdict. The verdict is a single-token boolean
// classification, not a tool-loop generation. The check itself runs
// regardless of the contract toggle; callers consult the toggle before
// calling.
func (e *Engine) ValidateConstraints(ctx context.Context, data string, constraints []string, opts ...CallOption) (bool, error) {
	if len(constraints) == 0 {
		return true, nil
	}
	cfg := e.newCallConfig(opts)

	question, err := prompt.Constraint(constraints)
	if err != nil {
		return false, err
	}
	ls, _ := schema.AsLabelSet(schema.Bool())
	idx, err := e.classifyLabels(ctx, data, mergedInstructions(cfg.instructions, question), "", ls.Labels())
	if err != nil {
		return false, err
	}
	value, err := ls.DecodeIndex(idx)
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}
