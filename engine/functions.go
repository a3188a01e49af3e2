package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/richinex/typecast/prompt"
	"github.com/richinex/typecast/schema"
	"github.com/richinex/typecast/tools"
)

// FuncSpec declares a function whose body is the model: a signature shown to
// the model, a result shape, optional natural-language pre- and
// postconditions, and optional tools standing in for callable arguments.
type FuncSpec struct {
	// Name identifies the function in errors.
	Name string
	// Definition is the signature and doc text shown to the model.
	Definition string
	// Result is the shape of the return value.
	Result schema.Target
	// Pre are natural-language conditions the arguments must satisfy.
	Pre []string
	// Post are natural-language conditions the result must satisfy. The
	// result is visible to them under the name "result".
	Post []string
	// Tools exposes callable arguments to the model.
	Tools *tools.Registry
}

// Call invokes a declared function: preconditions are checked against the
// arguments, the model produces the result through the tool loop, and
// postconditions are checked against arguments plus result. Contract checks
// honor the scoped toggle and the configured default.
func (e *Engine) Call(ctx context.Context, spec FuncSpec, args map[string]any, opts ...CallOption) (any, error) {
	if spec.Result == nil {
		return nil, fmt.Errorf("function %s has no result shape", spec.Name)
	}
	cfg := e.newCallConfig(opts)
	if cfg.registry == nil && spec.Tools != nil {
		cfg.registry = spec.Tools
	}
	checkContracts := e.contractsEnabled(ctx)

	if checkContracts && len(spec.Pre) > 0 {
		argsJSON, err := json.Marshal(predicateArgs(args, spec.Pre))
		if err != nil {
			return nil, fmt.Errorf("marshaling arguments for precondition check: %w", err)
		}
		ok, err := e.ValidateConstraints(ctx, string(argsJSON), spec.Pre)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &PreconditionError{Function: spec.Name, Constraints: spec.Pre}
		}
	}

	messages, err := prompt.Function(spec.Definition, formatInputs(args), "", cfg.registry != nil)
	if err != nil {
		return nil, err
	}
	result, err := e.respond(ctx, messages, schema.FinalAnswerTool(spec.Result), cfg)
	if err != nil {
		return nil, err
	}

	if checkContracts && len(spec.Post) > 0 {
		narrowed := predicateArgs(args, spec.Post)
		scope := make(map[string]any, len(narrowed)+1)
		for k, v := range narrowed {
			scope[k] = v
		}
		scope["result"] = result
		scopeJSON, merr := json.Marshal(scope)
		if merr != nil {
			return nil, fmt.Errorf("marshaling result for postcondition check: %w", merr)
		}
		ok, verr := e.ValidateConstraints(ctx, string(scopeJSON), spec.Post)
		if verr != nil {
			return nil, verr
		}
		if !ok {
			return nil, &PostconditionError{Function: spec.Name, Constraints: spec.Post}
		}
	}

	return result, nil
}

// predicateArgs narrows the bound arguments to the names the predicates
// actually mention as whole words. Predicates that name no argument see all
// of them.
func predicateArgs(args map[string]any, predicates []string) map[string]any {
	narrowed := make(map[string]any)
	for name, value := range args {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		for _, p := range predicates {
			if pattern.MatchString(p) {
				narrowed[name] = value
				break
			}
		}
	}
	if len(narrowed) == 0 {
		return args
	}
	return narrowed
}

// formatInputs renders bound arguments as "name: value" lines in stable
// order. Values are JSON-encoded so strings stay quoted and structures stay
// parseable.
func formatInputs(args map[string]any) []string {
	if len(args) == 0 {
		return nil
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		data, err := json.Marshal(args[name])
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: %v", name, args[name]))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, data))
	}
	return lines
}
