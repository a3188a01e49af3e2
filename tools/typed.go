package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// funcTool adapts a plain Go function into a Tool. Its parameter schema is
// generated from the function's argument struct.
type funcTool[In any] struct {
	BaseTool
	meta     ToolMetadata
	resolved *jsonschema.Resolved
	fn       func(context.Context, In) (string, error)
}

// NewFunc builds a Tool from a Go function whose arguments are described by
// the struct type In. The JSON Schema for In is generated from its fields
// and json tags; arguments are validated against it before the function runs.
func NewFunc[In any](name, description string, fn func(ctx context.Context, in In) (string, error)) (Tool, error) {
	generated, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, fmt.Errorf("generating schema for tool '%s': %w", name, err)
	}
	data, err := json.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("normalizing schema for tool '%s': %w", name, err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("normalizing schema for tool '%s': %w", name, err)
	}
	delete(raw, "$schema")
	delete(raw, "$id")
	resolved, err := generated.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving schema for tool '%s': %w", name, err)
	}
	return &funcTool[In]{
		meta: ToolMetadata{
			Name:        name,
			Description: description,
			RawSchema:   raw,
		},
		resolved: resolved,
		fn:       fn,
	}, nil
}

// MustFunc is NewFunc but panics on schema generation failure. Use it for
// argument types known at compile time.
func MustFunc[In any](name, description string, fn func(ctx context.Context, in In) (string, error)) Tool {
	t, err := NewFunc(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *funcTool[In]) Metadata() ToolMetadata { return t.meta }

func (t *funcTool[In]) Validate(args json.RawMessage) error {
	var generic interface{}
	if err := json.Unmarshal(args, &generic); err != nil {
		return fmt.Errorf("validation failed for tool '%s': arguments are not valid JSON: %w", t.meta.Name, err)
	}
	if err := t.resolved.Validate(generic); err != nil {
		return fmt.Errorf("validation failed for tool '%s': %w", t.meta.Name, err)
	}
	return nil
}

func (t *funcTool[In]) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var in In
	if err := json.Unmarshal(args, &in); err != nil {
		return FailureResult(fmt.Errorf("decoding arguments for tool '%s': %w", t.meta.Name, err)), nil
	}
	out, err := t.fn(ctx, in)
	if err != nil {
		return FailureResult(err), nil
	}
	return SuccessResult(out), nil
}
