package schema

import (
	"encoding/json"
	"fmt"

	"github.com/richinex/typecast/llm"
)

// FinalAnswerToolName is the well-known name of the tool the model must call
// to deliver its structured answer.
const FinalAnswerToolName = "FormatFinalResponse"

// valueField is the single parameter of the final-answer tool. Wrapping the
// target schema in an object keeps providers that require object-typed tool
// parameters happy even for scalar targets.
const valueField = "value"

// ToolSchema is the final-answer tool for a target: a callable tool
// definition plus the decoder for its arguments.
type ToolSchema struct {
	target Target
	def    llm.ToolDefinition
}

// FinalAnswerTool builds the tool the model calls to deliver a value of the
// target shape.
func FinalAnswerTool(t Target) *ToolSchema {
	valueSchema := t.Schema()
	if instructions := t.Instructions(); instructions != "" {
		annotated := make(map[string]any, len(valueSchema)+1)
		for k, v := range valueSchema {
			annotated[k] = v
		}
		annotated["description"] = instructions
		valueSchema = annotated
	}
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			valueField: valueSchema,
		},
		"required":             []any{valueField},
		"additionalProperties": false,
	}
	description := fmt.Sprintf("Formats the final response as a value of type %s.", t.Name())
	return &ToolSchema{
		target: t,
		def: llm.ToolDefinition{
			Name:        FinalAnswerToolName,
			Description: description,
			Parameters:  params,
		},
	}
}

// Definition returns the wire-level tool definition.
func (s *ToolSchema) Definition() llm.ToolDefinition { return s.def }

// Target returns the target this tool delivers.
func (s *ToolSchema) Target() Target { return s.target }

// DecodeCall validates the model's tool arguments and returns the decoded
// value. A structural mismatch returns *ValidationError with a message
// suitable for feeding back to the model.
func (s *ToolSchema) DecodeCall(args json.RawMessage) (any, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(args, &wrapper); err != nil {
		return nil, newValidationError(s.target.Name(), fmt.Errorf("tool arguments are not a JSON object: %w", err))
	}
	raw, ok := wrapper[valueField]
	if !ok {
		return nil, newValidationError(s.target.Name(), fmt.Errorf("tool arguments missing required field %q", valueField))
	}
	return s.target.Decode(raw)
}
