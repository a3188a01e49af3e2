package engine

import (
	"fmt"
	"strings"
)

// ExhaustedError reports that the model used up its tool-call budget without
// ever delivering a final response.
type ExhaustedError struct {
	Turns int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no final response after %d turns", e.Turns)
}

// ShortfallError reports that Generate ran out of attempts with fewer items
// than the caller asked for.
type ShortfallError struct {
	Requested int
	Produced  int
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("generated %d of %d requested items", e.Produced, e.Requested)
}

// ClassificationError reports that a constrained classification call
// produced output that does not name one of the offered labels.
type ClassificationError struct {
	Output    string
	NumLabels int
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classifier output %q is not a label index in [0, %d)", e.Output, e.NumLabels)
}

// PreconditionError reports that a function's inputs failed its
// natural-language precondition.
type PreconditionError struct {
	Function    string
	Constraints []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated calling %s: %s", e.Function, strings.Join(e.Constraints, "; "))
}

// PostconditionError reports that a function's result failed its
// natural-language postcondition.
type PostconditionError struct {
	Function    string
	Constraints []string
}

func (e *PostconditionError) Error() string {
	return fmt.Sprintf("postcondition violated by %s result: %s", e.Function, strings.Join(e.Constraints, "; "))
}

// ToolError wraps a failure inside a caller-supplied tool. Tool failures
// are normally fed back to the model as tool output; ToolError surfaces only
// when the tool result cannot be delivered.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
