package schema

import "fmt"

// ValidationError reports that a JSON value did not structurally match a
// target's schema. The message is safe to feed back to a model verbatim.
type ValidationError struct {
	Target string // target name the value was checked against
	Detail string // validator output
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("value does not match %s schema: %s", e.Target, e.Detail)
}

func newValidationError(target string, err error) *ValidationError {
	return &ValidationError{Target: target, Detail: err.Error()}
}
