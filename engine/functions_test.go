package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/richinex/typecast/llm"
	"github.com/richinex/typecast/schema"
)

func divideSpec() FuncSpec {
	return FuncSpec{
		Name:       "divide",
		Definition: "divide(a float, b float) float // returns a divided by b",
		Result:     schema.Float(),
		Pre:        []string{"b must not be zero"},
		Post:       []string{"result times b equals a"},
	}
}

func TestCallRunsPreAndPostconditions(t *testing.T) {
	e, provider := newTestEngine(
		textAnswer("1"),    // precondition verdict
		finalAnswer("2.5"), // function result
		textAnswer("1"),    // postcondition verdict
	)

	got, err := e.Call(context.Background(), divideSpec(), map[string]any{"a": 5.0, "b": 2.0})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != 2.5 {
		t.Errorf("Call() = %v, want 2.5", got)
	}

	reqs := provider.recorded()
	if len(reqs) != 3 {
		t.Fatalf("expected pre, body, post requests, got %d", len(reqs))
	}
	if !strings.Contains(lastUserContent(reqs[0]), "b must not be zero") {
		t.Errorf("precondition missing: %q", lastUserContent(reqs[0]))
	}
	body := lastUserContent(reqs[1])
	if !strings.Contains(body, "a: 5") || !strings.Contains(body, "b: 2") {
		t.Errorf("bound arguments missing: %q", body)
	}
	post := lastUserContent(reqs[2])
	if !strings.Contains(post, `"result":2.5`) && !strings.Contains(post, `"result": 2.5`) {
		t.Errorf("postcondition scope must include result: %q", post)
	}
}

func TestCallPreconditionViolation(t *testing.T) {
	e, provider := newTestEngine(textAnswer("0"))

	_, err := e.Call(context.Background(), divideSpec(), map[string]any{"a": 5.0, "b": 0.0})
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if perr.Function != "divide" {
		t.Errorf("Function = %q", perr.Function)
	}
	if len(provider.recorded()) != 1 {
		t.Errorf("function body must not run after a failed precondition")
	}
}

func TestCallPostconditionViolation(t *testing.T) {
	e, _ := newTestEngine(
		textAnswer("1"),
		finalAnswer("99.0"),
		textAnswer("0"),
	)

	_, err := e.Call(context.Background(), divideSpec(), map[string]any{"a": 5.0, "b": 2.0})
	var perr *PostconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PostconditionError, got %v", err)
	}
}

func TestCallSkipsContractsWhenDisabled(t *testing.T) {
	e, provider := newTestEngine(finalAnswer("2.5"))

	ctx := DisableContracts(context.Background())
	got, err := e.Call(ctx, divideSpec(), map[string]any{"a": 5.0, "b": 2.0})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != 2.5 {
		t.Errorf("Call() = %v", got)
	}
	if len(provider.recorded()) != 1 {
		t.Errorf("expected only the function body request, got %d", len(provider.recorded()))
	}
}

func TestRestoreContractsReenablesChecks(t *testing.T) {
	e, provider := newTestEngine(
		textAnswer("1"),
		finalAnswer("2.5"),
		textAnswer("1"),
	)

	ctx := RestoreContracts(DisableContracts(context.Background()))
	if _, err := e.Call(ctx, divideSpec(), map[string]any{"a": 5.0, "b": 2.0}); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(provider.recorded()) != 3 {
		t.Errorf("restored contracts must check pre and post, got %d requests", len(provider.recorded()))
	}
}

func TestCallWithoutContractsConfigured(t *testing.T) {
	settings := testSettings()
	settings.Contracts.Enabled = false
	provider := &scriptedProvider{queue: []llm.Response{finalAnswer("2.5")}}
	e := New(llm.NewClient(provider), settings)

	if _, err := e.Call(context.Background(), divideSpec(), map[string]any{"a": 5.0, "b": 2.0}); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(provider.recorded()) != 1 {
		t.Errorf("disabled default must skip contract checks, got %d requests", len(provider.recorded()))
	}
}

func TestCallRequiresResultShape(t *testing.T) {
	e, _ := newTestEngine()
	if _, err := e.Call(context.Background(), FuncSpec{Name: "nop"}, nil); err == nil {
		t.Error("expected error for missing result shape")
	}
}

func TestValidateConstraintsVerdicts(t *testing.T) {
	e, provider := newTestEngine(textAnswer("1"))

	ok, err := e.ValidateConstraints(context.Background(), `{"word": "glue"}`, []string{"rhymes with blue"})
	if err != nil {
		t.Fatalf("ValidateConstraints() error: %v", err)
	}
	if !ok {
		t.Error("expected constraints to hold")
	}

	// The verdict is a constrained boolean classification, not a tool loop.
	req := provider.recorded()[0]
	if len(req.Tools) != 0 {
		t.Errorf("verdict call must not offer tools, got %v", req.Tools)
	}
	if req.MaxTokens != 1 {
		t.Errorf("verdict call must be single-token, got MaxTokens %d", req.MaxTokens)
	}
	user := lastUserContent(req)
	if !strings.Contains(user, "rhymes with blue") {
		t.Errorf("constraint missing from prompt: %q", user)
	}
}

func TestValidateConstraintsEmptyIsTrue(t *testing.T) {
	e, provider := newTestEngine()

	ok, err := e.ValidateConstraints(context.Background(), "{}", nil)
	if err != nil || !ok {
		t.Fatalf("ValidateConstraints() = %v, %v", ok, err)
	}
	if len(provider.recorded()) != 0 {
		t.Error("no constraints must mean no model call")
	}
}

func TestCallPredicateSeesOnlyNamedArguments(t *testing.T) {
	e, provider := newTestEngine(
		textAnswer("1"),
		finalAnswer("2.5"),
		textAnswer("1"),
	)

	_, err := e.Call(context.Background(), divideSpec(), map[string]any{"a": 5.0, "b": 2.0})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	pre := lastUserContent(provider.recorded()[0])
	if !strings.Contains(pre, `"b":`) {
		t.Errorf("precondition scope must include b: %q", pre)
	}
	if strings.Contains(pre, `"a":`) {
		t.Errorf("precondition scope must omit arguments the predicate never names: %q", pre)
	}
}
