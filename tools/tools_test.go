package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type echoArgs struct {
	Text string `json:"text"`
}

func newEchoTool(t *testing.T) Tool {
	t.Helper()
	tool, err := NewFunc("echo", "Echoes the provided text.", func(ctx context.Context, in echoArgs) (string, error) {
		return in.Text, nil
	})
	if err != nil {
		t.Fatalf("NewFunc() error: %v", err)
	}
	return tool
}

func TestFuncToolExecute(t *testing.T) {
	tool := newEchoTool(t)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"text": "hello"}`))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.Success() {
		t.Fatalf("Execute() failed: %v", result.Error)
	}
	if result.Output != "hello" {
		t.Errorf("output = %q, want %q", result.Output, "hello")
	}
}

func TestFuncToolValidateRejectsBadArgs(t *testing.T) {
	tool := newEchoTool(t)

	if err := tool.Validate(json.RawMessage(`{"text": 42}`)); err == nil {
		t.Error("expected validation error for non-string text")
	}
	if err := tool.Validate(json.RawMessage(`{"text": "ok"}`)); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestFuncToolSchema(t *testing.T) {
	tool := newEchoTool(t)
	def := tool.Metadata().Definition()

	if def.Name != "echo" {
		t.Errorf("name = %q, want echo", def.Name)
	}
	props, ok := def.Parameters["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("parameters missing properties: %v", def.Parameters)
	}
	if _, ok := props["text"]; !ok {
		t.Errorf("schema missing text property: %v", props)
	}
}

func TestMetadataDefinitionFromParameterList(t *testing.T) {
	meta := ToolMetadata{
		Name:        "lookup",
		Description: "Looks something up.",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "what to look up", Required: true},
			{Name: "limit", ParamType: "integer", Description: "max results"},
		},
	}
	def := meta.Definition()

	props := def.Parameters["properties"].(map[string]interface{})
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	required, ok := def.Parameters["required"].([]interface{})
	if !ok || len(required) != 1 || required[0] != "query" {
		t.Errorf("required = %v, want [query]", def.Parameters["required"])
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	tool := newEchoTool(t)

	if err := registry.Register(tool); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := registry.Register(tool); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if !registry.Has("echo") {
		t.Error("registry should have echo")
	}
	defs := registry.Definitions()
	if len(defs) != 1 || defs[0].Name != "echo" {
		t.Errorf("Definitions() = %v", defs)
	}
}

type flakyTool struct {
	BaseTool
	failures int
	calls    int
}

func (f *flakyTool) Metadata() ToolMetadata {
	return ToolMetadata{Name: "flaky", Description: "Fails a few times, then succeeds."}
}

func (f *flakyTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return FailureResult(errors.New("connection reset")), nil
	}
	return SuccessResult("ok"), nil
}

func TestExecutorRetriesTransientFailures(t *testing.T) {
	tool := &flakyTool{failures: 2}
	executor := NewExecutor(ToolConfig{MaxRetries: 3})

	result, err := executor.Execute(context.Background(), tool, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.Success() {
		t.Fatalf("expected success after retries, got %v", result.Error)
	}
	if tool.calls != 3 {
		t.Errorf("calls = %d, want 3", tool.calls)
	}
}

func TestExecutorGivesUpAfterBudget(t *testing.T) {
	tool := &flakyTool{failures: 10}
	executor := NewExecutor(ToolConfig{MaxRetries: 2})

	result, err := executor.Execute(context.Background(), tool, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Success() {
		t.Error("expected failure after exhausting retries")
	}
	if !strings.Contains(result.Error.Error(), "after 2 attempts") {
		t.Errorf("unexpected error: %v", result.Error)
	}
}
