package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/richinex/typecast/llm"
	"github.com/richinex/typecast/schema"
	"github.com/richinex/typecast/tools"
)

func TestCastReturnsDecodedValue(t *testing.T) {
	e, provider := newTestEngine(finalAnswer("42"))

	got, err := e.Cast(context.Background(), "forty-two", schema.Int())
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	if got != 42 {
		t.Errorf("Cast() = %v, want 42", got)
	}

	reqs := provider.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if len(reqs[0].Tools) != 1 || reqs[0].Tools[0].Name != schema.FinalAnswerToolName {
		t.Errorf("request should offer the final-response tool, got %v", reqs[0].Tools)
	}
	if !strings.Contains(lastUserContent(reqs[0]), "forty-two") {
		t.Errorf("prompt missing input data")
	}
}

func TestCastInvalidFinalAnswerIsFatal(t *testing.T) {
	e, provider := newTestEngine(
		finalAnswer(`"not a number"`),
		finalAnswer("7"), // must stay unconsumed
	)

	_, err := e.Cast(context.Background(), "seven", schema.Int())
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}

	// The invalid answer is reported, not fed back for another attempt.
	if got := len(provider.recorded()); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestCastExhaustsBudget(t *testing.T) {
	e, provider := newTestEngine(
		toolCall("missing_tool", `{}`),
		toolCall("missing_tool", `{}`),
		toolCall("missing_tool", `{}`),
	)

	_, err := e.Cast(context.Background(), "data", schema.Int())
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Turns != 3 {
		t.Errorf("Turns = %d, want 3", exhausted.Turns)
	}

	reqs := provider.recorded()
	lastReq := reqs[len(reqs)-1]
	if lastReq.ToolChoice == nil || lastReq.ToolChoice.Mode != llm.ToolChoiceFunction {
		t.Errorf("last turn must force the final-response tool, got %+v", lastReq.ToolChoice)
	}
}

func TestChattingForcesFinalToolNextTurn(t *testing.T) {
	e, provider := newTestEngine(
		textAnswer("Let me think about that."),
		finalAnswer("3"),
	)

	got, err := e.Cast(context.Background(), "three", schema.Int())
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	if got != 3 {
		t.Errorf("Cast() = %v, want 3", got)
	}

	reqs := provider.recorded()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].ToolChoice == nil || reqs[0].ToolChoice.Mode != llm.ToolChoiceAuto {
		t.Errorf("first turn should be auto, got %+v", reqs[0].ToolChoice)
	}
	if reqs[1].ToolChoice == nil || reqs[1].ToolChoice.Mode != llm.ToolChoiceFunction {
		t.Errorf("turn after a no-tool answer must force the final tool, got %+v", reqs[1].ToolChoice)
	}
}

func TestAuxiliaryToolRoundTrip(t *testing.T) {
	registry := tools.NewRegistry()
	lookup := tools.MustFunc("lookup_price", "Returns the price of an item.",
		func(ctx context.Context, in struct {
			Item string `json:"item"`
		}) (string, error) {
			return "3.50", nil
		})
	if err := registry.Register(lookup); err != nil {
		t.Fatal(err)
	}

	e, provider := newTestEngine(
		toolCall("lookup_price", `{"item": "tea"}`),
		finalAnswer("3.5"),
	)

	got, err := e.Cast(context.Background(), "price of tea", schema.Float(), WithTools(registry))
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	if got != 3.5 {
		t.Errorf("Cast() = %v, want 3.5", got)
	}

	reqs := provider.recorded()
	if len(reqs[0].Tools) != 2 {
		t.Fatalf("expected final tool plus lookup tool, got %d tools", len(reqs[0].Tools))
	}
	second := reqs[1].Messages
	last := second[len(second)-1]
	if last.Role != llm.RoleTool || last.Content != "3.50" {
		t.Errorf("tool output should be fed back, got role=%q content=%q", last.Role, last.Content)
	}
}

func TestFailingToolReportedToModel(t *testing.T) {
	registry := tools.NewRegistry()
	failing := tools.MustFunc("always_fails", "Always fails.",
		func(ctx context.Context, in struct{}) (string, error) {
			return "", errors.New("validation: boom")
		})
	if err := registry.Register(failing); err != nil {
		t.Fatal(err)
	}

	e, provider := newTestEngine(
		toolCall("always_fails", `{}`),
		finalAnswer("1"),
	)

	got, err := e.Cast(context.Background(), "data", schema.Int(), WithTools(registry))
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	if got != 1 {
		t.Errorf("Cast() = %v, want 1", got)
	}

	second := provider.recorded()[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "Error") {
		t.Errorf("tool failure should be surfaced to the model: %q", last.Content)
	}
}

func TestUnknownToolReportedToModel(t *testing.T) {
	e, provider := newTestEngine(
		toolCall("no_such_tool", `{}`),
		finalAnswer("1"),
	)

	if _, err := e.Cast(context.Background(), "data", schema.Int()); err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	second := provider.recorded()[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "unknown tool") {
		t.Errorf("expected unknown-tool feedback, got %q", last.Content)
	}
}

func TestCastWithMaxToolUsesOne(t *testing.T) {
	e, provider := newTestEngine(finalAnswer("5"))

	_, err := e.Cast(context.Background(), "five", schema.Int(), WithMaxToolUses(1))
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	req := provider.recorded()[0]
	if req.ToolChoice == nil || req.ToolChoice.Mode != llm.ToolChoiceFunction {
		t.Errorf("single-turn budget must force the final tool immediately, got %+v", req.ToolChoice)
	}
	if req.ToolChoice.Name != schema.FinalAnswerToolName {
		t.Errorf("forced tool name = %q", req.ToolChoice.Name)
	}
}
