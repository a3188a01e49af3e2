package engine

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/richinex/typecast/llm"
	"github.com/richinex/typecast/schema"
)

// numberWords lets the concurrent tests answer by inspecting the prompt
// instead of relying on request order.
var numberWords = map[string]string{
	"one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8",
}

func replyByPrompt(req llm.Request) llm.Response {
	user := lastUserContent(req)
	for word, digit := range numberWords {
		if strings.Contains(user, "## Data to convert\n\n"+word) {
			return finalAnswer(digit)
		}
	}
	return finalAnswer("0")
}

func TestCastEachPreservesOrder(t *testing.T) {
	provider := &scriptedProvider{reply: replyByPrompt}
	e := New(llm.NewClient(provider), testSettings())

	items := []string{"three", "one", "four", "two"}
	got, err := e.CastEach(context.Background(), items, schema.Int(), WithConcurrency(3))
	if err != nil {
		t.Fatalf("CastEach() error: %v", err)
	}
	want := []any{3, 1, 4, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCastEachBoundsConcurrency(t *testing.T) {
	var inFlight, peak int64
	var mu sync.Mutex
	provider := &scriptedProvider{reply: func(req llm.Request) llm.Response {
		current := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if current > peak {
			peak = current
		}
		mu.Unlock()
		defer atomic.AddInt64(&inFlight, -1)
		return finalAnswer("1")
	}}
	e := New(llm.NewClient(provider), testSettings())

	items := []string{"one", "one", "one", "one", "one", "one"}
	if _, err := e.CastEach(context.Background(), items, schema.Int(), WithConcurrency(2)); err != nil {
		t.Fatalf("CastEach() error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestCastEachStopsOnFirstError(t *testing.T) {
	var calls int64
	provider := &scriptedProvider{reply: func(req llm.Request) llm.Response {
		atomic.AddInt64(&calls, 1)
		return finalAnswer(`"not a number"`)
	}}
	settings := testSettings()
	settings.Engine.MaxToolUses = 1
	e := New(llm.NewClient(provider), settings)

	items := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	_, err := e.CastEach(context.Background(), items, schema.Int(), WithConcurrency(1))
	if err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt64(&calls); n >= int64(len(items)) {
		t.Errorf("expected early cancellation, but all %d items ran", n)
	}
}

func TestClassifyEachPreservesOrder(t *testing.T) {
	provider := &scriptedProvider{reply: func(req llm.Request) llm.Response {
		if strings.Contains(lastUserContent(req), "great") {
			return textAnswer("0")
		}
		return textAnswer("1")
	}}
	e := New(llm.NewClient(provider), testSettings())

	got, err := e.ClassifyEach(context.Background(),
		[]string{"this is great", "this is awful", "truly great stuff"},
		schema.Labels("positive", "negative"),
		WithConcurrency(2))
	if err != nil {
		t.Fatalf("ClassifyEach() error: %v", err)
	}
	want := []any{"positive", "negative", "positive"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExtractEachPreservesOrder(t *testing.T) {
	provider := &scriptedProvider{reply: func(req llm.Request) llm.Response {
		if strings.Contains(lastUserContent(req), "alice") {
			return finalAnswer(`["alice"]`)
		}
		return finalAnswer(`["bob", "carol"]`)
	}}
	e := New(llm.NewClient(provider), testSettings())

	got, err := e.ExtractEach(context.Background(),
		[]string{"alice was here", "bob met carol"},
		schema.String())
	if err != nil {
		t.Fatalf("ExtractEach() error: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 1 || len(got[1]) != 2 {
		t.Errorf("ExtractEach() = %v", got)
	}
}

func TestForEachEmptyInput(t *testing.T) {
	e, provider := newTestEngine()
	got, err := e.CastEach(context.Background(), nil, schema.Int())
	if err != nil || got != nil {
		t.Errorf("CastEach(nil) = %v, %v", got, err)
	}
	if len(provider.recorded()) != 0 {
		t.Error("no items must mean no requests")
	}
}
