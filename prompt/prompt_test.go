package prompt

import (
	"strings"
	"testing"

	"github.com/richinex/typecast/llm"
)

func TestCastSplitsIntoSystemAndUser(t *testing.T) {
	msgs, err := Cast("one hundred", "", `{"type": "integer"}`)
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem {
		t.Errorf("first message role = %q, want system", msgs[0].Role)
	}
	if msgs[1].Role != llm.RoleUser {
		t.Errorf("second message role = %q, want user", msgs[1].Role)
	}
	if !strings.Contains(msgs[1].Content, "one hundred") {
		t.Errorf("user message missing data: %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, `{"type": "integer"}`) {
		t.Errorf("user message missing response format: %q", msgs[1].Content)
	}
	if strings.Contains(msgs[1].Content, "Additional instructions") {
		t.Errorf("instructions section rendered without instructions")
	}
}

func TestCastIncludesInstructions(t *testing.T) {
	msgs, err := Cast("data", "round down", "{}")
	if err != nil {
		t.Fatalf("Cast() error: %v", err)
	}
	if !strings.Contains(msgs[1].Content, "round down") {
		t.Errorf("user message missing instructions: %q", msgs[1].Content)
	}
}

func TestClassifyNumbersLabelsFromZero(t *testing.T) {
	msgs, err := Classify("I love this", "", "", []string{"positive", "negative"})
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	user := msgs[1].Content
	if !strings.Contains(user, "- Label #0: positive") {
		t.Errorf("missing label 0: %q", user)
	}
	if !strings.Contains(user, "- Label #1: negative") {
		t.Errorf("missing label 1: %q", user)
	}
}

func TestClassifyEndsWithAssistantPrefill(t *testing.T) {
	msgs, err := Classify("data", "", "", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleAssistant {
		t.Fatalf("last message role = %q, want assistant", last.Role)
	}
	if !strings.HasSuffix(last.Content, "Label ") {
		t.Errorf("prefill must end with trailing space, got %q", last.Content)
	}
}

func TestGeneratePluralizes(t *testing.T) {
	one, err := Generate(1, "", "{}", nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(one[1].Content, "1 random entity") {
		t.Errorf("singular form missing: %q", one[1].Content)
	}

	many, err := Generate(3, "", "{}", nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(many[1].Content, "3 random entities") {
		t.Errorf("plural form missing: %q", many[1].Content)
	}
}

func TestGeneratePreviousResponses(t *testing.T) {
	msgs, err := Generate(2, "", "{}", []string{`"alpha"`, `"beta"`})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	user := msgs[1].Content
	if !strings.Contains(user, "Previous responses") {
		t.Errorf("previous responses section missing: %q", user)
	}
	if !strings.Contains(user, `- "alpha"`) || !strings.Contains(user, `- "beta"`) {
		t.Errorf("previous items missing: %q", user)
	}

	fresh, err := Generate(2, "", "{}", nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if strings.Contains(fresh[1].Content, "Previous responses") {
		t.Errorf("previous responses rendered with no history")
	}
}

func TestConstraintBlock(t *testing.T) {
	out, err := Constraint([]string{"must rhyme with blue", "must be one word"})
	if err != nil {
		t.Fatalf("Constraint() error: %v", err)
	}
	if !strings.Contains(out, "- must rhyme with blue") || !strings.Contains(out, "- must be one word") {
		t.Errorf("constraints missing: %q", out)
	}
}

func TestTypeContext(t *testing.T) {
	out, err := TypeContext([]TypeInfo{
		{Name: "Location", Schema: `{"type": "object"}`, Constraints: []string{"must be in Europe"}},
	})
	if err != nil {
		t.Fatalf("TypeContext() error: %v", err)
	}
	if !strings.Contains(out, `Type Information for "Location"`) {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "must be in Europe") {
		t.Errorf("missing constraint: %q", out)
	}
}

func TestTemplateExtraction(t *testing.T) {
	msgs, err := TemplateExtraction("bought milk on tuesday", "{product} bought on {day}")
	if err != nil {
		t.Fatalf("TemplateExtraction() error: %v", err)
	}
	if !strings.Contains(msgs[1].Content, "{product} bought on {day}") {
		t.Errorf("template missing: %q", msgs[1].Content)
	}
}

func TestFunctionPromptListsInputs(t *testing.T) {
	msgs, err := Function("addTwo(x int) int", []string{"x: 4"}, "", false)
	if err != nil {
		t.Fatalf("Function() error: %v", err)
	}
	if !strings.Contains(msgs[0].Content, "addTwo(x int) int") {
		t.Errorf("definition missing: %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[1].Content, "- x: 4") {
		t.Errorf("input missing: %q", msgs[1].Content)
	}
	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleAssistant || !strings.HasSuffix(last.Content, "The output is ") {
		t.Errorf("unexpected prefill: role=%q content=%q", last.Role, last.Content)
	}
}
