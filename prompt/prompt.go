// Package prompt renders the built-in prompt templates into chat message
// lists. Each template is a single document with SYSTEM:, USER: and
// ASSISTANT: markers at the start of a line; rendering splits the document
// on those markers so one template describes a whole transcript, including
// assistant prefills.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/richinex/typecast/llm"
)

// TypeInfo carries the context shown to the model about one candidate type:
// its name, its JSON Schema, and any natural-language constraints.
type TypeInfo struct {
	Name        string
	Schema      string
	Constraints []string
}

var templates = template.Must(template.New("prompts").Parse(
	castTemplate +
		extractTemplate +
		generateTemplate +
		classifyTemplate +
		functionTemplate +
		constraintTemplate +
		typeContextTemplate +
		templateExtractionTemplate))

func render(name string, data any) ([]llm.ChatMessage, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s prompt: %w", name, err)
	}
	return splitTranscript(b.String()), nil
}

// splitTranscript cuts a rendered document into role-tagged messages. Text
// before the first marker is dropped; message bodies are trimmed.
func splitTranscript(doc string) []llm.ChatMessage {
	var (
		messages []llm.ChatMessage
		role     string
		body     []string
	)
	flush := func() {
		if role == "" {
			return
		}
		content := strings.TrimSpace(strings.Join(body, "\n"))
		// An assistant prefill keeps its trailing space so the model
		// continues mid-sentence.
		if role == llm.RoleAssistant {
			content = strings.TrimLeft(strings.TrimRight(strings.Join(body, "\n"), "\n"), " \n")
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: content})
	}
	for _, line := range strings.Split(doc, "\n") {
		switch {
		case strings.HasPrefix(line, "SYSTEM:"):
			flush()
			role, body = llm.RoleSystem, []string{strings.TrimPrefix(line, "SYSTEM:")}
		case strings.HasPrefix(line, "USER:"):
			flush()
			role, body = llm.RoleUser, []string{strings.TrimPrefix(line, "USER:")}
		case strings.HasPrefix(line, "ASSISTANT:"):
			flush()
			role, body = llm.RoleAssistant, []string{strings.TrimPrefix(line, "ASSISTANT:")}
		default:
			body = append(body, line)
		}
	}
	flush()
	return messages
}

// Cast renders the data conversion prompt.
func Cast(data, instructions, responseFormat string) ([]llm.ChatMessage, error) {
	return render("cast", map[string]any{
		"Data":           data,
		"Instructions":   instructions,
		"ResponseFormat": responseFormat,
	})
}

// Extract renders the entity extraction prompt.
func Extract(data, instructions, responseFormat string) ([]llm.ChatMessage, error) {
	return render("extract", map[string]any{
		"Data":           data,
		"Instructions":   instructions,
		"ResponseFormat": responseFormat,
	})
}

// Generate renders the data generation prompt. previous lists earlier
// outputs for the same request, most recent first, so the model can avoid
// repeating itself.
func Generate(n int, instructions, responseFormat string, previous []string) ([]llm.ChatMessage, error) {
	return render("generate", map[string]any{
		"N":              n,
		"Instructions":   instructions,
		"ResponseFormat": responseFormat,
		"Previous":       previous,
	})
}

// Classify renders the labeling prompt. The transcript ends with an
// assistant prefill so the model's next token is the label number itself.
func Classify(data, instructions, additionalContext string, labels []string) ([]llm.ChatMessage, error) {
	return render("classify", map[string]any{
		"Data":              data,
		"Instructions":      instructions,
		"AdditionalContext": additionalContext,
		"Labels":            labels,
	})
}

// Function renders the prompt that asks the model to act as the body of a
// declared function. inputs lists the bound arguments as "name: value"
// pairs; withTools notes that some arguments are callable as tools.
func Function(definition string, inputs []string, context string, withTools bool) ([]llm.ChatMessage, error) {
	return render("function", map[string]any{
		"Definition": definition,
		"Inputs":     inputs,
		"Context":    context,
		"WithTools":  withTools,
	})
}

// Constraint renders the instructions block that asks whether data satisfies
// a set of natural-language constraints. It returns a string because it is
// embedded in the classification prompt, where the verdict comes back as a
// boolean label index.
func Constraint(constraints []string) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "constraint", map[string]any{"Constraints": constraints}); err != nil {
		return "", fmt.Errorf("rendering constraint prompt: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// TypeContext renders the additional-context block describing candidate
// types. It returns a string because it is embedded inside other prompts
// rather than sent on its own.
func TypeContext(infos []TypeInfo) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "type_context", map[string]any{"Infos": infos}); err != nil {
		return "", fmt.Errorf("rendering type_context prompt: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// TemplateExtraction renders the prompt that fills a curly-brace text
// template with values found in the data.
func TemplateExtraction(data, textTemplate string) ([]llm.ChatMessage, error) {
	return render("template_extraction", map[string]any{
		"Data":     data,
		"Template": textTemplate,
	})
}
