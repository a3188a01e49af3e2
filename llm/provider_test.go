package llm

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		input string
		want  ProviderType
	}{
		{"openai", ProviderOpenAI},
		{"gpt", ProviderOpenAI},
		{"OpenAI", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"claude", ProviderAnthropic},
		{"deepseek", ProviderDeepSeek},
		{"gemini", ProviderGemini},
		{"google", ProviderGemini},
	}

	for _, tc := range cases {
		got, err := ParseProviderType(tc.input)
		if err != nil {
			t.Fatalf("ParseProviderType(%q) failed: %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("cohere"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderTypeSupportsLogitBias(t *testing.T) {
	if !ProviderOpenAI.SupportsLogitBias() {
		t.Error("openai should support logit bias")
	}
	if !ProviderDeepSeek.SupportsLogitBias() {
		t.Error("deepseek should support logit bias")
	}
	if ProviderAnthropic.SupportsLogitBias() {
		t.Error("anthropic should not support logit bias")
	}
	if ProviderGemini.SupportsLogitBias() {
		t.Error("gemini should not support logit bias")
	}
}

func TestProviderTypeDefaults(t *testing.T) {
	for _, p := range []ProviderType{ProviderOpenAI, ProviderAnthropic, ProviderDeepSeek, ProviderGemini} {
		if p.DefaultModel() == "" {
			t.Errorf("%s has no default model", p)
		}
		if p.EnvVar() == "" {
			t.Errorf("%s has no API key env var", p)
		}
	}
}

func TestProviderLogitBiasCapability(t *testing.T) {
	var provider Provider = NewOpenAIProvider("key", ModelOpenAIGPT4o, 1024, 0.7)
	biaser, ok := provider.(LogitBiaser)
	if !ok || !biaser.SupportsLogitBias() {
		t.Error("OpenAI provider should advertise logit bias support")
	}

	provider = NewDeepSeekProvider("key", ModelDeepSeekChat, 1024, 0.7)
	biaser, ok = provider.(LogitBiaser)
	if !ok || !biaser.SupportsLogitBias() {
		t.Error("DeepSeek provider should advertise logit bias support")
	}
}

func TestBuildOpenAIRequestDefaults(t *testing.T) {
	req := Request{Messages: []ChatMessage{UserMessage("hi")}}
	out := buildOpenAIRequest("gpt-4o", 2048, 0.7, req)

	if out.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", out.Model)
	}
	if out.MaxTokens != 2048 {
		t.Errorf("expected configured max tokens, got %d", out.MaxTokens)
	}
	if out.Temperature != 0.7 {
		t.Errorf("expected configured temperature, got %g", out.Temperature)
	}
	if out.ToolChoice != nil {
		t.Errorf("expected no tool choice, got %v", out.ToolChoice)
	}
}

func TestBuildOpenAIRequestOverrides(t *testing.T) {
	req := Request{
		Messages:    []ChatMessage{UserMessage("hi")},
		Temperature: Temp(0.2),
		MaxTokens:   5,
	}
	out := buildOpenAIRequest("gpt-4o", 2048, 0.7, req)

	if out.MaxTokens != 5 {
		t.Errorf("expected per-request max tokens, got %d", out.MaxTokens)
	}
	if out.Temperature != 0.2 {
		t.Errorf("expected per-request temperature, got %g", out.Temperature)
	}
}

func TestBuildOpenAIRequestZeroTemperatureNudge(t *testing.T) {
	req := Request{
		Messages:    []ChatMessage{UserMessage("hi")},
		Temperature: Temp(0),
	}
	out := buildOpenAIRequest("gpt-4o", 2048, 0.7, req)

	// go-openai drops a literal zero from the payload, so an explicit zero
	// must survive as the smallest accepted value.
	if out.Temperature != 1e-5 {
		t.Errorf("expected nudged temperature 1e-5, got %g", out.Temperature)
	}
}

func TestBuildOpenAIRequestToolChoice(t *testing.T) {
	base := Request{Messages: []ChatMessage{UserMessage("hi")}}

	auto := base
	auto.ToolChoice = AutoToolChoice()
	if out := buildOpenAIRequest("gpt-4o", 2048, 0.7, auto); out.ToolChoice != "auto" {
		t.Errorf("expected tool choice auto, got %v", out.ToolChoice)
	}

	required := base
	required.ToolChoice = RequiredToolChoice()
	if out := buildOpenAIRequest("gpt-4o", 2048, 0.7, required); out.ToolChoice != "required" {
		t.Errorf("expected tool choice required, got %v", out.ToolChoice)
	}

	forced := base
	forced.ToolChoice = ForceTool("FormatFinalResponse")
	out := buildOpenAIRequest("gpt-4o", 2048, 0.7, forced)
	choice, ok := out.ToolChoice.(openai.ToolChoice)
	if !ok {
		t.Fatalf("expected structured tool choice, got %T", out.ToolChoice)
	}
	if choice.Function.Name != "FormatFinalResponse" {
		t.Errorf("expected forced function name, got %q", choice.Function.Name)
	}
}

func TestBuildOpenAIRequestLogitBias(t *testing.T) {
	req := Request{
		Messages:  []ChatMessage{UserMessage("hi")},
		LogitBias: map[int]int{15: 100, 16: 100},
	}
	out := buildOpenAIRequest("gpt-4o", 2048, 0.7, req)

	if len(out.LogitBias) != 2 {
		t.Fatalf("expected 2 bias entries, got %d", len(out.LogitBias))
	}
	if out.LogitBias["15"] != 100 || out.LogitBias["16"] != 100 {
		t.Errorf("expected string token keys with bias 100, got %v", out.LogitBias)
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	messages := []ChatMessage{
		SystemMessage("be terse"),
		UserMessage("question"),
		{
			Role: RoleAssistant,
			ToolCalls: []ToolCall{
				{ID: "call-1", Name: "lookup", Arguments: json.RawMessage(`{"q":"x"}`)},
			},
		},
		ToolResultMessage("call-1", "answer"),
	}

	out := convertToOpenAIMessages(messages)
	if len(out) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(out))
	}
	if out[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("expected system role, got %q", out[0].Role)
	}
	if len(out[2].ToolCalls) != 1 || out[2].ToolCalls[0].Function.Name != "lookup" {
		t.Errorf("tool call not preserved: %+v", out[2].ToolCalls)
	}
	if out[3].Role != openai.ChatMessageRoleTool || out[3].ToolCallID != "call-1" {
		t.Errorf("tool result not mapped to tool role: %+v", out[3])
	}
}

func TestResponseMessagePreservesToolCalls(t *testing.T) {
	resp := Response{
		Content:   "thinking",
		ToolCalls: []ToolCall{{ID: "c1", Name: "lookup"}},
	}

	msg := resp.Message()
	if msg.Role != RoleAssistant {
		t.Errorf("expected assistant role, got %q", msg.Role)
	}
	if len(msg.ToolCalls) != 1 {
		t.Errorf("expected tool calls preserved, got %d", len(msg.ToolCalls))
	}
}

func TestTokenUsageAdd(t *testing.T) {
	usage := &TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	usage.Add(&TokenUsage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5})

	if usage.TotalTokens != 20 {
		t.Errorf("expected total 20, got %d", usage.TotalTokens)
	}
	usage.Add(nil)
	if usage.TotalTokens != 20 {
		t.Errorf("nil add should be a no-op, got %d", usage.TotalTokens)
	}
}
