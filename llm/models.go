// Package llm provides shared data models for LLM providers.
package llm

import "encoding/json"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage represents a chat message with role and content.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For assistant messages with tool calls
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool result messages
}

// ToolCall represents a tool call requested by the LLM.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition defines a tool that the LLM can call.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    RoleSystem,
		Content: content,
	}
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    RoleUser,
		Content: content,
	}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    RoleAssistant,
		Content: content,
	}
}

// ToolResultMessage creates a tool result message answering a previous tool call.
func ToolResultMessage(toolCallID, content string) ChatMessage {
	return ChatMessage{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: toolCallID,
	}
}

// ToolChoiceMode controls how the model may use the supplied tools.
type ToolChoiceMode string

const (
	// ToolChoiceAuto lets the model decide whether to call a tool.
	ToolChoiceAuto ToolChoiceMode = "auto"
	// ToolChoiceRequired forces the model to call some tool.
	ToolChoiceRequired ToolChoiceMode = "required"
	// ToolChoiceFunction forces the model to call one named tool.
	ToolChoiceFunction ToolChoiceMode = "function"
)

// ToolChoice selects how the model is allowed to answer when tools are present.
type ToolChoice struct {
	Mode ToolChoiceMode
	Name string // set when Mode == ToolChoiceFunction
}

// AutoToolChoice lets the model choose freely among the supplied tools.
func AutoToolChoice() *ToolChoice {
	return &ToolChoice{Mode: ToolChoiceAuto}
}

// RequiredToolChoice forces the model to call some tool.
func RequiredToolChoice() *ToolChoice {
	return &ToolChoice{Mode: ToolChoiceRequired}
}

// ForceTool forces the model to call the named tool.
func ForceTool(name string) *ToolChoice {
	return &ToolChoice{Mode: ToolChoiceFunction, Name: name}
}

// Request is a single chat completion request. Tool definitions, tool choice,
// and sampling parameters ride on every call so callers can vary them per turn.
type Request struct {
	Messages   []ChatMessage
	Tools      []ToolDefinition
	ToolChoice *ToolChoice

	// Sampling overrides. Nil/zero means the provider's configured default.
	Temperature *float32
	MaxTokens   int

	// LogitBias maps token IDs to additive bias. Providers without logit bias
	// support ignore it; callers relying on it must pair it with MaxTokens and
	// a prompt that makes the constrained output the only sensible reply.
	LogitBias map[int]int
}

// Temp returns a Temperature pointer for request literals.
func Temp(t float32) *float32 {
	return &t
}

// Response represents a response from an LLM provider.
type Response struct {
	Content   string
	ToolCalls []ToolCall // Tool calls requested by the LLM
	Usage     *TokenUsage
}

// Message converts the response into an assistant transcript message,
// preserving any tool calls so they can be answered on the next turn.
func (r Response) Message() ChatMessage {
	return ChatMessage{
		Role:      RoleAssistant,
		Content:   r.Content,
		ToolCalls: r.ToolCalls,
	}
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
