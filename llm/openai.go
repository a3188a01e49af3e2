// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API
// - Tool choice and logit bias wire formats

package llm

import (
	"context"
	"fmt"
	"strconv"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// SupportsLogitBias reports that the OpenAI API honors per-token bias.
func (p *OpenAIProvider) SupportsLogitBias() bool {
	return true
}

// Complete sends a chat completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, buildOpenAIRequest(p.model, p.maxTokens, p.temperature, req))
	if err != nil {
		return Response{}, fmt.Errorf("chat completion failed: %w", err)
	}
	return parseOpenAIResponse(resp), nil
}

// buildOpenAIRequest converts a Request to the go-openai wire format. Shared
// by the OpenAI and DeepSeek providers (DeepSeek is OpenAI-compatible).
func buildOpenAIRequest(model string, maxTokens int, temperature float32, req Request) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    convertToOpenAIMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	if req.MaxTokens > 0 {
		out.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		out.Temperature = *req.Temperature
		if *req.Temperature == 0 {
			// go-openai treats 0 as unset; nudge to the smallest accepted value.
			out.Temperature = 1e-5
		}
	}

	for _, t := range req.Tools {
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	if req.ToolChoice != nil {
		switch req.ToolChoice.Mode {
		case ToolChoiceAuto:
			out.ToolChoice = "auto"
		case ToolChoiceRequired:
			out.ToolChoice = "required"
		case ToolChoiceFunction:
			out.ToolChoice = openai.ToolChoice{
				Type:     openai.ToolTypeFunction,
				Function: openai.ToolFunction{Name: req.ToolChoice.Name},
			}
		}
	}

	if len(req.LogitBias) > 0 {
		out.LogitBias = make(map[string]int, len(req.LogitBias))
		for tokenID, bias := range req.LogitBias {
			out.LogitBias[strconv.Itoa(tokenID)] = bias
		}
	}

	return out
}

// parseOpenAIResponse converts a go-openai response to our format.
func parseOpenAIResponse(resp openai.ChatCompletionResponse) Response {
	content := ""
	var toolCalls []ToolCall
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		for _, tc := range resp.Choices[0].Message.ToolCalls {
			toolCalls = append(toolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: []byte(tc.Function.Arguments),
			})
		}
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return Response{Content: content, ToolCalls: toolCalls, Usage: usage}
}

// convertToOpenAIMessages converts our ChatMessage to openai.ChatCompletionMessage,
// including assistant tool calls and tool result messages.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}

		if msg.ToolCallID != "" {
			oaiMsg.Role = openai.ChatMessageRoleTool
			oaiMsg.ToolCallID = msg.ToolCallID
		}

		result[i] = oaiMsg
	}
	return result
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
