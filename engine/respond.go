package engine

import (
	"context"
	"encoding/json"
	"fmt"

	ijson "github.com/richinex/typecast/internal/json"
	"github.com/richinex/typecast/llm"
	"github.com/richinex/typecast/schema"
	"github.com/richinex/typecast/tools"
)

// respond runs the tool-forcing loop until the model delivers a final
// response that validates against the target, or the turn budget runs out.
//
// Turn policy: the model may call auxiliary tools freely on early turns. On
// the last turn, or on the turn after the model answered without calling any
// tool, the final-response tool is forced so every loop ends with a decodable
// answer or a validation failure to report.
func (e *Engine) respond(ctx context.Context, messages []llm.ChatMessage, final *schema.ToolSchema, cfg *callConfig) (any, error) {
	defs := []llm.ToolDefinition{final.Definition()}
	if cfg.registry != nil {
		defs = append(defs, cfg.registry.Definitions()...)
	}
	executor := tools.NewDefaultExecutor()

	transcript := append([]llm.ChatMessage(nil), messages...)
	mustAnswer := false

	for turn := 0; turn < cfg.maxToolUses; turn++ {
		req := llm.Request{
			Messages:    transcript,
			Tools:       defs,
			ToolChoice:  llm.AutoToolChoice(),
			Temperature: cfg.temperature,
		}
		if mustAnswer || turn == cfg.maxToolUses-1 {
			req.ToolChoice = llm.ForceTool(schema.FinalAnswerToolName)
		}

		resp, err := e.client.Complete(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("completion failed on turn %d: %w", turn+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			// The model chatted instead of using a tool. Keep its message in
			// the transcript and force the final-response tool next turn.
			transcript = append(transcript, resp.Message())
			mustAnswer = true
			continue
		}
		mustAnswer = false
		transcript = append(transcript, resp.Message())

		for _, call := range resp.ToolCalls {
			if call.Name == schema.FinalAnswerToolName {
				value, derr := final.DecodeCall(normalizeArgs(call.Arguments))
				if derr != nil {
					// A structurally invalid final answer is reported, not
					// retried. Auxiliary tool failures below stay in the loop.
					return nil, derr
				}
				return value, nil
			}

			result := e.runTool(ctx, executor, cfg.registry, call)
			transcript = append(transcript, llm.ToolResultMessage(call.ID, result))
		}
	}

	return nil, &ExhaustedError{Turns: cfg.maxToolUses}
}

// runTool dispatches one auxiliary tool call. Failures are reported to the
// model as tool output rather than aborting the loop.
func (e *Engine) runTool(ctx context.Context, executor *tools.Executor, registry *tools.Registry, call llm.ToolCall) string {
	if registry == nil {
		return fmt.Sprintf("Error: unknown tool %q", call.Name)
	}
	tool, ok := registry.Get(call.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", call.Name)
	}
	result, err := executor.Execute(ctx, tool, normalizeArgs(call.Arguments))
	if err != nil {
		return fmt.Sprintf("Error: %v", &ToolError{Tool: call.Name, Err: err})
	}
	if !result.Success() {
		return fmt.Sprintf("Error: %v", &ToolError{Tool: call.Name, Err: result.Error})
	}
	return result.Output
}

// normalizeArgs repairs tool arguments that arrive fenced or wrapped in
// prose, which smaller models occasionally produce.
func normalizeArgs(args json.RawMessage) json.RawMessage {
	if json.Valid(args) {
		return args
	}
	if raw, err := ijson.ExtractRaw(string(args)); err == nil {
		return raw
	}
	return args
}
