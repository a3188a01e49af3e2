package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/richinex/typecast/llm"
	"github.com/richinex/typecast/prompt"
	"github.com/richinex/typecast/schema"
)

// Classify labels data as one of the target's labels and returns the decoded
// value. The target must be a label set (Bool, Labels, Enum).
//
// The call is made at temperature zero with output constrained to a label
// index: on providers with logit bias support only index digits can be
// produced, elsewhere the transcript's assistant prefill plus a tight token
// limit keep the model on a bare number.
func (e *Engine) Classify(ctx context.Context, data string, target schema.Target, opts ...CallOption) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("classification requires a label-set target")
	}
	ls, ok := schema.AsLabelSet(target)
	if !ok {
		return nil, fmt.Errorf("classification target %s is not a label set", target.Name())
	}
	cfg := e.newCallConfig(opts)
	idx, err := e.classifyLabels(ctx, data, mergedInstructions(cfg.instructions, target.Instructions()), "", ls.Labels())
	if err != nil {
		return nil, err
	}
	return ls.DecodeIndex(idx)
}

// classifyLabels runs one constrained classification call and returns the
// chosen label index.
func (e *Engine) classifyLabels(ctx context.Context, data, instructions, additionalContext string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, fmt.Errorf("classification requires at least one label")
	}

	messages, err := prompt.Classify(data, instructions, additionalContext, labels)
	if err != nil {
		return 0, err
	}

	req := llm.Request{
		Messages:    messages,
		Temperature: llm.Temp(0),
		MaxTokens:   maxIndexTokens(len(labels)),
	}
	if e.supportsLogitBias() {
		req.LogitBias = e.indexTokenBias(len(labels))
	}

	resp, err := e.client.Complete(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("classification call failed: %w", err)
	}

	return ParseLabelIndex(resp.Content, len(labels))
}

// ResolveLabel returns the decoded label when the candidate already names one
// of the target's labels verbatim, and otherwise classifies the candidate
// into the label set with a model call.
func (e *Engine) ResolveLabel(ctx context.Context, candidate string, target schema.Target, opts ...CallOption) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("label resolution requires a label-set target")
	}
	ls, ok := schema.AsLabelSet(target)
	if !ok {
		return nil, fmt.Errorf("label resolution target %s is not a label set", target.Name())
	}
	for i, label := range ls.Labels() {
		if label == candidate {
			return ls.DecodeIndex(i)
		}
	}
	return e.Classify(ctx, candidate, target, opts...)
}

// ParseLabelIndex parses raw classifier output into a label index, accepting
// only a bare number within range.
func ParseLabelIndex(output string, numLabels int) (int, error) {
	trimmed := strings.TrimSpace(output)
	trimmed = strings.TrimSuffix(trimmed, ".")
	trimmed = strings.TrimPrefix(trimmed, "#")

	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ClassificationError{Output: output, NumLabels: numLabels}
	}
	if idx < 0 || idx >= numLabels {
		return 0, &ClassificationError{Output: output, NumLabels: numLabels}
	}
	return idx, nil
}

// indexTokenBias builds a logit bias that makes the digit tokens of valid
// label indices overwhelmingly likely.
func (e *Engine) indexTokenBias(numLabels int) map[int]int {
	tok := e.tokenizer()
	if tok == nil {
		return nil
	}
	bias := make(map[int]int)
	for i := 0; i < numLabels; i++ {
		for _, id := range tok.Encode(strconv.Itoa(i), nil, nil) {
			bias[id] = 100
		}
	}
	return bias
}

// maxIndexTokens returns how many completion tokens the largest valid label
// index needs. Indices below 100 fit in a single token on current encodings.
func maxIndexTokens(numLabels int) int {
	if numLabels <= 100 {
		return 1
	}
	return 2
}
