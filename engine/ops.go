package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/richinex/typecast/prompt"
	"github.com/richinex/typecast/schema"
)

// Cast converts free-form data into a value of the target shape.
//
// Label-set targets without auxiliary tools skip the tool loop entirely and
// resolve through a single constrained classification call.
func (e *Engine) Cast(ctx context.Context, data string, target schema.Target, opts ...CallOption) (any, error) {
	cfg := e.newCallConfig(opts)
	target, err := defaultTarget(target, cfg)
	if err != nil {
		return nil, err
	}

	if ls, ok := schema.AsLabelSet(target); ok && cfg.registry == nil {
		idx, err := e.classifyLabels(ctx, data, mergedInstructions(cfg.instructions, target.Instructions()), "", ls.Labels())
		if err != nil {
			return nil, err
		}
		return ls.DecodeIndex(idx)
	}

	instructions := e.instructionsFor(cfg, target)
	schemaJSON, err := json.Marshal(target.Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling target schema: %w", err)
	}
	messages, err := prompt.Cast(data, instructions, string(schemaJSON))
	if err != nil {
		return nil, err
	}

	value, err := e.respond(ctx, messages, schema.FinalAnswerTool(target), cfg)
	if err != nil {
		return nil, err
	}
	if err := e.checkTargetConstraints(ctx, target, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Extract pulls every entity of the target shape out of the data.
func (e *Engine) Extract(ctx context.Context, data string, target schema.Target, opts ...CallOption) ([]any, error) {
	cfg := e.newCallConfig(opts)
	target, err := defaultTarget(target, cfg)
	if err != nil {
		return nil, err
	}

	listTarget := schema.List(target)
	instructions := e.instructionsFor(cfg, target)
	schemaJSON, err := json.Marshal(listTarget.Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling target schema: %w", err)
	}
	messages, err := prompt.Extract(data, instructions, string(schemaJSON))
	if err != nil {
		return nil, err
	}

	value, err := e.respond(ctx, messages, schema.FinalAnswerTool(listTarget), cfg)
	if err != nil {
		return nil, err
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("extraction produced %T, expected a list", value)
	}
	return items, nil
}

// Generate produces n fresh examples of the target shape. Prior outputs for
// the same target, instructions, and temperature are replayed into the
// prompt, most recent first within a token budget, so repeated calls avoid
// repeating themselves.
//
// When the model returns fewer items than requested, Generate asks again up
// to Engine.GenerateAttempts times (ENGINE_GENERATE_ATTEMPTS) and reports a
// ShortfallError if the count is still short.
func (e *Engine) Generate(ctx context.Context, target schema.Target, n int, opts ...CallOption) ([]any, error) {
	if n < 1 {
		return nil, fmt.Errorf("generate requires n >= 1, got %d", n)
	}
	cfg := e.newCallConfig(opts)
	target, err := defaultTarget(target, cfg)
	if err != nil {
		return nil, err
	}

	instructions := e.instructionsFor(cfg, target)
	listTarget := schema.List(target)
	schemaJSON, err := json.Marshal(listTarget.Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling target schema: %w", err)
	}

	key := cacheKey(target, instructions, e.effectiveTemperature(cfg))
	var previous []string
	if !cfg.noCache {
		previous = e.cache.recent(key, e.countTokens, e.settings.Cache.PromptTokenBudget)
	}

	attempts := e.settings.Engine.GenerateAttempts
	if attempts < 1 {
		attempts = 1
	}
	var items []any
	for attempt := 0; attempt < attempts; attempt++ {
		messages, perr := prompt.Generate(n, instructions, string(schemaJSON), previous)
		if perr != nil {
			return nil, perr
		}
		value, rerr := e.respond(ctx, messages, schema.FinalAnswerTool(listTarget), cfg)
		if rerr != nil {
			return nil, rerr
		}
		got, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("generation produced %T, expected a list", value)
		}
		if len(got) >= n {
			items = got[:n]
			break
		}
		items = got
	}
	if len(items) < n {
		return nil, &ShortfallError{Requested: n, Produced: len(items)}
	}

	if !cfg.noCache {
		encoded := make([]string, 0, len(items))
		for _, item := range items {
			if data, merr := json.Marshal(item); merr == nil {
				encoded = append(encoded, string(data))
			}
		}
		e.cache.remember(key, encoded)
	}
	return items, nil
}

var slotPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// FillTemplate extracts values for a text template's {slot} variables from
// the data. Slots with no supporting data come back nil.
func (e *Engine) FillTemplate(ctx context.Context, data, template string, opts ...CallOption) (map[string]any, error) {
	cfg := e.newCallConfig(opts)

	matches := slotPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("template %q has no {slot} variables", template)
	}
	seen := make(map[string]bool, len(matches))
	slots := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			slots = append(slots, m[1])
		}
	}

	target := schema.Slots(slots...)
	messages, err := prompt.TemplateExtraction(data, template)
	if err != nil {
		return nil, err
	}
	value, err := e.respond(ctx, messages, schema.FinalAnswerTool(target), cfg)
	if err != nil {
		return nil, err
	}
	filled, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("template extraction produced %T, expected an object", value)
	}
	return filled, nil
}

// defaultTarget substitutes a string target when the caller supplies only
// instructions. A call with neither is a setup error.
func defaultTarget(target schema.Target, cfg *callConfig) (schema.Target, error) {
	if target != nil {
		return target, nil
	}
	if cfg.instructions == "" {
		return nil, fmt.Errorf("a target type or instructions are required")
	}
	return schema.String(), nil
}

// instructionsFor merges caller instructions, target-attached instructions,
// and the target's natural-language constraints into one prompt section.
func (e *Engine) instructionsFor(cfg *callConfig, target schema.Target) string {
	instructions := mergedInstructions(cfg.instructions, target.Instructions())
	constraints := schema.ConstraintsOf(target)
	if len(constraints) == 0 {
		return instructions
	}
	var b strings.Builder
	if instructions != "" {
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	b.WriteString("The value must satisfy all of these constraints:")
	for _, c := range constraints {
		b.WriteString("\n- ")
		b.WriteString(c)
	}
	return b.String()
}

// checkTargetConstraints validates a produced value against the target's
// natural-language constraints, honoring the scoped contract toggle.
func (e *Engine) checkTargetConstraints(ctx context.Context, target schema.Target, value any) error {
	constraints := schema.ConstraintsOf(target)
	if len(constraints) == 0 || !e.contractsEnabled(ctx) {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value for constraint check: %w", err)
	}
	ok, err := e.ValidateConstraints(ctx, string(data), constraints)
	if err != nil {
		return err
	}
	if !ok {
		return &PostconditionError{Function: "cast to " + target.Name(), Constraints: constraints}
	}
	return nil
}

// effectiveTemperature resolves the sampling temperature an operation will
// run with, for cache key purposes.
func (e *Engine) effectiveTemperature(cfg *callConfig) float32 {
	if cfg.temperature != nil {
		return *cfg.temperature
	}
	return float32(e.settings.LLM.Temperature)
}
