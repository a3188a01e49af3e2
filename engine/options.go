package engine

import (
	"github.com/richinex/typecast/tools"
)

// CallOption customizes a single engine operation.
type CallOption func(*callConfig)

type callConfig struct {
	instructions string
	temperature  *float32
	maxToolUses  int
	registry     *tools.Registry
	noCache      bool
	concurrency  int
}

// newCallConfig applies defaults from engine settings, then the options.
func (e *Engine) newCallConfig(opts []CallOption) *callConfig {
	cfg := &callConfig{
		maxToolUses: e.settings.Engine.MaxToolUses,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxToolUses < 1 {
		cfg.maxToolUses = 1
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// WithInstructions adds caller guidance to the operation's prompt.
func WithInstructions(instructions string) CallOption {
	return func(cfg *callConfig) {
		cfg.instructions = instructions
	}
}

// WithTemperature overrides the sampling temperature for this operation.
func WithTemperature(t float32) CallOption {
	return func(cfg *callConfig) {
		cfg.temperature = &t
	}
}

// WithMaxToolUses bounds how many model turns the operation may take before
// it must deliver its final response.
func WithMaxToolUses(n int) CallOption {
	return func(cfg *callConfig) {
		cfg.maxToolUses = n
	}
}

// WithTools offers the registry's tools to the model alongside the
// final-response tool.
func WithTools(registry *tools.Registry) CallOption {
	return func(cfg *callConfig) {
		cfg.registry = registry
	}
}

// WithoutCache disables generation history for this operation: no prior
// outputs are replayed into the prompt and new outputs are not remembered.
func WithoutCache() CallOption {
	return func(cfg *callConfig) {
		cfg.noCache = true
	}
}

// WithConcurrency bounds how many items the batch operations work on at
// once. The default is 4.
func WithConcurrency(n int) CallOption {
	return func(cfg *callConfig) {
		cfg.concurrency = n
	}
}

// mergedInstructions joins caller instructions with target-attached ones.
func mergedInstructions(callerInstructions, targetInstructions string) string {
	switch {
	case callerInstructions == "":
		return targetInstructions
	case targetInstructions == "":
		return callerInstructions
	default:
		return callerInstructions + "\n" + targetInstructions
	}
}
