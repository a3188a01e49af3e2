// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Tool and tool-choice wire formats
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a consistent interface for chat completions.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Complete sends a chat completion request. The request carries tool
	// definitions, tool choice, and per-call sampling overrides; fields the
	// provider cannot express (e.g. logit bias) are ignored.
	Complete(ctx context.Context, req Request) (Response, error)
}

// LogitBiaser is implemented by providers that honor Request.LogitBias.
// Callers that rely on token-level output constraints check this before
// depending on the bias taking effect.
type LogitBiaser interface {
	SupportsLogitBias() bool
}
