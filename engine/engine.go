// Package engine implements structured generation on top of chat models:
// casting free-form data into typed values, constrained classification,
// entity extraction, bulk generation with repetition avoidance, declarative
// matching, and natural-language function contracts.
//
// Every operation funnels through a tool-forcing loop: the model is offered
// a final-response tool whose parameters are the JSON Schema of the desired
// value, auxiliary tools it may call along the way, and a bounded number of
// turns to get there.
//
// Information Hiding:
// - Prompt construction and transcript management
// - Tool-forcing loop mechanics and budgets
// - Token accounting and logit-bias construction
// - Generation history cache internals
package engine

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/richinex/typecast/config"
	"github.com/richinex/typecast/llm"
)

// Engine runs structured generation operations against one LLM client.
// It is safe for concurrent use.
type Engine struct {
	client   *llm.Client
	settings config.Settings
	cache    *generationCache

	tokOnce sync.Once
	tok     *tiktoken.Tiktoken
	tokErr  error
}

// New creates an engine backed by the given client and settings.
func New(client *llm.Client, settings config.Settings) *Engine {
	return &Engine{
		client:   client,
		settings: settings,
		cache:    newGenerationCache(settings.Cache),
	}
}

// Client returns the underlying LLM client.
func (e *Engine) Client() *llm.Client { return e.client }

// tokenizer returns the shared token encoder, initialized on first use.
// Returns nil when the encoding is unavailable; callers fall back to
// heuristics.
func (e *Engine) tokenizer() *tiktoken.Tiktoken {
	e.tokOnce.Do(func() {
		e.tok, e.tokErr = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	})
	if e.tokErr != nil {
		return nil
	}
	return e.tok
}

// countTokens estimates the token length of text. Without an encoder it
// approximates four characters per token.
func (e *Engine) countTokens(text string) int {
	if tok := e.tokenizer(); tok != nil {
		return len(tok.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

// supportsLogitBias reports whether the backing provider honors per-token
// bias, which the classifier uses to constrain output to label indices.
func (e *Engine) supportsLogitBias() bool {
	lb, ok := e.client.Provider().(llm.LogitBiaser)
	return ok && lb.SupportsLogitBias()
}
