// Client - Simple wrapper around providers.

package llm

import (
	"context"
)

// Client wraps a Provider with a simple interface.
type Client struct {
	provider Provider
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Complete sends a chat completion request.
func (c *Client) Complete(ctx context.Context, req Request) (Response, error) {
	return c.provider.Complete(ctx, req)
}

// Chat sends a plain message exchange and returns just the content.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	response, err := c.provider.Complete(ctx, Request{Messages: messages})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

// Model returns the model of the underlying provider.
func (c *Client) Model() string {
	return c.provider.Model()
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
