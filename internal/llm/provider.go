// Package llm talks to text-generation backends behind one small interface.
package llm

import "context"

// Provider generates text from a prompt.
type Provider interface {
	// Generate sends the request and returns the model's text. Errors are
	// classified: *ErrRateLimit and *ErrProviderUnavailable are transient,
	// anything else is terminal.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints. Optional.
	System string

	// Prompt is the single user turn.
	Prompt string

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Response holds the model's output.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
