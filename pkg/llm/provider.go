package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// StreamDelta is one incremental piece of a streamed completion. When the
// provider hits an error mid-stream, the final delta carries Err and the
// channel is closed; consumers must treat the output as incomplete.
type StreamDelta struct {
	Text string
	Err  error
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Stream sends a chat history and returns an ordered channel of deltas.
	// The channel is closed after the final delta. Concatenating every
	// Text in order yields the same string Chat would have returned.
	Stream(ctx context.Context, history []Message, options ...Option) (<-chan StreamDelta, error)
}
