// Package llm provides an abstraction over local LLM inference for the
// explain command.
//
// The core normalizer is fully deterministic; this package only powers the
// opt-in surface that asks a local model to describe line formats the rule
// classifier rejected. It defines a Provider interface so the consuming
// code is not coupled to a specific backend; Ollama is the only supported
// backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/llm/ollama"
)

// Provider defines the interface for LLM interactions.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Chat sends messages and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// ChatStream sends messages and returns a channel of streaming events.
	// The channel is closed when the stream completes or fails.
	ChatStream(ctx context.Context, messages []Message, opts *ChatOptions) (<-chan StreamEvent, error)

	// Heartbeat checks if the provider is reachable and healthy.
	Heartbeat(ctx context.Context) error

	// ModelAvailable checks if a specific model has been pulled.
	ModelAvailable(ctx context.Context, model string) (bool, error)
}

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender: "system", "user", or "assistant"
	Role string

	// Content is the message text
	Content string
}

// ChatOptions configures chat behavior. All fields are optional; nil opts
// uses provider defaults.
type ChatOptions struct {
	// Model specifies which model to use (e.g., "llama3.2")
	Model string

	// Temperature controls randomness; 0 keeps format analysis consistent
	Temperature float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int
}

// Response represents a complete LLM response.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

// StreamEvent represents a single event in a streaming response.
type StreamEvent struct {
	// Content is the incremental text chunk
	Content string

	// Done indicates the final event in the stream
	Done bool

	// Error terminates the stream when non-nil
	Error error
}

// Common errors returned by LLM providers.
var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrModelNotFound       = errors.New("requested model is not available")
)

// NewProvider creates an LLM provider based on the configuration.
func NewProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	providerType := strings.ToLower(cfg.LLM.Provider)
	logger.Debug("creating llm provider", "type", providerType)

	switch providerType {
	case "ollama":
		ollamaProvider, err := ollama.New(ollama.Config{
			Host:  cfg.LLM.Ollama.Host,
			Model: cfg.LLM.Ollama.Model,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &ollamaProviderAdapter{provider: ollamaProvider}, nil

	case "":
		return nil, errors.New("llm provider not specified in configuration")

	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: ollama)", providerType)
	}
}

// ollamaProviderAdapter adapts the ollama.Provider to the llm.Provider
// interface. The ollama package defines its own mirror types to avoid an
// import cycle.
type ollamaProviderAdapter struct {
	provider *ollama.Provider
}

func (a *ollamaProviderAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	resp, err := a.provider.Chat(ctx, toOllamaMessages(messages), toOllamaOptions(opts))
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *ollamaProviderAdapter) ChatStream(ctx context.Context, messages []Message, opts *ChatOptions) (<-chan StreamEvent, error) {
	ollamaStream, err := a.provider.ChatStream(ctx, toOllamaMessages(messages), toOllamaOptions(opts))
	if err != nil {
		return nil, err
	}

	eventChan := make(chan StreamEvent, 10)
	go func() {
		defer close(eventChan)
		for ollamaEvent := range ollamaStream {
			eventChan <- StreamEvent{
				Content: ollamaEvent.Content,
				Done:    ollamaEvent.Done,
				Error:   ollamaEvent.Error,
			}
		}
	}()

	return eventChan, nil
}

func (a *ollamaProviderAdapter) Heartbeat(ctx context.Context) error {
	return a.provider.Heartbeat(ctx)
}

func (a *ollamaProviderAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	return a.provider.ModelAvailable(ctx, model)
}

func toOllamaMessages(messages []Message) []ollama.Message {
	out := make([]ollama.Message, len(messages))
	for i, msg := range messages {
		out[i] = ollama.Message{Role: msg.Role, Content: msg.Content}
	}
	return out
}

func toOllamaOptions(opts *ChatOptions) *ollama.ChatOptions {
	if opts == nil {
		return nil
	}
	return &ollama.ChatOptions{
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
}
