package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/intellicourse/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client  llms.Model
	options []llms.CallOption
	logger  *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(token(config.APIKey)),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	options := []llms.CallOption{llms.WithTemperature(config.Temperature)}
	if config.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(config.MaxTokens))
	}

	return &Completer{
		client:  client,
		options: options,
		logger:  slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends the prompt as a single human message and returns the
// generated text with surrounding whitespace removed.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("generating completion", "prompt_length", len(prompt))

	text, err := llms.GenerateFromSinglePrompt(ctx, c.client, prompt, c.options...)
	if err != nil {
		c.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	return strings.TrimSpace(text), nil
}
