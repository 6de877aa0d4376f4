package orchestrator

import (
	"context"

	"github.com/poiesic/intellicourse/ai"
)

// Summarizer condenses a verbose answer into one or two lines drawn only
// from that answer.
type Summarizer struct {
	completer ai.Completer
}

// NewSummarizer creates a summarizer over completer.
func NewSummarizer(completer ai.Completer) (*Summarizer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	return &Summarizer{completer: completer}, nil
}

// Summarize answers question from evidence alone.
func (s *Summarizer) Summarize(ctx context.Context, question, evidence string) (string, error) {
	prompt, err := renderSummarizer(evidence, question)
	if err != nil {
		return "", err
	}
	return s.completer.Complete(ctx, prompt)
}
