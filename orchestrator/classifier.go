package orchestrator

import (
	"context"
	"log/slog"

	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
)

// Classifier labels questions using the answer-generation capability.
// Output is normalized and matched exactly; there is no retry on
// unexpected output.
type Classifier struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewClassifier creates a classifier over completer.
func NewClassifier(completer ai.Completer, logger *slog.Logger) (*Classifier, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{completer: completer, logger: logger}, nil
}

// Classify asks the model for a label and parses its raw output.
func (c *Classifier) Classify(ctx context.Context, question string) (core.Classification, error) {
	prompt, err := renderClassifier(question)
	if err != nil {
		return core.Classification{}, err
	}

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return core.Classification{}, err
	}

	classification := core.ParseClassification(raw)
	if classification.Label == core.LabelUnrecognized {
		c.logger.Warn("unrecognized classification", "raw", classification.Raw)
	}
	return classification, nil
}
