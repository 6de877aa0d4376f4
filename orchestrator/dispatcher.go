package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/retrieval"
	"github.com/poiesic/intellicourse/websearch"
)

// Outcome is what one capability produced for a question.
type Outcome struct {
	Answer  string
	Context string
	Source  core.SourceTool
	// Passages is the number of passages retrieved on the course path.
	Passages int
	// WebKind is the resolved payload shape on the web path.
	WebKind websearch.Kind
}

// Dispatcher routes a classified question to exactly one capability.
type Dispatcher struct {
	completer ai.Completer
	retriever retrieval.Retriever
	searcher  websearch.Searcher
	k         int
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher that fetches k passages on the course path.
func NewDispatcher(
	completer ai.Completer,
	retriever retrieval.Retriever,
	searcher websearch.Searcher,
	k int,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, k)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		completer: completer,
		retriever: retriever,
		searcher:  searcher,
		k:         k,
		logger:    logger,
	}, nil
}

// Dispatch answers question with the capability selected by classification.
// An unrecognized label yields the fallback answer, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, question string, classification core.Classification) (Outcome, error) {
	switch classification.Label {
	case core.LabelCourseInfo:
		return d.courseInfo(ctx, question)
	case core.LabelWebSearch:
		return d.webSearch(ctx, question)
	case core.LabelUnrecognized:
		return fallback(), nil
	default:
		return fallback(), nil
	}
}

func (d *Dispatcher) courseInfo(ctx context.Context, question string) (Outcome, error) {
	passages, err := d.retriever.Search(ctx, question, d.k)
	if err != nil {
		return Outcome{}, fmt.Errorf("retrieve: %w", err)
	}
	joined := retrieval.JoinContext(passages)
	d.logger.Debug("retrieved passages", "count", len(passages))

	prompt, err := renderCourse(joined, question)
	if err != nil {
		return Outcome{}, err
	}
	answer, err := d.completer.Complete(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("answer: %w", err)
	}

	return Outcome{
		Answer:   answer,
		Context:  joined,
		Source:   core.SourceCourseInfo,
		Passages: len(passages),
	}, nil
}

func (d *Dispatcher) webSearch(ctx context.Context, question string) (Outcome, error) {
	result, err := d.searcher.Search(ctx, question)
	if err != nil {
		return Outcome{}, fmt.Errorf("web search: %w", err)
	}
	d.logger.Debug("web search resolved", "kind", result.Kind)

	return Outcome{
		Answer:  result.Answer,
		Context: result.Context,
		Source:  core.SourceWebSearch,
		WebKind: result.Kind,
	}, nil
}

func fallback() Outcome {
	return Outcome{Answer: core.FallbackAnswer, Source: core.SourceNone}
}
