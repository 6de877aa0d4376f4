package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/intellicourse/ai"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/retrieval"
	"github.com/poiesic/intellicourse/websearch"
)

// Stage is a state of the orchestration machine.
type Stage int

const (
	StageRouter Stage = iota
	StageExecuteTool
	StageSummarize
	StageEnd
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageRouter:
		return "router"
	case StageExecuteTool:
		return "execute_tool"
	case StageSummarize:
		return "summarize"
	case StageEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Orchestrator sequences classification, dispatch and conditional summarization.
type Orchestrator struct {
	classifier *Classifier
	dispatcher *Dispatcher
	summarizer *Summarizer
	monitor    Monitor
	topK       int
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithTopK sets how many passages the course path retrieves.
// Default is retrieval.DefaultK.
func WithTopK(k int) Option {
	return func(o *Orchestrator) error {
		if k < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidTopK, k)
		}
		o.topK = k
		return nil
	}
}

// WithMonitor installs an observer for every invocation.
// A nil monitor disables observation.
func WithMonitor(monitor Monitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// New creates an orchestrator over the three capabilities.
func New(
	completer ai.Completer,
	retriever retrieval.Retriever,
	searcher websearch.Searcher,
	opts ...Option,
) (*Orchestrator, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	o := &Orchestrator{
		monitor: &noopMonitor{},
		topK:    retrieval.DefaultK,
		logger:  slog.Default().With("component", "orchestrator"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	var err error
	if o.classifier, err = NewClassifier(completer, o.logger); err != nil {
		return nil, err
	}
	if o.dispatcher, err = NewDispatcher(completer, retriever, searcher, o.topK, o.logger); err != nil {
		return nil, err
	}
	if o.summarizer, err = NewSummarizer(completer); err != nil {
		return nil, err
	}
	return o, nil
}

// Invoke answers question and returns the completed state. The answer is the
// content of the state's last message. Any capability failure aborts the run
// and is returned wrapped with the failing stage.
func (o *Orchestrator) Invoke(ctx context.Context, question string) (*core.State, error) {
	requestID := uuid.NewString()
	logger := o.logger.With("request_id", requestID)
	started := time.Now()

	state := core.NewState(question)
	o.monitor.Start(requestID, question)

	for stage := StageRouter; stage != StageEnd; {
		next, err := o.step(ctx, requestID, stage, state)
		if err != nil {
			logger.Error("invocation failed", "stage", stage, "err", err)
			o.monitor.Failed(requestID, stage, err)
			return nil, err
		}
		logger.Debug("stage complete", "stage", stage, "next", next)
		stage = next
	}

	elapsed := time.Since(started)
	logger.Info("question answered",
		"classification", state.Classification.String(),
		"source_tool", state.SourceTool,
		"elapsed", elapsed)
	o.monitor.Finish(requestID, state, elapsed)
	return state, nil
}

// step executes one stage and returns the stage to run next.
func (o *Orchestrator) step(ctx context.Context, requestID string, stage Stage, state *core.State) (Stage, error) {
	switch stage {
	case StageRouter:
		classification, err := o.classifier.Classify(ctx, state.Question())
		if err != nil {
			return StageEnd, fmt.Errorf("orchestrator: classify: %w", err)
		}
		state.Classification = classification
		o.monitor.AfterClassify(requestID, classification)
		return StageExecuteTool, nil

	case StageExecuteTool:
		outcome, err := o.dispatcher.Dispatch(ctx, state.Question(), state.Classification)
		if err != nil {
			return StageEnd, fmt.Errorf("orchestrator: dispatch: %w", err)
		}
		state.Conversation.Append(core.RoleAssistant, outcome.Answer)
		state.SourceTool = outcome.Source
		state.RetrievedContext = outcome.Context
		o.monitor.AfterDispatch(requestID, outcome)
		return afterTool(state.Classification), nil

	case StageSummarize:
		raw, _ := state.Conversation.LastOf(core.RoleAssistant)
		summary, err := o.summarizer.Summarize(ctx, state.Question(), raw.Content)
		if err != nil {
			return StageEnd, fmt.Errorf("orchestrator: summarize: %w", err)
		}
		state.Conversation.Append(core.RoleAssistant, summary)
		o.monitor.AfterSummarize(requestID, summary)
		return StageEnd, nil

	default:
		return StageEnd, fmt.Errorf("orchestrator: %w: %s", ErrInvalidStage, stage)
	}
}

// afterTool is the conditional edge leaving ExecuteTool: only web answers
// are summarized.
func afterTool(classification core.Classification) Stage {
	if classification.Label == core.LabelWebSearch {
		return StageSummarize
	}
	return StageEnd
}
