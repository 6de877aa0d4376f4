package orchestrator

import (
	"time"

	"github.com/poiesic/intellicourse/core"
)

// Monitor provides hooks to observe an invocation.
// Implementations are called synchronously from Invoke and must be safe for
// concurrent use when the Orchestrator serves concurrent callers.
type Monitor interface {
	Start(requestID, question string)
	AfterClassify(requestID string, classification core.Classification)
	AfterDispatch(requestID string, outcome Outcome)
	AfterSummarize(requestID string, summary string)
	Finish(requestID string, state *core.State, elapsed time.Duration)
	Failed(requestID string, stage Stage, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                               {}
func (n *noopMonitor) AfterClassify(_ string, _ core.Classification)   {}
func (n *noopMonitor) AfterDispatch(_ string, _ Outcome)               {}
func (n *noopMonitor) AfterSummarize(_ string, _ string)               {}
func (n *noopMonitor) Finish(_ string, _ *core.State, _ time.Duration) {}
func (n *noopMonitor) Failed(_ string, _ Stage, _ error)               {}
