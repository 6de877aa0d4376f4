// Package metrics exports orchestration metrics to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/orchestrator"
	"github.com/prometheus/client_golang/prometheus"
)

// Monitor implements orchestrator.Monitor with Prometheus collectors.
type Monitor struct {
	invocations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	passages    prometheus.Histogram
	webResults  *prometheus.CounterVec
	summaries   prometheus.Counter
	inFlight    prometheus.Gauge
}

var _ orchestrator.Monitor = (*Monitor)(nil)

var (
	once           sync.Once
	defaultMonitor *Monitor
)

// Default returns a process-wide monitor registered with the default registry.
func Default() *Monitor {
	once.Do(func() {
		defaultMonitor = newMonitor()
		prometheus.MustRegister(defaultMonitor.Collectors()...)
	})
	return defaultMonitor
}

// NewMonitor creates a monitor and registers its collectors with reg.
func NewMonitor(reg prometheus.Registerer) (*Monitor, error) {
	m := newMonitor()
	if reg == nil {
		return m, nil
	}
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newMonitor() *Monitor {
	return &Monitor{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellicourse_invocations_total",
			Help: "Completed invocations by classification and answering tool",
		}, []string{"classification", "source_tool"}),

		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellicourse_invocation_failures_total",
			Help: "Invocations aborted by an upstream failure, by stage",
		}, []string{"stage"}),

		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intellicourse_invocation_latency_ms",
			Help:    "End-to-end latency of completed invocations in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 750, 1000, 1500, 2500, 5000, 10000, 20000},
		}, []string{"source_tool"}),

		passages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intellicourse_retrieved_passages",
			Help:    "Number of catalog passages used per course answer",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12, 20},
		}),

		webResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intellicourse_websearch_results_total",
			Help: "Web-search payloads by resolved shape",
		}, []string{"kind"}),

		summaries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intellicourse_summaries_total",
			Help: "Web answers condensed by the summarizer",
		}),

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "intellicourse_invocations_in_flight",
			Help: "Invocations currently running",
		}),
	}
}

// Collectors exposes all collectors for registration with a custom registry.
func (m *Monitor) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.invocations, m.failures, m.latency, m.passages, m.webResults, m.summaries, m.inFlight,
	}
}

// Start counts an invocation in flight.
func (m *Monitor) Start(_, _ string) {
	m.inFlight.Inc()
}

// AfterClassify records nothing; the label is counted once the invocation
// finishes.
func (m *Monitor) AfterClassify(_ string, _ core.Classification) {}

// AfterDispatch observes the passage count of a course lookup or the
// result kind of a web search.
func (m *Monitor) AfterDispatch(_ string, outcome orchestrator.Outcome) {
	switch outcome.Source {
	case core.SourceCourseInfo:
		m.passages.Observe(float64(outcome.Passages))
	case core.SourceWebSearch:
		m.webResults.WithLabelValues(outcome.WebKind.String()).Inc()
	}
}

// AfterSummarize counts a completed summary.
func (m *Monitor) AfterSummarize(_ string, _ string) {
	m.summaries.Inc()
}

// Finish counts the invocation by label and answering tool and observes its
// latency in milliseconds.
func (m *Monitor) Finish(_ string, state *core.State, elapsed time.Duration) {
	m.inFlight.Dec()
	label := state.Classification.Raw
	if state.Classification.Label == core.LabelUnrecognized {
		// raw model output is unbounded
		label = "unrecognized"
	}
	m.invocations.WithLabelValues(label, string(state.SourceTool)).Inc()
	m.latency.WithLabelValues(string(state.SourceTool)).Observe(float64(elapsed.Milliseconds()))
}

// Failed counts a failure against the stage that raised it.
func (m *Monitor) Failed(_ string, stage orchestrator.Stage, _ error) {
	m.inFlight.Dec()
	m.failures.WithLabelValues(stage.String()).Inc()
}
