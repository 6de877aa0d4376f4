package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/intellicourse/ai/mock"
	"github.com/poiesic/intellicourse/core"
	"github.com/poiesic/intellicourse/websearch"
)

type fakeRetriever struct {
	mu       sync.Mutex
	passages []core.ScoredPassage
	err      error
	queries  []string
	ks       []int
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]core.ScoredPassage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.ks = append(f.ks, k)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.passages) > k {
		return f.passages[:k], nil
	}
	return f.passages, nil
}

func (f *fakeRetriever) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeSearcher struct {
	mu      sync.Mutex
	result  websearch.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (websearch.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func (f *fakeSearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// scriptedCompleter answers each prompt kind with a fixed response.
type scriptedCompleter struct {
	label   string
	course  string
	summary string

	classifyErr  error
	courseErr    error
	summarizeErr error
}

func (s *scriptedCompleter) complete(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.HasSuffix(prompt, "Classification:"):
		return s.label, s.classifyErr
	case strings.HasSuffix(prompt, "Short answer:"):
		return s.summary, s.summarizeErr
	default:
		return s.course, s.courseErr
	}
}

func (s *scriptedCompleter) mock() *mock.MockCompleter {
	m := mock.NewMockCompleter()
	m.CompleteFunc = s.complete
	return m
}

func catalogPassages() []core.ScoredPassage {
	texts := []string{
		"CS301 Algorithms. Prerequisites: CS201 and MATH210.",
		"CS201 Data Structures. Prerequisite: CS101.",
		"MATH210 Discrete Mathematics.",
		"CS101 Introduction to Programming.",
		"PSY101 Introduction to Psychology.",
	}
	out := make([]core.ScoredPassage, len(texts))
	for i, text := range texts {
		out[i] = core.ScoredPassage{
			Passage: &core.Passage{Source: "data/CS_Catalog.pdf", Chunk: i, Text: text},
			Score:   1 - float32(i)/10,
		}
	}
	return out
}

type monitorEvent struct {
	requestID string
	name      string
}

type recordingMonitor struct {
	mu       sync.Mutex
	events   []monitorEvent
	outcome  Outcome
	failedAt Stage
	elapsed  time.Duration
}

func (r *recordingMonitor) record(requestID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, monitorEvent{requestID: requestID, name: name})
}

func (r *recordingMonitor) Start(requestID, _ string) { r.record(requestID, "start") }

func (r *recordingMonitor) AfterClassify(requestID string, _ core.Classification) {
	r.record(requestID, "classify")
}

func (r *recordingMonitor) AfterDispatch(requestID string, outcome Outcome) {
	r.mu.Lock()
	r.outcome = outcome
	r.mu.Unlock()
	r.record(requestID, "dispatch")
}

func (r *recordingMonitor) AfterSummarize(requestID string, _ string) {
	r.record(requestID, "summarize")
}

func (r *recordingMonitor) Finish(requestID string, _ *core.State, elapsed time.Duration) {
	r.mu.Lock()
	r.elapsed = elapsed
	r.mu.Unlock()
	r.record(requestID, "finish")
}

func (r *recordingMonitor) Failed(requestID string, stage Stage, _ error) {
	r.mu.Lock()
	r.failedAt = stage
	r.mu.Unlock()
	r.record(requestID, "failed")
}

func (r *recordingMonitor) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.name
	}
	return names
}
