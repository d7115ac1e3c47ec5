package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one search run.
type SearchMetric struct {
	Budget      int // Time budget searched
	StartTime   time.Time
	Duration    time.Duration
	Expansions  int64 // Recursive search calls
	Evaluations int64 // Candidate paths scored
	Aborted     bool  // Stopped by a deadline, cancellation or expansion budget
}

// Collector hands out one Tracker per search. Implementations are safe to
// share between concurrent searches.
type Collector interface {
	Start(budget int) Tracker
}

// Tracker counts the work of a single search.
type Tracker interface {
	AddExpansion()
	AddEvaluation()
	SetAborted(value bool)
	Complete() SearchMetric
}

type collector struct{}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget int) Tracker {
	return newTracker(budget)
}

type tracker struct {
	budget      int
	startTime   time.Time
	expansions  atomic.Int64
	evaluations atomic.Int64
	aborted     atomic.Bool
}

func newTracker(budget int) *tracker {
	return &tracker{
		budget:    budget,
		startTime: time.Now(),
	}
}

func (m *tracker) AddExpansion() {
	m.expansions.Add(1)
}

func (m *tracker) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *tracker) SetAborted(value bool) {
	m.aborted.Store(value)
}

func (m *tracker) Complete() SearchMetric {
	return SearchMetric{
		Budget:      m.budget,
		StartTime:   m.startTime,
		Duration:    time.Since(m.startTime),
		Expansions:  m.expansions.Load(),
		Evaluations: m.evaluations.Load(),
		Aborted:     m.aborted.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget int) Tracker { return dummyTracker{} }

type dummyTracker struct{}

func (dummyTracker) AddExpansion() {}

func (dummyTracker) AddEvaluation() {}

func (dummyTracker) SetAborted(value bool) {}

func (dummyTracker) Complete() SearchMetric { return SearchMetric{} }
