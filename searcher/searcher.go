package searcher

import (
	"context"
	"errors"
	"fmt"
	"time"
	"valves/graph"
	"valves/metrics"
	"valves/plan"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidBudget  = errors.New("searcher: time budget must not be negative")
	ErrBudgetExceeded = errors.New("searcher: expansion budget exceeded")
	ErrSearchAborted  = errors.New("searcher: search aborted")
)

type Option func(s *Searcher)

// Searcher enumerates every action sequence up to the time budget and
// keeps the best scoring one. Every search gets its own run state and
// metrics tracker, so one Searcher can serve concurrent searches.
type Searcher struct {
	duration      time.Duration
	maxExpansions int64
	checkInterval int64
	metrics       metrics.Collector
}

// WithDuration sets a deadline relative to the start of each search.
func WithDuration(duration time.Duration) Option {
	return func(s *Searcher) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithMaxExpansions caps the number of recursive calls per search.
func WithMaxExpansions(expansions int) Option {
	return func(s *Searcher) {
		if expansions > 0 {
			s.maxExpansions = int64(expansions)
		}
	}
}

func WithCheckInterval(interval int) Option {
	return func(s *Searcher) {
		if interval > 0 {
			s.checkInterval = int64(interval)
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Searcher) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func New(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		maxExpansions: Unlimited,
		checkInterval: CheckInterval,
		metrics:       metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Search returns the path from start that scores best over budget steps.
// The path has exactly budget actions (empty for a zero budget).
//
// The search is exhaustive: O((neighbors+1)^budget) calls with no pruning
// and no memoization. Callers bound it through the budget, the context,
// WithDuration or WithMaxExpansions.
func (s *Searcher) Search(ctx context.Context, g *graph.Graph, start graph.NodeID, budget int) (plan.Path, metrics.SearchMetric, error) {
	if budget < 0 {
		return nil, metrics.SearchMetric{}, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}
	g.Node(start) // Panics for a start outside the graph

	if s.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.duration)
		defer cancel()
	}

	tracker := s.metrics.Start(budget)
	r := &run{
		ctx:           ctx,
		graph:         g,
		total:         budget,
		maxExpansions: s.maxExpansions,
		checkInterval: s.checkInterval,
		metrics:       tracker,
	}

	path, err := r.best(start, budget)
	if err != nil {
		tracker.SetAborted(true)
		metric := tracker.Complete()
		log.Warn().Err(err).Msgf("search from %s aborted after %d expansions", g.Node(start).Label, r.expansions)
		return nil, metric, err
	}
	metric := tracker.Complete()

	log.Debug().
		Str("start", g.Node(start).Label).
		Int("budget", budget).
		Int64("expansions", r.expansions).
		Msg("search complete")

	return path, metric, nil
}

// run is the state of a single search.
type run struct {
	ctx           context.Context
	graph         *graph.Graph
	total         int // Original budget, every candidate is scored against it
	maxExpansions int64
	checkInterval int64
	expansions    int64
	metrics       metrics.Tracker
}

func (r *run) best(at graph.NodeID, remaining int) (plan.Path, error) {
	if remaining == 0 {
		return plan.Path{}, nil
	}
	if err := r.expand(); err != nil {
		return nil, err
	}

	var (
		bestPath  plan.Path
		bestScore uint64
		found     bool
	)
	for _, action := range plan.Candidates(r.graph, at) {
		tail, err := r.best(action.Next(), remaining-1)
		if err != nil {
			return nil, err
		}
		path := tail.Prepend(action)

		score := path.Score(r.graph, r.total)
		r.metrics.AddEvaluation()
		// Strict comparison keeps the first candidate on ties
		if !found || score > bestScore {
			bestPath, bestScore, found = path, score, true
		}
	}

	if !found {
		return plan.Path{}, nil
	}
	return bestPath, nil
}

// expand counts one recursive call and enforces the budgets.
func (r *run) expand() error {
	r.expansions++
	r.metrics.AddExpansion()

	if r.maxExpansions > 0 && r.expansions > r.maxExpansions {
		return fmt.Errorf("%w: limit %d", ErrBudgetExceeded, r.maxExpansions)
	}
	// Poll on the first call and then sparsely
	if (r.expansions-1)%r.checkInterval == 0 {
		if err := r.ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrSearchAborted, err)
		}
	}
	return nil
}
