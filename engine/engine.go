package engine

import (
	"context"
	"fmt"
	"io"
	"valves/graph"
	"valves/metrics"
	"valves/plan"
	"valves/scan"
	"valves/searcher"

	"github.com/rs/zerolog/log"
)

// Engine runs one solve: parse the scan, build the graph, search, score.
type Engine struct {
	parser   *scan.Parser
	searcher *searcher.Searcher
}

type Result struct {
	Graph  *graph.Graph
	Start  graph.NodeID
	Budget int
	Path   plan.Path
	Score  uint64
	Metric metrics.SearchMetric
}

func New(s *searcher.Searcher) *Engine {
	return &Engine{
		parser:   scan.NewParser(),
		searcher: s,
	}
}

// Run reads a scan from in and returns the best path from start over
// budget steps.
func (e *Engine) Run(ctx context.Context, in io.Reader, start string, budget int) (Result, error) {
	records, err := e.parser.Parse(in)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse scan: %w", err)
	}

	g, err := graph.Build(records)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build graph: %w", err)
	}
	log.Info().Msgf("built graph with %d valves", g.Len())

	from, err := g.Lookup(start)
	if err != nil {
		return Result{}, fmt.Errorf("invalid start: %w", err)
	}

	log.Info().Msgf("searching from %s with %d steps", start, budget)
	path, metric, err := e.searcher.Search(ctx, g, from, budget)
	if err != nil {
		return Result{}, fmt.Errorf("search failed: %w", err)
	}

	score := path.Score(g, budget)
	log.Info().Msgf("search finished in %s after %d expansions with score %d", metric.Duration, metric.Expansions, score)

	return Result{
		Graph:  g,
		Start:  from,
		Budget: budget,
		Path:   path,
		Score:  score,
		Metric: metric,
	}, nil
}
