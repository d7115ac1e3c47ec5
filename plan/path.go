// Package plan models action sequences and scores them against a time budget.
package plan

import (
	"errors"
	"fmt"
	"valves/graph"
)

// ErrIllegalAction is returned by Validate for an action the actor cannot take.
var ErrIllegalAction = errors.New("plan: illegal action")

// Path is an ordered sequence of actions, one per time step. The start
// node is not part of the path.
type Path []Action

// Prepend returns a new path with a in front. p is left untouched so
// sibling branches of a search never share backing arrays.
func (p Path) Prepend(a Action) Path {
	path := make(Path, 0, len(p)+1)
	path = append(path, a)
	return append(path, p...)
}

// Score replays the path over total steps and returns the accumulated
// reward. At every step the rates of the already active nodes are added
// first, then the step's action is applied, so an activation starts paying
// on the following step. Once the path runs out the active set keeps
// accruing until the time is up.
func (p Path) Score(g *graph.Graph, total int) uint64 {
	if total <= 0 || len(p) == 0 {
		return 0
	}

	active := make([]bool, g.Len())
	var flow, score uint64
	for step := 0; step < total; step++ {
		score += flow
		if step >= len(p) {
			// Nothing left to change the active set, finish in one go
			score += flow * uint64(total-step-1)
			break
		}
		if a := p[step]; a.Kind == Activate {
			rate := g.Rate(a.Node) // Panics for a node outside the graph
			if !active[a.Node] {
				active[a.Node] = true
				flow += rate
			}
		}
	}
	return score
}

// Tick is the state of one replayed time step.
type Tick struct {
	Step    int
	Action  Action
	Idle    bool   // The path had no action left for this step
	Flow    uint64 // Reward collected during this step
	Accrued uint64 // Reward collected up to and including this step
}

// Replay is the step-by-step version of Score. The last tick's Accrued
// equals p.Score(g, total).
func Replay(g *graph.Graph, p Path, total int) []Tick {
	if total <= 0 {
		return nil
	}

	ticks := make([]Tick, 0, total)
	active := make([]bool, g.Len())
	var flow, accrued uint64
	for step := 0; step < total; step++ {
		accrued += flow
		tick := Tick{Step: step, Flow: flow, Accrued: accrued, Idle: step >= len(p)}
		if !tick.Idle {
			tick.Action = p[step]
			if a := tick.Action; a.Kind == Activate {
				rate := g.Rate(a.Node)
				if !active[a.Node] {
					active[a.Node] = true
					flow += rate
				}
			}
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// Validate checks that the path can be walked from start: every move
// follows an edge out of the current node and every activation names the
// current node.
func (p Path) Validate(g *graph.Graph, start graph.NodeID) error {
	at := start
	for step, a := range p {
		switch a.Kind {
		case Move:
			if !g.Adjacent(at, a.Node) {
				return fmt.Errorf("%w: step %d: no edge %s -> %s", ErrIllegalAction, step,
					g.Node(at).Label, g.Node(a.Node).Label)
			}
		case Activate:
			if a.Node != at {
				return fmt.Errorf("%w: step %d: activating %s while at %s", ErrIllegalAction, step,
					g.Node(a.Node).Label, g.Node(at).Label)
			}
		default:
			return fmt.Errorf("%w: step %d: %v", ErrIllegalAction, step, a.Kind)
		}
		at = a.Next()
	}
	return nil
}
