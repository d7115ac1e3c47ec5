package plan

import (
	"fmt"
	"valves/graph"
)

// Kind is the type of action the actor performs in one time step.
type Kind int

const (
	Move Kind = iota
	Activate
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Activate:
		return "activate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is one time step of a plan. For Move, Node is the destination;
// for Activate, Node is the node the actor is standing on.
type Action struct {
	Kind Kind
	Node graph.NodeID
}

// Next returns where the actor stands after the action.
func (a Action) Next() graph.NodeID {
	return a.Node
}

func (a Action) String() string {
	return fmt.Sprintf("%s %d", a.Kind, a.Node)
}

// Label renders the action with the node's external label.
func (a Action) Label(g *graph.Graph) string {
	return fmt.Sprintf("%s %s", a.Kind, g.Node(a.Node).Label)
}

// Candidates lists the actions available at a node: a move to every
// neighbor in declaration order, then activating the node itself.
func Candidates(g *graph.Graph, at graph.NodeID) []Action {
	neighbors := g.Neighbors(at)
	actions := make([]Action, 0, len(neighbors)+1)
	for _, to := range neighbors {
		actions = append(actions, Action{Kind: Move, Node: to})
	}
	return append(actions, Action{Kind: Activate, Node: at})
}
