// Package graph holds the read-only network of valves the search runs over.
package graph

import "fmt"

// NodeID is a dense index assigned in declaration order.
type NodeID int

// Node is a single valve/room.
type Node struct {
	ID    NodeID // Position in declaration order
	Label string // Unique external identifier, e.g. "AA"
	Rate  uint64 // Reward accrued per step once activated
}

// Record is one parsed node declaration.
type Record struct {
	Label     string
	Rate      uint64
	Neighbors []string // Outgoing edges in declaration order
	Line      int      // 1-based source line, 0 if unknown
}

// Graph is a directed graph over rated nodes. It is never mutated after
// Build, so concurrent readers are safe.
type Graph struct {
	nodes    []Node
	index    map[string]NodeID
	adjacent [][]NodeID
}

// Build creates a graph from node declarations. Nodes are numbered and
// neighbors are kept in the order they were declared.
func Build(records []Record) (*Graph, error) {
	g := &Graph{
		nodes:    make([]Node, 0, len(records)),
		index:    make(map[string]NodeID, len(records)),
		adjacent: make([][]NodeID, len(records)),
	}

	// Declare every node before resolving edges so forward references work
	for _, record := range records {
		if record.Label == "" {
			return nil, &RecordError{Line: record.Line, Label: record.Label, Err: ErrMalformedRecord}
		}
		if _, ok := g.index[record.Label]; ok {
			return nil, &RecordError{Line: record.Line, Label: record.Label, Err: ErrDuplicateNode}
		}
		id := NodeID(len(g.nodes))
		g.nodes = append(g.nodes, Node{ID: id, Label: record.Label, Rate: record.Rate})
		g.index[record.Label] = id
	}

	for i, record := range records {
		neighbors := make([]NodeID, 0, len(record.Neighbors))
		for _, label := range record.Neighbors {
			to, ok := g.index[label]
			if !ok {
				return nil, &RecordError{Line: record.Line, Label: label, Err: ErrDanglingEdge}
			}
			neighbors = append(neighbors, to)
		}
		g.adjacent[i] = neighbors
	}

	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id. An id outside the graph is a
// bug in the caller, so it panics rather than returning an error.
func (g *Graph) Node(id NodeID) Node {
	g.mustContain(id)
	return g.nodes[id]
}

// Rate is shorthand for Node(id).Rate.
func (g *Graph) Rate(id NodeID) uint64 {
	g.mustContain(id)
	return g.nodes[id].Rate
}

// Neighbors returns the outgoing edges of id in declaration order.
// The slice is shared with the graph and must not be modified.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	g.mustContain(id)
	return g.adjacent[id]
}

// Adjacent reports whether there is an edge from -> to.
func (g *Graph) Adjacent(from, to NodeID) bool {
	for _, id := range g.Neighbors(from) {
		if id == to {
			return true
		}
	}
	return false
}

// Lookup resolves an external label. Labels come from user input, so an
// unknown label is an ordinary error here.
func (g *Graph) Lookup(label string) (NodeID, error) {
	id, ok := g.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, label)
	}
	return id, nil
}

// Nodes returns a copy of all nodes in declaration order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Records turns the graph back into the declarations it was built from.
func (g *Graph) Records() []Record {
	records := make([]Record, len(g.nodes))
	for i, node := range g.nodes {
		neighbors := make([]string, len(g.adjacent[i]))
		for j, id := range g.adjacent[i] {
			neighbors[j] = g.nodes[id].Label
		}
		records[i] = Record{Label: node.Label, Rate: node.Rate, Neighbors: neighbors}
	}
	return records
}

func (g *Graph) mustContain(id NodeID) {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(fmt.Errorf("%w: id %d", ErrUnknownNode, id))
	}
}
