// Package graphstats computes degree statistics over a citation edge stream.
package graphstats

import (
	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
)

// Accumulator maintains in/out-degree counters for every identifier seen in
// an edge stream. Nodes are kept in the order they were first referenced,
// which makes every derived statistic deterministic. Only the counters are
// retained; edges are never buffered.
type Accumulator struct {
	index map[string]int
	nodes []graph.Node
	edges int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{index: make(map[string]int)}
}

// Observe counts a single edge: the source gains an outgoing edge and then
// the target gains an incoming edge.
func (a *Accumulator) Observe(edge *graph.Edge) {
	a.node(edge.Source).Outgoing++
	a.node(edge.Target).Incoming++
	a.edges++
}

// Accumulate observes every edge produced by it. The iterator is not closed.
func (a *Accumulator) Accumulate(it graph.EdgeIterator) error {
	for it.Next() {
		a.Observe(it.Edge())
	}
	if err := it.Error(); err != nil {
		return xerrors.Errorf("accumulate: %w", err)
	}
	return nil
}

// EdgeCount returns the number of edges observed.
func (a *Accumulator) EdgeCount() int { return a.edges }

// Nodes returns a copy of all nodes in first-seen order.
func (a *Accumulator) Nodes() []graph.Node {
	nodes := make([]graph.Node, len(a.nodes))
	copy(nodes, a.nodes)
	return nodes
}

// Report aggregates the counters in a single pass over the nodes.
func (a *Accumulator) Report() *Report {
	r := &Report{
		NodeCount: len(a.nodes),
		EdgeCount: a.edges,
	}
	for _, n := range a.nodes {
		switch {
		case n.Incoming == 0:
			r.OnlyOutgoing++
		case n.Outgoing == 0:
			r.OnlyIncoming++
		}
		r.MaxIncoming.Observe(n.ID, n.Incoming)
		r.MaxOutgoing.Observe(n.ID, n.Outgoing)
		r.MaxDegree.Observe(n.ID, n.Degree())
	}
	r.BothEdges = r.NodeCount - r.OnlyOutgoing - r.OnlyIncoming
	return r
}

func (a *Accumulator) node(id string) *graph.Node {
	idx, ok := a.index[id]
	if !ok {
		idx = len(a.nodes)
		a.index[id] = idx
		a.nodes = append(a.nodes, graph.Node{ID: id})
	}
	return &a.nodes[idx]
}
