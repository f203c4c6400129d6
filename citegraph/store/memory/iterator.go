package memory

import "unnet/citegraph/graph"

// edgeIterator is a graph.EdgeIterator implementation for the in-memory graph.
type edgeIterator struct {
	edges    []graph.Edge
	curIndex int
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.curIndex >= len(i.edges) {
		return false
	}
	i.curIndex++
	return true
}

// Edge implements graph.EdgeIterator.
func (i *edgeIterator) Edge() *graph.Edge {
	edge := new(graph.Edge)
	*edge = i.edges[i.curIndex-1]
	return edge
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error { return nil }

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error { return nil }
