// Package memory provides an in-memory edge store. It backs the scanner and
// graph statistics tests, where edges are inspected without going through
// an edge file.
package memory

import (
	"sync"

	"unnet/citegraph/graph"
)

// Compile-time check for ensuring InMemoryGraph implements EdgeWriter.
var _ graph.EdgeWriter = (*InMemoryGraph)(nil)

// InMemoryGraph keeps an edge stream in memory. It is safe for concurrent
// use; iterators operate on a snapshot taken when they are created.
type InMemoryGraph struct {
	mu    sync.RWMutex
	edges []graph.Edge
}

// NewInMemoryGraph creates a new, empty in-memory edge stream.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{}
}

// WriteEdge appends a copy of edge to the stream.
func (s *InMemoryGraph) WriteEdge(edge *graph.Edge) error {
	s.mu.Lock()
	s.edges = append(s.edges, *edge)
	s.mu.Unlock()
	return nil
}

// Flush implements graph.EdgeWriter.
func (s *InMemoryGraph) Flush() error { return nil }

// EdgeCount returns the number of edges written so far.
func (s *InMemoryGraph) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// Edges returns an iterator over the edges written so far, in write order.
func (s *InMemoryGraph) Edges() (graph.EdgeIterator, error) {
	s.mu.RLock()
	list := make([]graph.Edge, len(s.edges))
	copy(list, s.edges)
	s.mu.RUnlock()
	return &edgeIterator{edges: list}, nil
}
