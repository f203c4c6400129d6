package graph

// Iterator is implemented by graph objects that can be iterated.
type Iterator interface {
	// Next advances the iterator. If no more items are available or an
	// error occurs, calls to Next() return false.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources associated with an iterator.
	Close() error
}

// EdgeIterator is implemented by objects that can iterate an edge stream.
type EdgeIterator interface {
	Iterator

	// Edge returns the currently fetched edge object.
	Edge() *Edge
}

// EdgeWriter is implemented by objects that persist an edge stream. Edges
// are appended in the order they are written and are never rewritten.
type EdgeWriter interface {
	// WriteEdge appends a single edge.
	WriteEdge(edge *Edge) error

	// Flush makes all previously written edges durable.
	Flush() error
}

// Edge describes a single citation from the document identified by Source
// to the identifier Target. Both sides live in the same identifier space:
// a target is expected to show up as the source of some other document.
type Edge struct {
	Source string
	Target string
}

// Node holds the degree counters of a single identifier.
type Node struct {
	ID       string
	Incoming int
	Outgoing int
}

// Degree returns the total number of edges touching the node.
func (n Node) Degree() int { return n.Incoming + n.Outgoing }
