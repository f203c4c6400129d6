package graphstats

// Extremum tracks the node holding the largest value seen so far. Only a
// strictly greater value replaces the incumbent, so among equal maxima the
// node observed first wins.
type Extremum struct {
	Node  string
	Value int
}

// Observe offers a candidate node and its value.
func (e *Extremum) Observe(node string, value int) {
	if value > e.Value {
		e.Node = node
		e.Value = value
	}
}
