// Package graphtest provides a re-usable gocheck suite that any edge store
// implementation can embed.
package graphtest

import (
	"fmt"

	gc "gopkg.in/check.v1"

	"unnet/citegraph/graph"
)

// Store is implemented by the test harness of each edge store. It hands out
// a writer for a fresh edge stream and an iterator over whatever was
// committed through that writer.
type Store interface {
	// Writer returns a writer for a new, empty edge stream.
	Writer() (graph.EdgeWriter, error)

	// Commit finalizes the edge stream written through w.
	Commit(w graph.EdgeWriter) error

	// Iterator returns an iterator over the committed edge stream.
	Iterator() (graph.EdgeIterator, error)
}

// SuiteBase defines a re-usable set of edge store tests that can be
// executed against any type that implements Store.
type SuiteBase struct {
	s Store
}

// SetStore configures the test-suite to run all tests against s.
func (s *SuiteBase) SetStore(store Store) {
	s.s = store
}

// TestRoundTrip verifies that edges come back in write order with their
// multiplicity preserved.
func (s *SuiteBase) TestRoundTrip(c *gc.C) {
	exp := []graph.Edge{
		{Source: "A/RES/1", Target: "A/RES/2"},
		{Source: "A/RES/1", Target: "A/RES/2"},
		{Source: "A/RES/1", Target: "S/RES/9"},
		{Source: "S/RES/9", Target: ""},
		{Source: "S/RES/9", Target: "A/RES/1"},
	}
	s.writeAll(c, exp)

	c.Assert(s.readAll(c), gc.DeepEquals, exp)
}

// TestEmptyStream verifies that a committed stream without edges yields an
// exhausted iterator and no error.
func (s *SuiteBase) TestEmptyStream(c *gc.C) {
	s.writeAll(c, nil)

	it, err := s.s.Iterator()
	c.Assert(err, gc.IsNil)
	c.Assert(it.Next(), gc.Equals, false)
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
}

// TestManyEdges verifies that large streams are returned in full.
func (s *SuiteBase) TestManyEdges(c *gc.C) {
	var exp []graph.Edge
	for i := 0; i < 5000; i++ {
		exp = append(exp, graph.Edge{
			Source: fmt.Sprintf("doc-%d", i%97),
			Target: fmt.Sprintf("doc-%d", i%89),
		})
	}
	s.writeAll(c, exp)

	got := s.readAll(c)
	c.Assert(got, gc.HasLen, len(exp))
	c.Assert(got, gc.DeepEquals, exp)
}

func (s *SuiteBase) writeAll(c *gc.C, edges []graph.Edge) {
	w, err := s.s.Writer()
	c.Assert(err, gc.IsNil)
	for i := range edges {
		edge := edges[i]
		c.Assert(w.WriteEdge(&edge), gc.IsNil)
	}
	c.Assert(w.Flush(), gc.IsNil)
	c.Assert(s.s.Commit(w), gc.IsNil)
}

func (s *SuiteBase) readAll(c *gc.C) []graph.Edge {
	it, err := s.s.Iterator()
	c.Assert(err, gc.IsNil)

	var got []graph.Edge
	for it.Next() {
		got = append(got, *it.Edge())
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
	return got
}
