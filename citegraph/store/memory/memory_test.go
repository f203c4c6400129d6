package memory

import (
	"testing"

	gc "gopkg.in/check.v1"

	"unnet/citegraph/graph"
	"unnet/citegraph/graph/graphtest"
)

var _ = gc.Suite(new(InMemoryGraphTestSuite))

// Register our test-suite with go test.
func Test(t *testing.T) { gc.TestingT(t) }

type InMemoryGraphTestSuite struct {
	graphtest.SuiteBase
	g *InMemoryGraph
}

func (s *InMemoryGraphTestSuite) SetUpTest(c *gc.C) {
	s.g = nil
	s.SetStore(s)
}

func (s *InMemoryGraphTestSuite) Writer() (graph.EdgeWriter, error) {
	s.g = NewInMemoryGraph()
	return s.g, nil
}

func (s *InMemoryGraphTestSuite) Commit(graph.EdgeWriter) error { return nil }

func (s *InMemoryGraphTestSuite) Iterator() (graph.EdgeIterator, error) {
	return s.g.Edges()
}

func (s *InMemoryGraphTestSuite) TestSnapshotIsolation(c *gc.C) {
	g := NewInMemoryGraph()
	c.Assert(g.WriteEdge(&graph.Edge{Source: "a", Target: "b"}), gc.IsNil)

	it, err := g.Edges()
	c.Assert(err, gc.IsNil)
	c.Assert(g.WriteEdge(&graph.Edge{Source: "b", Target: "c"}), gc.IsNil)
	c.Assert(g.EdgeCount(), gc.Equals, 2)

	var seen int
	for it.Next() {
		seen++
	}
	c.Assert(seen, gc.Equals, 1)
}
