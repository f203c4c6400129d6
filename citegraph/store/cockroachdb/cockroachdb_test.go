package cockroachdb

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"

	"unnet/citegraph/graph"
	"unnet/citegraph/graph/graphtest"
)

var _ = gc.Suite(new(CockroachDBGraphTestSuite))

// Register our test-suite with go test.
func Test(t *testing.T) { gc.TestingT(t) }

type CockroachDBGraphTestSuite struct {
	graphtest.SuiteBase
	db    *sql.DB
	g     *CockroachDBGraph
	runID uuid.UUID
}

func (s *CockroachDBGraphTestSuite) SetUpSuite(c *gc.C) {
	dsn := os.Getenv("CDB_DSN")
	if dsn == "" {
		c.Skip("Missing CDB_DSN envvar; skipping cockroachdb-backed graph test suite")
	}

	g, err := NewCockroachDBGraph(dsn)
	c.Assert(err, gc.IsNil)
	s.g = g
	s.db = g.db
	s.SetStore(s)
}

func (s *CockroachDBGraphTestSuite) SetUpTest(c *gc.C) {
	s.flushDB(c)
}

func (s *CockroachDBGraphTestSuite) TearDownSuite(c *gc.C) {
	if s.db != nil {
		s.flushDB(c)
		c.Assert(s.g.Close(), gc.IsNil)
	}
}

func (s *CockroachDBGraphTestSuite) Writer() (graph.EdgeWriter, error) {
	w, err := s.g.BeginRun("suite")
	if err != nil {
		return nil, err
	}
	s.runID = w.ID
	return w, nil
}

func (s *CockroachDBGraphTestSuite) Commit(w graph.EdgeWriter) error {
	return w.(*RunWriter).Close()
}

func (s *CockroachDBGraphTestSuite) Iterator() (graph.EdgeIterator, error) {
	return s.g.Edges(s.runID)
}

func (s *CockroachDBGraphTestSuite) TestRunBookkeeping(c *gc.C) {
	w, err := s.g.BeginRun("data/edges.csv")
	c.Assert(err, gc.IsNil)
	c.Assert(w.WriteEdge(&graph.Edge{Source: "D1", Target: "D2"}), gc.IsNil)
	c.Assert(w.Close(), gc.IsNil)

	run, err := s.g.FindRun(w.ID)
	c.Assert(err, gc.IsNil)
	c.Assert(run.Source, gc.Equals, "data/edges.csv")
	c.Assert(run.EdgeCount, gc.Equals, 1)

	_, err = s.g.FindRun(uuid.New())
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true)
}

func (s *CockroachDBGraphTestSuite) TestAbortedRunLeavesNoTrace(c *gc.C) {
	w, err := s.g.BeginRun("aborted")
	c.Assert(err, gc.IsNil)
	c.Assert(w.WriteEdge(&graph.Edge{Source: "D1", Target: "D2"}), gc.IsNil)
	c.Assert(w.Abort(), gc.IsNil)

	_, err = s.g.FindRun(w.ID)
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true)
	it, err := s.g.Edges(w.ID)
	c.Assert(err, gc.IsNil)
	c.Assert(it.Next(), gc.Equals, false)
	c.Assert(it.Close(), gc.IsNil)
}

func (s *CockroachDBGraphTestSuite) TestSaveNodes(c *gc.C) {
	runID := uuid.New()
	exp := []graph.Node{
		{ID: "D1", Incoming: 0, Outgoing: 2},
		{ID: "D2", Incoming: 2, Outgoing: 0},
	}
	c.Assert(s.g.SaveNodes(runID, exp), gc.IsNil)

	got, err := s.g.Nodes(runID)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.DeepEquals, exp)
}

func (s *CockroachDBGraphTestSuite) flushDB(c *gc.C) {
	for _, table := range []string{"edges", "nodes", "runs"} {
		_, err := s.db.Exec("DELETE FROM " + table)
		c.Assert(err, gc.IsNil)
	}
}
