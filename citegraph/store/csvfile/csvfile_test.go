package csvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"

	"unnet/citegraph/graph"
	"unnet/citegraph/graph/graphtest"
)

var _ = gc.Suite(new(CSVFileTestSuite))

// Register our test-suite with go test.
func Test(t *testing.T) { gc.TestingT(t) }

type CSVFileTestSuite struct {
	graphtest.SuiteBase
	path string
}

func (s *CSVFileTestSuite) SetUpTest(c *gc.C) {
	s.path = filepath.Join(c.MkDir(), "edges.csv")
	s.SetStore(s)
}

func (s *CSVFileTestSuite) Writer() (graph.EdgeWriter, error) {
	return Create(s.path)
}

func (s *CSVFileTestSuite) Commit(w graph.EdgeWriter) error {
	return w.(*Writer).Close()
}

func (s *CSVFileTestSuite) Iterator() (graph.EdgeIterator, error) {
	return Open(s.path, Options{Strict: true})
}

func (s *CSVFileTestSuite) TestFileLayout(c *gc.C) {
	w, err := Create(s.path)
	c.Assert(err, gc.IsNil)
	c.Assert(w.WriteEdge(&graph.Edge{Source: "D1", Target: "D2"}), gc.IsNil)
	c.Assert(w.WriteEdge(&graph.Edge{Source: "D1", Target: ""}), gc.IsNil)
	c.Assert(w.EdgeCount(), gc.Equals, 2)
	c.Assert(w.Close(), gc.IsNil)

	data, err := os.ReadFile(s.path)
	c.Assert(err, gc.IsNil)
	c.Assert(string(data), gc.Equals, "source,target\nD1,D2\nD1,\n")
}

func (s *CSVFileTestSuite) TestUnpublishedUntilClose(c *gc.C) {
	w, err := Create(s.path)
	c.Assert(err, gc.IsNil)
	c.Assert(w.WriteEdge(&graph.Edge{Source: "D1", Target: "D2"}), gc.IsNil)
	c.Assert(w.Flush(), gc.IsNil)

	_, err = os.Stat(s.path)
	c.Assert(os.IsNotExist(err), gc.Equals, true)

	c.Assert(w.Close(), gc.IsNil)
	_, err = os.Stat(s.path)
	c.Assert(err, gc.IsNil)
	_, err = os.Stat(s.path + tmpSuffix)
	c.Assert(os.IsNotExist(err), gc.Equals, true)

	err = w.WriteEdge(&graph.Edge{Source: "x", Target: "y"})
	c.Assert(xerrors.Is(err, graph.ErrClosed), gc.Equals, true)
}

func (s *CSVFileTestSuite) TestAbortRemovesPartialFile(c *gc.C) {
	w, err := Create(s.path)
	c.Assert(err, gc.IsNil)
	c.Assert(w.WriteEdge(&graph.Edge{Source: "D1", Target: "D2"}), gc.IsNil)
	c.Assert(w.Abort(), gc.IsNil)

	_, err = os.Stat(s.path)
	c.Assert(os.IsNotExist(err), gc.Equals, true)
	_, err = os.Stat(s.path + tmpSuffix)
	c.Assert(os.IsNotExist(err), gc.Equals, true)
}

func (s *CSVFileTestSuite) TestMalformedLinesAreSkipped(c *gc.C) {
	input := "source,target\nD1,D2\nbroken\na,b,c\n\r\nD2,D3\r\n"
	r := NewReader(strings.NewReader(input), Options{})

	var got []graph.Edge
	for r.Next() {
		got = append(got, *r.Edge())
	}
	c.Assert(r.Error(), gc.IsNil)
	c.Assert(r.MalformedLines(), gc.Equals, 3)
	c.Assert(got, gc.DeepEquals, []graph.Edge{
		{Source: "D1", Target: "D2"},
		{Source: "D2", Target: "D3"},
	})
}

func (s *CSVFileTestSuite) TestMalformedLineIsFatalInStrictMode(c *gc.C) {
	input := "source,target\nD1,D2\nbroken\nD2,D3\n"
	r := NewReader(strings.NewReader(input), Options{Strict: true})

	c.Assert(r.Next(), gc.Equals, true)
	c.Assert(r.Next(), gc.Equals, false)
	c.Assert(xerrors.Is(r.Error(), graph.ErrMalformedLine), gc.Equals, true)
	c.Assert(r.Error(), gc.ErrorMatches, "edge file: line 3: .*")
	c.Assert(r.Next(), gc.Equals, false)
}

func (s *CSVFileTestSuite) TestOverlongLinesAreSkipped(c *gc.C) {
	long := strings.Repeat("x", 100) + ",y"
	input := "source,target\nD1,D2\n" + long + "\nD2,D3\n" + long
	r := NewReader(strings.NewReader(input), Options{MaxLineSize: 32})

	var got []graph.Edge
	for r.Next() {
		got = append(got, *r.Edge())
	}
	c.Assert(r.Error(), gc.IsNil)
	c.Assert(r.MalformedLines(), gc.Equals, 2)
	c.Assert(got, gc.DeepEquals, []graph.Edge{
		{Source: "D1", Target: "D2"},
		{Source: "D2", Target: "D3"},
	})

	r = NewReader(strings.NewReader("source,target\n"+long+"\n"), Options{Strict: true, MaxLineSize: 32})
	c.Assert(r.Next(), gc.Equals, false)
	c.Assert(xerrors.Is(r.Error(), graph.ErrMalformedLine), gc.Equals, true)
}

func (s *CSVFileTestSuite) TestLinesLongerThanReadBuffer(c *gc.C) {
	source := strings.Repeat("s", 200*1024)
	r := NewReader(strings.NewReader("source,target\n"+source+",t\nD1,D2"), Options{})

	c.Assert(r.Next(), gc.Equals, true)
	c.Assert(*r.Edge(), gc.Equals, graph.Edge{Source: source, Target: "t"})
	c.Assert(r.Next(), gc.Equals, true)
	c.Assert(*r.Edge(), gc.Equals, graph.Edge{Source: "D1", Target: "D2"})
	c.Assert(r.Next(), gc.Equals, false)
	c.Assert(r.Error(), gc.IsNil)
}

func (s *CSVFileTestSuite) TestHeaderIsAlwaysDiscarded(c *gc.C) {
	r := NewReader(strings.NewReader("a,b\nc,d"), Options{Strict: true})

	c.Assert(r.Next(), gc.Equals, true)
	c.Assert(*r.Edge(), gc.Equals, graph.Edge{Source: "c", Target: "d"})
	c.Assert(r.Next(), gc.Equals, false)
	c.Assert(r.Error(), gc.IsNil)
}

func (s *CSVFileTestSuite) TestOpenMissingFile(c *gc.C) {
	_, err := Open(filepath.Join(c.MkDir(), "missing.csv"), Options{})
	c.Assert(err, gc.NotNil)
	c.Assert(xerrors.Is(err, os.ErrNotExist), gc.Equals, true)
}
