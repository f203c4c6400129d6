package progress

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ProgressTestSuite))

// Register our test-suite with go test.
func Test(t *testing.T) { gc.TestingT(t) }

type ProgressTestSuite struct{}

func (s *ProgressTestSuite) TestUpdatePadsToLongestLine(c *gc.C) {
	var buf bytes.Buffer
	l := NewForced(&buf, 0)

	l.Update("long message")
	l.Update("short")
	c.Assert(buf.String(), gc.Equals, "\rlong message\rshort       ")
}

func (s *ProgressTestSuite) TestScanFormat(c *gc.C) {
	var buf bytes.Buffer
	l := NewForced(&buf, 0)

	l.Scan(1, 8, 12345)
	c.Assert(buf.String(), gc.Equals, "\r12.500% done | 12,345 edges found")
}

func (s *ProgressTestSuite) TestTruncatesToWidth(c *gc.C) {
	var buf bytes.Buffer
	l := NewForced(&buf, 6)

	l.Update("0123456789")
	c.Assert(buf.String(), gc.Equals, "\r01234")
}

func (s *ProgressTestSuite) TestLogEntryClearsLine(c *gc.C) {
	var buf bytes.Buffer
	l := NewForced(&buf, 0)

	logger := logrus.New()
	logger.Out = &buf
	logger.Formatter = &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	logger.AddHook(l)

	l.Update("50.000% done")
	logger.Warn("boom")
	c.Assert(buf.String(), gc.Equals, "\r50.000% done\r            \rlevel=warning msg=boom\n")

	// Nothing left to clear.
	buf.Reset()
	logger.Warn("again")
	c.Assert(buf.String(), gc.Equals, "level=warning msg=again\n")
}

func (s *ProgressTestSuite) TestDoneStopsDrawing(c *gc.C) {
	var buf bytes.Buffer
	l := NewForced(&buf, 0)

	l.Update("abc")
	l.Done()
	l.Update("def")
	c.Assert(buf.String(), gc.Equals, "\rabc\r   \r")
}

func (s *ProgressTestSuite) TestNonTerminalIsSilent(c *gc.C) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Update("abc")
	l.Clear()
	l.Done()
	c.Assert(buf.Len(), gc.Equals, 0)
}
