package graphstats

import (
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"unnet/citegraph/store/csvfile"
)

// Report holds the degree statistics of an edge stream.
type Report struct {
	NodeCount int
	EdgeCount int

	// Nodes without incoming edges.
	OnlyOutgoing int

	// Nodes without outgoing edges.
	OnlyIncoming int

	// Nodes with both incoming and outgoing edges.
	BothEdges int

	MaxIncoming Extremum
	MaxOutgoing Extremum
	MaxDegree   Extremum

	// Edge file lines that were skipped as malformed.
	MalformedLines int
}

// Log writes the report as a sequence of data lines.
func (r *Report) Log(logger *logrus.Entry) {
	logger.WithField("nodes", r.NodeCount).Infof("%s different nodes found", humanize.Comma(int64(r.NodeCount)))
	logger.WithField("nodes", r.OnlyIncoming).Infof("%s nodes without outgoing connections", humanize.Comma(int64(r.OnlyIncoming)))
	logger.WithField("nodes", r.OnlyOutgoing).Infof("%s nodes without incoming connections", humanize.Comma(int64(r.OnlyOutgoing)))
	logger.WithField("nodes", r.BothEdges).Infof("%s nodes with incoming & outgoing connections", humanize.Comma(int64(r.BothEdges)))
	logger.WithFields(logrus.Fields{"node": r.MaxIncoming.Node, "incoming": r.MaxIncoming.Value}).Info("node with most incoming connections")
	logger.WithFields(logrus.Fields{"node": r.MaxOutgoing.Node, "outgoing": r.MaxOutgoing.Value}).Info("node with most outgoing connections")
	logger.WithFields(logrus.Fields{"node": r.MaxDegree.Node, "degree": r.MaxDegree.Value}).Info("node with highest degree")
	if r.MalformedLines > 0 {
		logger.WithField("lines", r.MalformedLines).Warn("malformed edge lines were skipped")
	}
}

// Analyze streams the edge file at path through a fresh Accumulator. It
// fails if the file cannot be opened or read, or, in strict mode, on the
// first malformed line.
func Analyze(path string, opts csvfile.Options) (*Report, *Accumulator, error) {
	r, err := csvfile.Open(path, opts)
	if err != nil {
		return nil, nil, xerrors.Errorf("analyze: %w", err)
	}
	defer func() { _ = r.Close() }()

	acc := NewAccumulator()
	if err = acc.Accumulate(r); err != nil {
		return nil, nil, xerrors.Errorf("analyze %s: %w", path, err)
	}

	report := acc.Report()
	report.MalformedLines = r.MalformedLines()
	return report, acc, nil
}
