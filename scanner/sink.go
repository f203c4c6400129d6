package scanner

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
	"unnet/pipeline"
)

// scanResult is the part of a scanPayload the sink keeps after the payload
// has been handed back to the pool.
type scanResult struct {
	path string
	doc  *Document
	err  error
}

// edgeSink writes the edges of each scanned file. Results may arrive out of
// order when files are parsed concurrently; they are held back until every
// file before them has been written.
type edgeSink struct {
	w          graph.EdgeWriter
	total      int
	onProgress func(done, total, edges int)
	logger     *logrus.Entry

	next    int
	pending map[int]scanResult
	report  Report
}

func newEdgeSink(w graph.EdgeWriter, total int, onProgress func(done, total, edges int), logger *logrus.Entry) *edgeSink {
	return &edgeSink{
		w:          w,
		total:      total,
		onProgress: onProgress,
		logger:     logger,
		pending:    make(map[int]scanResult),
	}
}

// Consume implements pipeline.Sink.
func (s *edgeSink) Consume(_ context.Context, p pipeline.Payload) error {
	payload := p.(*scanPayload)
	s.pending[payload.Seq] = scanResult{
		path: payload.Path,
		doc:  payload.Doc,
		err:  payload.Err,
	}

	for {
		res, ok := s.pending[s.next]
		if !ok {
			return nil
		}
		delete(s.pending, s.next)
		s.next++
		if err := s.write(res); err != nil {
			return err
		}
	}
}

func (s *edgeSink) write(res scanResult) error {
	s.report.FilesExamined++
	logger := s.logger.WithField("path", res.path)

	if res.err != nil {
		logger.WithError(res.err).Error("skipping document")
		s.report.InvalidFiles++
		s.report.EdgelessFiles = append(s.report.EdgelessFiles, res.path)
		s.progress()
		return nil
	}

	doc := res.doc
	for _, warning := range doc.Warnings {
		logger.Warn(warning.Error())
	}
	s.report.AnchorsWithoutHref += len(doc.Warnings)
	s.report.IgnoredLinks += doc.IgnoredLinks

	for _, target := range doc.Targets {
		if err := s.w.WriteEdge(&graph.Edge{Source: doc.DocNumber, Target: target}); err != nil {
			return xerrors.Errorf("write edges of %s: %w", res.path, err)
		}
		s.report.EdgeCount++
	}
	if len(doc.Targets) == 0 {
		s.report.EdgelessFiles = append(s.report.EdgelessFiles, res.path)
	} else if err := s.w.Flush(); err != nil {
		return xerrors.Errorf("write edges of %s: %w", res.path, err)
	}

	s.progress()
	return nil
}

func (s *edgeSink) progress() {
	if s.onProgress != nil {
		s.onProgress(s.report.FilesExamined, s.total, s.report.EdgeCount)
	}
}
