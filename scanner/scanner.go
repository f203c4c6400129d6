// Package scanner walks an XML corpus and turns the cross-references found
// in each document into edges of a citation graph.
package scanner

import (
	"context"
	"io"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
	"unnet/pipeline"
)

const (
	defaultDocNumberTag = "docNumber"
	defaultAnchorTag    = "a"
	defaultHrefAttr     = "href"
	defaultFilePattern  = "*.xml"
)

// Config encapsulates the settings for configuring the corpus scanner.
type Config struct {
	// Element holding the document number. Defaults to "docNumber".
	DocNumberTag string

	// Hyperlink element. Defaults to "a".
	AnchorTag string

	// Hyperlink attribute. Defaults to "href".
	HrefAttr string

	// Glob matched against file names in subcategory directories.
	// Defaults to "*.xml".
	FilePattern string

	// Tolerate common XML syntax errors.
	Permissive bool

	// The number of files parsed concurrently. Defaults to 1.
	Workers int

	// Invoked after each file has been written with the number of files
	// done, the total number of files and the edges written so far. May
	// be nil.
	OnProgress func(done, total, edges int)

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.DocNumberTag == "" {
		cfg.DocNumberTag = defaultDocNumberTag
	}
	if cfg.AnchorTag == "" {
		cfg.AnchorTag = defaultAnchorTag
	}
	if cfg.HrefAttr == "" {
		cfg.HrefAttr = defaultHrefAttr
	}
	if cfg.FilePattern == "" {
		cfg.FilePattern = defaultFilePattern
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	} else if cfg.Workers < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for workers"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Report summarizes a completed scan.
type Report struct {
	// Number of corpus files visited.
	FilesExamined int

	// Number of edges written.
	EdgeCount int

	// Files that contributed no edges, invalid ones included.
	EdgelessFiles []string

	// Files skipped because they could not be parsed or carry no usable
	// document number.
	InvalidFiles int

	// Anchors skipped because they have no href attribute.
	AnchorsWithoutHref int

	// Links that do not reference another publication.
	IgnoredLinks int
}

// Scanner extracts citation edges from a corpus.
type Scanner struct {
	cfg       Config
	pattern   glob.Glob
	extractor *Extractor
}

// New creates a new scanner instance with the specified config.
func New(cfg Config) (*Scanner, error) {
	err := cfg.validate()

	pattern, gErr := glob.Compile(cfg.FilePattern)
	if gErr != nil {
		err = multierror.Append(err, xerrors.Errorf("file pattern: %w", gErr))
	}
	extractor, xErr := NewExtractor(cfg.DocNumberTag, cfg.AnchorTag, cfg.HrefAttr, cfg.Permissive)
	if xErr != nil {
		err = multierror.Append(err, xErr)
	}
	if err != nil {
		return nil, xerrors.Errorf("scanner: config validation failed: %w", err)
	}

	return &Scanner{
		cfg:       cfg,
		pattern:   pattern,
		extractor: extractor,
	}, nil
}

// Scan walks the corpus below root and writes one edge per citation to w.
// Edges are written file by file in corpus order regardless of the number
// of workers, and w is flushed after every file. Problems with individual
// files are logged and never abort the scan.
func (s *Scanner) Scan(ctx context.Context, root string, w graph.EdgeWriter) (*Report, error) {
	logger := s.cfg.Logger.WithField("root", root)
	logger.Info("creating network from corpus")

	files, err := ListCorpus(root, s.pattern, logger)
	if err != nil {
		return nil, xerrors.Errorf("scanner: %w", err)
	}
	logger.WithField("files", len(files)).Info("found corpus files")

	var stage pipeline.StageRunner
	if s.cfg.Workers == 1 {
		stage = pipeline.FIFO(extractProcessor{x: s.extractor})
	} else {
		stage = pipeline.FixedWorkerPool(extractProcessor{x: s.extractor}, s.cfg.Workers)
	}

	sink := newEdgeSink(w, len(files), s.cfg.OnProgress, logger)
	if err := pipeline.New(stage).Process(ctx, &fileSource{files: files}, sink); err != nil {
		return nil, xerrors.Errorf("scanner: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, xerrors.Errorf("scanner: %w", err)
	}
	if sink.next != len(files) {
		return nil, xerrors.Errorf("scanner: only %d of %d files were written", sink.next, len(files))
	}

	report := sink.report
	if n := len(report.EdgelessFiles); n > 0 {
		logger.WithField("files", n).Warn("files found without outgoing edges")
	}
	logger.WithFields(logrus.Fields{
		"files":   report.FilesExamined,
		"invalid": report.InvalidFiles,
		"edges":   report.EdgeCount,
	}).Info("edges successfully written")
	return &report, nil
}

// fileSource feeds corpus files into the scan pipeline, tagging each one
// with its position in the corpus.
type fileSource struct {
	files []string
	index int
}

// Next implements pipeline.Source.
func (src *fileSource) Next(ctx context.Context) bool {
	if ctx.Err() != nil || src.index >= len(src.files) {
		return false
	}
	src.index++
	return true
}

// Payload implements pipeline.Source.
func (src *fileSource) Payload() pipeline.Payload {
	p := payloadPool.Get().(*scanPayload)
	p.Seq = src.index - 1
	p.Path = src.files[src.index-1]
	return p
}

// Error implements pipeline.Source.
func (src *fileSource) Error() error { return nil }

// extractProcessor parses the file referenced by each payload. Parse
// failures travel with the payload so the sink can report them in order.
type extractProcessor struct {
	x *Extractor
}

// Process implements pipeline.Processor.
func (p extractProcessor) Process(_ context.Context, payload pipeline.Payload) (pipeline.Payload, error) {
	sp := payload.(*scanPayload)
	sp.Doc, sp.Err = p.x.Extract(sp.Path)
	return sp, nil
}
