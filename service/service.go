// Package service ties the corpus scanner and the graph statistics together
// into the unnet batch run.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"unnet/citegraph/store/csvfile"
	"unnet/graphstats"
	"unnet/progress"
	"unnet/scanner"
)

// Config encapsulates the settings for configuring the unnet service.
type Config struct {
	// Root of the XML corpus.
	DataDir string

	// Location of the edge file.
	EdgeFile string

	// The number of files parsed concurrently.
	Workers int

	// Abort the analysis on the first malformed edge line.
	Strict bool

	// Tolerate common XML syntax errors.
	Permissive bool

	// Rebuild the edge file even if it already exists.
	Force bool

	// A clock instance for measuring elapsed time. Default wall-clock
	// will be used.
	Clock clock.Clock

	// Status line updated while scanning. May be nil.
	Progress *progress.Line

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

// Validate checks the config and fills in defaults.
func (cfg *Config) Validate() error {
	var err error
	if cfg.DataDir == "" {
		err = multierror.Append(err, xerrors.Errorf("data directory has not been provided"))
	}
	if cfg.EdgeFile == "" {
		err = multierror.Append(err, xerrors.Errorf("edge file has not been provided"))
	}
	if cfg.Workers <= 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for workers"))
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

// Result collects the outcome of a full run.
type Result struct {
	// Nil when extraction was skipped.
	Scan *scanner.Report

	Stats   *graphstats.Report
	Elapsed time.Duration
}

// Service runs the extraction and analysis stages.
type Service struct {
	cfg     Config
	scanner *scanner.Scanner
}

// New creates a new service instance with the specified config.
func New(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, xerrors.Errorf("unnet service: config validation failed: %w", err)
	}

	scanCfg := scanner.Config{
		Permissive: cfg.Permissive,
		Workers:    cfg.Workers,
		Logger:     cfg.Logger,
	}
	if cfg.Progress != nil {
		scanCfg.OnProgress = cfg.Progress.Scan
	}
	sc, err := scanner.New(scanCfg)
	if err != nil {
		return nil, xerrors.Errorf("unnet service: %w", err)
	}
	return &Service{cfg: cfg, scanner: sc}, nil
}

// Run builds the edge file unless it already exists and then analyzes it.
func (svc *Service) Run(ctx context.Context) (*Result, error) {
	start := svc.cfg.Clock.Now()
	res := new(Result)

	_, statErr := os.Stat(svc.cfg.EdgeFile)
	switch {
	case statErr == nil && !svc.cfg.Force:
		svc.cfg.Logger.WithField("path", svc.cfg.EdgeFile).Info("edge file already exists; skipping extraction")
	case statErr != nil && !os.IsNotExist(statErr):
		return nil, xerrors.Errorf("unnet service: %w", statErr)
	default:
		report, err := svc.Scan(ctx)
		if err != nil {
			return nil, err
		}
		res.Scan = report
	}

	stats, err := svc.Analyze()
	if err != nil {
		return nil, err
	}
	res.Stats = stats

	res.Elapsed = svc.cfg.Clock.Now().Sub(start)
	svc.cfg.Logger.WithField("elapsed", res.Elapsed.String()).Infof("program took %s", FormatElapsed(res.Elapsed))
	return res, nil
}

// Scan walks the corpus and publishes a fresh edge file. On failure any
// previously published edge file is left untouched.
func (svc *Service) Scan(ctx context.Context) (*scanner.Report, error) {
	if err := os.MkdirAll(filepath.Dir(svc.cfg.EdgeFile), 0o755); err != nil {
		return nil, xerrors.Errorf("unnet service: %w", err)
	}
	w, err := csvfile.Create(svc.cfg.EdgeFile)
	if err != nil {
		return nil, xerrors.Errorf("unnet service: %w", err)
	}

	report, err := svc.scanner.Scan(ctx, svc.cfg.DataDir, w)
	if svc.cfg.Progress != nil {
		svc.cfg.Progress.Done()
	}
	if err != nil {
		if abortErr := w.Abort(); abortErr != nil {
			err = multierror.Append(err, abortErr)
		}
		return nil, xerrors.Errorf("unnet service: %w", err)
	}
	if err = w.Close(); err != nil {
		return nil, xerrors.Errorf("unnet service: %w", err)
	}
	return report, nil
}

// Analyze computes and logs the degree statistics of the edge file.
func (svc *Service) Analyze() (*graphstats.Report, error) {
	logger := svc.cfg.Logger.WithField("path", svc.cfg.EdgeFile)
	logger.Info("analyzing network")

	report, _, err := graphstats.Analyze(svc.cfg.EdgeFile, csvfile.Options{
		Strict: svc.cfg.Strict,
		Logger: logger,
	})
	if err != nil {
		return nil, xerrors.Errorf("unnet service: %w", err)
	}
	report.Log(logger)
	return report, nil
}

// FormatElapsed renders d as seconds with millisecond precision, prefixed
// by whole minutes once d exceeds one minute.
func FormatElapsed(d time.Duration) string {
	secs := d.Seconds()
	if secs > 60 {
		minutes := int(secs / 60)
		return fmt.Sprintf("%dm %.3fs", minutes, secs-float64(minutes*60))
	}
	return fmt.Sprintf("%.3fs", secs)
}
