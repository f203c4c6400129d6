package csvfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
)

// DefaultMaxLineSize is the longest edge line parsed when Options leaves
// MaxLineSize unset.
const DefaultMaxLineSize = 16 * 1024 * 1024

// Compile-time check for ensuring Reader implements EdgeIterator.
var _ graph.EdgeIterator = (*Reader)(nil)

// Options configures how an edge file is read.
type Options struct {
	// Strict turns malformed lines into a fatal iterator error. When
	// false, malformed lines are logged, counted and skipped.
	Strict bool

	// Lines longer than this many bytes are treated as malformed.
	// Defaults to DefaultMaxLineSize.
	MaxLineSize int

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

// Reader streams the edges of an edge file one line at a time. The first
// line is treated as the header and discarded.
type Reader struct {
	opts    Options
	br      *bufio.Reader
	line    []byte
	closer  io.Closer
	lineNo  int
	latched *graph.Edge
	lastErr error

	malformed int
}

// Open opens the edge file at path for reading.
func Open(path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("edge file: open %s: %w", path, err)
	}
	r := NewReader(f, opts)
	r.closer = f
	return r, nil
}

// NewReader returns a Reader that consumes edge lines from r.
func NewReader(r io.Reader, opts Options) *Reader {
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	if opts.MaxLineSize <= 0 {
		opts.MaxLineSize = DefaultMaxLineSize
	}
	return &Reader{opts: opts, br: bufio.NewReaderSize(r, 64*1024)}
}

// Next implements graph.EdgeIterator.
func (r *Reader) Next() bool {
	if r.lastErr != nil {
		return false
	}
	for {
		raw, tooLong, err := r.readLine()
		if err == io.EOF {
			return false
		} else if err != nil {
			r.lastErr = xerrors.Errorf("edge file: read line %d: %w", r.lineNo+1, err)
			return false
		}
		r.lineNo++
		if r.lineNo == 1 {
			continue
		}

		var fields []string
		if !tooLong {
			fields = strings.Split(strings.TrimSuffix(string(raw), "\r"), Separator)
		}
		if len(fields) != 2 {
			if r.opts.Strict {
				r.lastErr = xerrors.Errorf("edge file: line %d: %w", r.lineNo, graph.ErrMalformedLine)
				return false
			}
			r.malformed++
			r.opts.Logger.WithFields(logrus.Fields{
				"line":     r.lineNo,
				"fields":   len(fields),
				"too_long": tooLong,
			}).Warn("skipping malformed edge line")
			continue
		}

		r.latched = &graph.Edge{Source: fields[0], Target: fields[1]}
		return true
	}
}

// readLine returns the next line without its terminating newline. Lines
// longer than the configured limit are consumed and reported as too long.
// A final line without a newline is returned as is; io.EOF is only
// returned once no bytes are left.
func (r *Reader) readLine() ([]byte, bool, error) {
	r.line = r.line[:0]
	var read, tooLong bool
	for {
		chunk, isPrefix, err := r.br.ReadLine()
		if err != nil {
			if err == io.EOF && read {
				return r.line, tooLong, nil
			}
			return nil, false, err
		}
		read = true
		if !tooLong {
			if len(r.line)+len(chunk) > r.opts.MaxLineSize {
				tooLong = true
				r.line = r.line[:0]
			} else {
				r.line = append(r.line, chunk...)
			}
		}
		if !isPrefix {
			return r.line, tooLong, nil
		}
	}
}

// Edge implements graph.EdgeIterator.
func (r *Reader) Edge() *graph.Edge { return r.latched }

// Error implements graph.EdgeIterator.
func (r *Reader) Error() error { return r.lastErr }

// MalformedLines returns the number of lines skipped so far.
func (r *Reader) MalformedLines() int { return r.malformed }

// Close implements graph.EdgeIterator.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	if err != nil {
		return xerrors.Errorf("edge file: close: %w", err)
	}
	return nil
}
