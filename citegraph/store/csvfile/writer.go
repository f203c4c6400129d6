// Package csvfile persists edge streams as flat "source,target" files.
//
// The format carries no quoting: a source or target that contains the
// separator corrupts the line it is written to.
package csvfile

import (
	"bufio"
	"os"

	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
)

const (
	// Header is the first line of every edge file.
	Header = "source,target"

	// Separator splits the source from the target on each line.
	Separator = ","

	tmpSuffix = ".tmp"
)

// Compile-time check for ensuring Writer implements EdgeWriter.
var _ graph.EdgeWriter = (*Writer)(nil)

// Writer appends edges to an edge file. Edges go to a temporary file next
// to the destination which only replaces the destination on Close, so an
// interrupted run never leaves a partial file under the final name.
type Writer struct {
	path    string
	tmpPath string
	f       *os.File
	buf     *bufio.Writer
	count   int
	closed  bool
}

// Create opens a new edge file for writing and emits the header line.
func Create(path string) (*Writer, error) {
	tmpPath := path + tmpSuffix
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, xerrors.Errorf("edge file: create %s: %w", tmpPath, err)
	}

	w := &Writer{
		path:    path,
		tmpPath: tmpPath,
		f:       f,
		buf:     bufio.NewWriter(f),
	}
	if _, err = w.buf.WriteString(Header + "\n"); err != nil {
		_ = w.Abort()
		return nil, xerrors.Errorf("edge file: write header: %w", err)
	}
	return w, nil
}

// Path returns the final location of the edge file.
func (w *Writer) Path() string { return w.path }

// EdgeCount returns the number of edges written so far.
func (w *Writer) EdgeCount() int { return w.count }

// WriteEdge implements graph.EdgeWriter.
func (w *Writer) WriteEdge(edge *graph.Edge) error {
	if w.closed {
		return xerrors.Errorf("edge file: write: %w", graph.ErrClosed)
	}
	if _, err := w.buf.WriteString(edge.Source + Separator + edge.Target + "\n"); err != nil {
		return xerrors.Errorf("edge file: write: %w", err)
	}
	w.count++
	return nil
}

// Flush implements graph.EdgeWriter.
func (w *Writer) Flush() error {
	if w.closed {
		return xerrors.Errorf("edge file: flush: %w", graph.ErrClosed)
	}
	if err := w.buf.Flush(); err != nil {
		return xerrors.Errorf("edge file: flush: %w", err)
	}
	return nil
}

// Close flushes all pending edges and publishes the edge file under its
// final name.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		_ = w.Abort()
		return xerrors.Errorf("edge file: flush: %w", err)
	}
	w.closed = true
	if err := w.f.Close(); err != nil {
		_ = os.Remove(w.tmpPath)
		return xerrors.Errorf("edge file: close: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		_ = os.Remove(w.tmpPath)
		return xerrors.Errorf("edge file: publish %s: %w", w.path, err)
	}
	return nil
}

// Abort discards everything written so far. It is a no-op after Close.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.f.Close()
	if err := os.Remove(w.tmpPath); err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("edge file: remove %s: %w", w.tmpPath, err)
	}
	return nil
}
