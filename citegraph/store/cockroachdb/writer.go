package cockroachdb

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
)

// Compile-time check for ensuring RunWriter implements EdgeWriter.
var _ graph.EdgeWriter = (*RunWriter)(nil)

// RunWriter streams the edges of a single run into the database with a
// COPY statement. Nothing becomes visible until Close commits the run.
type RunWriter struct {
	// The ID assigned to the run.
	ID uuid.UUID

	source string
	txn    *sql.Tx
	stmt   *sql.Stmt
	seq    int64
	closed bool
}

// WriteEdge implements graph.EdgeWriter.
func (w *RunWriter) WriteEdge(edge *graph.Edge) error {
	if w.closed {
		return xerrors.Errorf("write edge: %w", graph.ErrClosed)
	}
	if _, err := w.stmt.Exec(w.ID, w.seq, edge.Source, edge.Target); err != nil {
		return xerrors.Errorf("write edge: %w", err)
	}
	w.seq++
	return nil
}

// Flush implements graph.EdgeWriter. COPY data is buffered by the driver
// and only sent in full when the run is closed.
func (w *RunWriter) Flush() error {
	if w.closed {
		return xerrors.Errorf("flush: %w", graph.ErrClosed)
	}
	return nil
}

// EdgeCount returns the number of edges written so far.
func (w *RunWriter) EdgeCount() int { return int(w.seq) }

// Close completes the COPY, records the run and commits.
func (w *RunWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if _, err := w.stmt.Exec(); err != nil {
		_ = w.stmt.Close()
		_ = w.txn.Rollback()
		return xerrors.Errorf("close run: %w", err)
	}
	if err := w.stmt.Close(); err != nil {
		_ = w.txn.Rollback()
		return xerrors.Errorf("close run: %w", err)
	}
	if _, err := w.txn.Exec(insertRunQuery, w.ID, w.source, w.seq, time.Now().UTC()); err != nil {
		_ = w.txn.Rollback()
		return xerrors.Errorf("close run: %w", err)
	}
	if err := w.txn.Commit(); err != nil {
		return xerrors.Errorf("close run: %w", err)
	}
	return nil
}

// Abort discards the run.
func (w *RunWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.stmt.Close()
	if err := w.txn.Rollback(); err != nil {
		return xerrors.Errorf("abort run: %w", err)
	}
	return nil
}
