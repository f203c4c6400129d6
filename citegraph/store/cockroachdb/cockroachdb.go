package cockroachdb

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/xerrors"

	"unnet/citegraph/graph"
)

var (
	schemaQueries = []string{
		`CREATE TABLE IF NOT EXISTS runs (
	id UUID PRIMARY KEY,
	source TEXT NOT NULL,
	edge_count BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS edges (
	run_id UUID NOT NULL,
	seq BIGINT NOT NULL,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
)`,
		`CREATE TABLE IF NOT EXISTS nodes (
	run_id UUID NOT NULL,
	id TEXT NOT NULL,
	incoming BIGINT NOT NULL,
	outgoing BIGINT NOT NULL,
	PRIMARY KEY (run_id, id)
)`,
	}

	insertRunQuery = `INSERT INTO runs (id, source, edge_count, created_at) VALUES ($1, $2, $3, $4)`

	findRunQuery = `SELECT source, edge_count, created_at FROM runs WHERE id=$1`

	edgesInRunQuery = `SELECT source, target FROM edges WHERE run_id=$1 ORDER BY seq`

	nodesInRunQuery = `SELECT id, incoming, outgoing FROM nodes WHERE run_id=$1 ORDER BY id`
)

// Run describes one edge stream exported to the database.
type Run struct {
	ID        uuid.UUID
	Source    string
	EdgeCount int
	CreatedAt time.Time
}

// CockroachDBGraph stores edge streams and node degrees in CockroachDB or any
// PostgreSQL compatible database. Every export is kept apart under its own
// run ID.
type CockroachDBGraph struct {
	db *sql.DB
}

// NewCockroachDBGraph returns a CockroachDBGraph instance that connects to
// the database identified by dsn and makes sure the schema exists.
func NewCockroachDBGraph(dsn string) (*CockroachDBGraph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, xerrors.Errorf("cockroachdb: open: %w", err)
	}
	for _, q := range schemaQueries {
		if _, err = db.Exec(q); err != nil {
			_ = db.Close()
			return nil, xerrors.Errorf("cockroachdb: create schema: %w", err)
		}
	}
	return &CockroachDBGraph{db: db}, nil
}

// Close terminates the connection to the backing database.
func (c *CockroachDBGraph) Close() error {
	return c.db.Close()
}

// BeginRun starts a new export. source describes where the edges come from
// and is stored with the run once the returned writer is closed.
func (c *CockroachDBGraph) BeginRun(source string) (*RunWriter, error) {
	txn, err := c.db.Begin()
	if err != nil {
		return nil, xerrors.Errorf("begin run: %w", err)
	}
	stmt, err := txn.Prepare(pq.CopyIn("edges", "run_id", "seq", "source", "target"))
	if err != nil {
		_ = txn.Rollback()
		return nil, xerrors.Errorf("begin run: %w", err)
	}
	return &RunWriter{
		ID:     uuid.New(),
		source: source,
		txn:    txn,
		stmt:   stmt,
	}, nil
}

// FindRun looks up a run by its ID.
func (c *CockroachDBGraph) FindRun(id uuid.UUID) (*Run, error) {
	row := c.db.QueryRow(findRunQuery, id)
	run := &Run{ID: id}
	if err := row.Scan(&run.Source, &run.EdgeCount, &run.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, xerrors.Errorf("find run: %w", graph.ErrNotFound)
		}
		return nil, xerrors.Errorf("find run: %w", err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return run, nil
}

// Edges returns an iterator over the edges of a run in export order.
func (c *CockroachDBGraph) Edges(runID uuid.UUID) (graph.EdgeIterator, error) {
	rows, err := c.db.Query(edgesInRunQuery, runID)
	if err != nil {
		return nil, xerrors.Errorf("edges: %w", err)
	}
	return &edgeIterator{rows: rows}, nil
}

// SaveNodes stores the degree counters of a run.
func (c *CockroachDBGraph) SaveNodes(runID uuid.UUID, nodes []graph.Node) error {
	txn, err := c.db.Begin()
	if err != nil {
		return xerrors.Errorf("save nodes: %w", err)
	}
	stmt, err := txn.Prepare(pq.CopyIn("nodes", "run_id", "id", "incoming", "outgoing"))
	if err != nil {
		_ = txn.Rollback()
		return xerrors.Errorf("save nodes: %w", err)
	}
	for _, n := range nodes {
		if _, err = stmt.Exec(runID, n.ID, n.Incoming, n.Outgoing); err != nil {
			_ = stmt.Close()
			_ = txn.Rollback()
			return xerrors.Errorf("save nodes: %w", err)
		}
	}
	if _, err = stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = txn.Rollback()
		return xerrors.Errorf("save nodes: %w", err)
	}
	if err = stmt.Close(); err != nil {
		_ = txn.Rollback()
		return xerrors.Errorf("save nodes: %w", err)
	}
	if err = txn.Commit(); err != nil {
		return xerrors.Errorf("save nodes: %w", err)
	}
	return nil
}

// Nodes returns the degree counters stored for a run, ordered by node ID.
func (c *CockroachDBGraph) Nodes(runID uuid.UUID) ([]graph.Node, error) {
	rows, err := c.db.Query(nodesInRunQuery, runID)
	if err != nil {
		return nil, xerrors.Errorf("nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		if err = rows.Scan(&n.ID, &n.Incoming, &n.Outgoing); err != nil {
			return nil, xerrors.Errorf("nodes: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err = rows.Err(); err != nil {
		return nil, xerrors.Errorf("nodes: %w", err)
	}
	return nodes, nil
}
