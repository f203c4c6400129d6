package graph

import "golang.org/x/xerrors"

var (
	// ErrNotFound is returned when a run or edge stream lookup fails.
	ErrNotFound = xerrors.New("not found")

	// ErrMalformedLine is returned by edge readers when a persisted edge
	// cannot be split into exactly one source and one target.
	ErrMalformedLine = xerrors.New("malformed edge line")

	// ErrClosed is returned when writing to an edge writer that has
	// already been closed.
	ErrClosed = xerrors.New("edge writer closed")
)
