package scanner

import "golang.org/x/xerrors"

var (
	// ErrMalformedDocument is returned when a corpus file cannot be read
	// or parsed into an element tree.
	ErrMalformedDocument = xerrors.New("malformed document")

	// ErrMissingDocNumber is returned when a document contains no
	// document number element.
	ErrMissingDocNumber = xerrors.New("no doc-number")

	// ErrMalformedDocNumber is returned when the first document number
	// element does not hold exactly one string child.
	ErrMalformedDocNumber = xerrors.New("doc-number without exactly one string-child")

	// ErrAnchorWithoutHref describes an anchor that carries no link. It is
	// only ever reported as a warning.
	ErrAnchorWithoutHref = xerrors.New("anchor without href attribute")
)
