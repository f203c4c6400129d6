package scanner

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/xerrors"
)

// Document is the part of a corpus file that matters for the citation
// graph.
type Document struct {
	// The document number identifying the source of every edge.
	DocNumber string

	// Citation targets in document order. Duplicates are kept.
	Targets []string

	// Anchors that were skipped because they carry no href attribute.
	Warnings []error

	// Number of hrefs that do not reference another publication.
	IgnoredLinks int
}

// Extractor pulls document numbers and citation targets out of XML files.
// It holds no mutable state and can be shared between goroutines.
type Extractor struct {
	docNumberPath etree.Path
	anchorPath    etree.Path
	hrefAttr      string
	permissive    bool
}

// NewExtractor returns an Extractor that reads the identifier from the first
// docNumberTag element and links from the hrefAttr attribute of anchorTag
// elements. In permissive mode the XML decoder tolerates common syntax
// errors such as unquoted attributes and unknown entities.
func NewExtractor(docNumberTag, anchorTag, hrefAttr string, permissive bool) (*Extractor, error) {
	docNumberPath, err := etree.CompilePath("//" + docNumberTag)
	if err != nil {
		return nil, xerrors.Errorf("doc-number tag %q: %w", docNumberTag, err)
	}
	anchorPath, err := etree.CompilePath("//" + anchorTag)
	if err != nil {
		return nil, xerrors.Errorf("anchor tag %q: %w", anchorTag, err)
	}
	return &Extractor{
		docNumberPath: docNumberPath,
		anchorPath:    anchorPath,
		hrefAttr:      hrefAttr,
		permissive:    permissive,
	}, nil
}

// Extract parses the file at path. It fails with ErrMalformedDocument,
// ErrMissingDocNumber or ErrMalformedDocNumber when the file cannot yield a
// document; a valid document may still have no targets.
func (x *Extractor) Extract(path string) (*Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.Permissive = x.permissive
	if err := tree.ReadFromFile(path); err != nil {
		return nil, xerrors.Errorf("%v: %w", err, ErrMalformedDocument)
	}

	docNumbers := tree.FindElementsPath(x.docNumberPath)
	if len(docNumbers) == 0 {
		return nil, ErrMissingDocNumber
	}
	docNumber, children := singleString(docNumbers[0])
	if children != 1 {
		return nil, xerrors.Errorf("%s has %d children: %w", docNumbers[0].GetPath(), children, ErrMalformedDocNumber)
	} else if docNumber == nil {
		return nil, xerrors.Errorf("%s holds an element instead of text: %w", docNumbers[0].GetPath(), ErrMalformedDocNumber)
	}

	id := strings.TrimSpace(*docNumber)
	if strings.ContainsAny(id, "\r\n") {
		return nil, xerrors.Errorf("%s spans several lines: %w", docNumbers[0].GetPath(), ErrMalformedDocNumber)
	}

	doc := &Document{DocNumber: id}
	for _, anchor := range tree.FindElementsPath(x.anchorPath) {
		href := anchor.SelectAttr(x.hrefAttr)
		if href == nil {
			doc.Warnings = append(doc.Warnings, xerrors.Errorf("%s: %w", anchor.GetPath(), ErrAnchorWithoutHref))
			continue
		}

		target, ok := NormalizeLink(href.Value)
		if !ok {
			doc.IgnoredLinks++
			continue
		}
		doc.Targets = append(doc.Targets, target)
	}
	return doc, nil
}

// singleString returns the number of children of el, ignoring comments and
// processing instructions, and the text of the first one if it is
// character data.
func singleString(el *etree.Element) (*string, int) {
	var (
		text     *string
		children int
	)
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Comment, *etree.ProcInst:
			continue
		case *etree.CharData:
			if children == 0 {
				data := t.Data
				text = &data
			}
		}
		children++
	}
	return text, children
}
