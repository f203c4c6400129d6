package scanner

import (
	"sync"

	"unnet/pipeline"
)

var (
	_ pipeline.Payload = (*scanPayload)(nil)

	payloadPool = sync.Pool{
		New: func() interface{} { return new(scanPayload) },
	}
)

// scanPayload carries one corpus file through the scan pipeline.
type scanPayload struct {
	Seq  int
	Path string

	Doc *Document
	Err error
}

// Clone implements pipeline.Payload.
func (p *scanPayload) Clone() pipeline.Payload {
	newP := payloadPool.Get().(*scanPayload)
	newP.Seq = p.Seq
	newP.Path = p.Path
	newP.Doc = p.Doc
	newP.Err = p.Err
	return newP
}

// MarkAsProcessed implements pipeline.Payload.
func (p *scanPayload) MarkAsProcessed() {
	p.Seq = 0
	p.Path = ""
	p.Doc = nil
	p.Err = nil
	payloadPool.Put(p)
}
