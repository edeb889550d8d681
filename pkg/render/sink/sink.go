// Package sink writes render records to output documents.
//
// A sink is driven in three phases: Begin writes the document prologue once,
// Write is called with batches of records (possibly from several workers,
// serialised by the caller), and End writes the epilogue. Batches are
// written atomically: a batch either reaches the underlying writer as a whole
// or Write fails.
//
//   - [SVG]: vector output built with github.com/ajstarks/svgo
//   - [PNG]: raster preview rasterised with github.com/fogleman/gg
package sink

import (
	"github.com/matzehuels/voronoisvg/pkg/render"
)

// Sink receives batches of records. Implementations are not safe for
// concurrent use; callers serialise Write. The batch may be reused once
// Write returns.
type Sink interface {
	Write(batch []render.Record) error
}

// Document is a Sink with a prologue and an epilogue.
type Document interface {
	Sink
	Begin() error
	End() error
}

// Page describes the output canvas.
type Page struct {
	Width, Height float64
	Units         string // px, mm, cm, in or pt
	StrokeWidth   float64
}

// Units lists the accepted page units.
var Units = []string{"px", "mm", "cm", "in", "pt"}
