package render

import (
	"iter"
	"math"

	"github.com/matzehuels/voronoisvg/pkg/cell"
	"github.com/matzehuels/voronoisvg/pkg/clip"
	"github.com/matzehuels/voronoisvg/pkg/shape"
	"github.com/matzehuels/voronoisvg/pkg/sitefield"
)

// Emitter produces the records of single cells. It is safe for concurrent
// use: all of its state is read-only.
type Emitter struct {
	field    *sitefield.Field
	builder  *cell.Builder
	canvas   clip.Canvas
	shape    shape.Shape
	colors   ColorMode
	cellDiag float64
}

// NewEmitter lays f over canvas and paints cells with s and colors.
func NewEmitter(f *sitefield.Field, canvas clip.Canvas, s shape.Shape, colors ColorMode) *Emitter {
	b := cell.NewBuilder(f, canvas.Width, canvas.Height)
	cw, ch := b.CellSize()
	return &Emitter{
		field:    f,
		builder:  b,
		canvas:   canvas,
		shape:    s,
		colors:   colors,
		cellDiag: math.Hypot(cw, ch),
	}
}

// Emit builds cell (x, y) and returns its records. Geometry errors are
// reported before any record is produced; the records themselves are
// computed lazily as the sequence is consumed.
func (e *Emitter) Emit(x, y int) (iter.Seq[Record], error) {
	c, err := e.builder.Build(x, y, e.shape.NeedsNeighbors())
	if err != nil {
		return nil, err
	}
	w, h := e.field.Size()
	ref := CellRef{X: x, Y: y, XCells: w, YCells: h, Value: e.field.Value(x, y)}
	pieces := e.shape.Pieces(c, ref.Value, e.canvas)
	worley, isWorley := e.shape.(shape.Worley)

	return func(yield func(Record) bool) {
		var fill Color
		if !isWorley {
			fill = e.colors.Color(ref)
		}
		for _, p := range pieces {
			r := Record{X: x, Y: y, Path: p.Path, Fill: fill}
			if isWorley && p.Neighbor != nil {
				r.Gradient = e.worleyGradient(worley.Kind, c, *p.Neighbor, ref)
			}
			if !yield(r) {
				return
			}
		}
	}, nil
}
