package render

import (
	"fmt"
	"math"

	"github.com/matzehuels/voronoisvg/pkg/cell"
	"github.com/matzehuels/voronoisvg/pkg/geom"
	"github.com/matzehuels/voronoisvg/pkg/shape"
)

// Stop is one colour stop of a gradient. Offset is in percent.
type Stop struct {
	Offset  int
	Color   Color
	Opacity float64
}

// Gradient is a linear gradient in canvas coordinates.
type Gradient struct {
	ID       string
	From, To geom.Vec
	Stops    []Stop
}

// Record is one closed path with its paint.
type Record struct {
	X, Y int // cell that produced the record
	Path shape.Path
	// Fill is used when Gradient is nil.
	Fill     Color
	Gradient *Gradient
}

// Paint returns the SVG paint reference for stroke and fill.
func (r Record) Paint() string {
	if r.Gradient != nil {
		return "url(#" + r.Gradient.ID + ")"
	}
	return r.Fill.Hex()
}

// GradientID names the gradient from cell (x, y) towards its neighbour o.
// Ids are unique for cells up to three rows or columns outside the grid.
func GradientID(x, y int, o cell.Offset, xCells int) string {
	stride := xCells + 6
	return fmt.Sprintf("grad%d_%d", (y+3)*stride+(x+3), (y+o.DY+3)*stride+(x+o.DX+3))
}

// worleyGradient builds the gradient painting the triangle of c that faces
// neighbour o.
func (e *Emitter) worleyGradient(kind shape.WorleyKind, c cell.Cell, o cell.Offset, ref CellRef) *Gradient {
	from := c.Site
	to := e.builder.Site(c.X+o.DX, c.Y+o.DY)
	g := &Gradient{ID: GradientID(c.X, c.Y, o, ref.XCells), From: from, To: to}
	v := ref.Value

	switch kind {
	case shape.NormalMap:
		d := from.Sub(to)
		sv := math.Sqrt(v)
		nx, ny, nz := sv*d.X, sv*d.Y, -e.cellDiag*math.Sqrt(1-v*0.5)
		l := math.Sqrt(nx*nx + ny*ny + nz*nz)
		col := Color{
			R: Channel(0.5 - 0.5*nx/l),
			G: Channel(0.5 - 0.5*ny/l),
			B: Channel(0.5 - 0.5*nz/l),
		}
		g.Stops = []Stop{{0, col, 1}, {50, col, 1}}
	case shape.HeightMap:
		g.Stops = []Stop{{0, Gray(v), 1}, {50, Color{}, 1}}
	case shape.CellValue:
		x, y := ref.Wrapped()
		col := Color{
			R: Channel(float64(x) / float64(ref.XCells)),
			G: Channel(float64(y) / float64(ref.YCells)),
			B: Channel(v),
		}
		g.Stops = []Stop{{0, col, 1}, {50, col, 0}}
	}
	return g
}
