// Package shape turns cell polygons into the outlines that get painted.
//
// The variants form a closed set: Full, Scaled, Flagstone, Pebble and
// Worley. None of them modifies its input; each returns freshly allocated
// paths.
package shape

import (
	"math"

	"github.com/matzehuels/voronoisvg/pkg/cell"
	"github.com/matzehuels/voronoisvg/pkg/clip"
	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/geom"
)

// ScaleCurve maps a cell value to a scale coefficient.
type ScaleCurve int

const (
	Constant ScaleCurve = iota // 1
	Linear                     // v
	Sqrt                       // √v
	Pow2                       // v²
	Exp                        // eᵛ/e
	Sigmoid                    // ½ − ½·cos(πv)
)

var curveNames = [...]string{"constant", "linear", "sqrt", "pow2", "exp", "sigmoid"}

// ScaleCurveNames lists the accepted ScaleCurve names in declaration order.
func ScaleCurveNames() []string {
	return curveNames[:]
}

// ParseScaleCurve resolves a curve by name.
func ParseScaleCurve(s string) (ScaleCurve, error) {
	for i, n := range curveNames {
		if n == s {
			return ScaleCurve(i), nil
		}
	}
	return 0, errors.ValidateOneOf("scale mode", s, curveNames[:])
}

func (c ScaleCurve) String() string {
	if c < 0 || int(c) >= len(curveNames) {
		return "unknown"
	}
	return curveNames[c]
}

// Coef returns the curve evaluated at v.
func (c ScaleCurve) Coef(v float64) float64 {
	switch c {
	case Linear:
		return v
	case Sqrt:
		return math.Sqrt(v)
	case Pow2:
		return v * v
	case Exp:
		return math.Exp(v) / math.E
	case Sigmoid:
		return 0.5 - 0.5*math.Cos(v*math.Pi)
	default:
		return 1
	}
}

// Piece is one outline produced for a cell. Worley pieces carry the
// neighbour whose gradient paints them; every other piece is painted solid.
type Piece struct {
	Path     Path
	Neighbor *cell.Offset
}

// Shape reshapes a cell into the pieces that get painted.
type Shape interface {
	String() string
	// NeedsNeighbors reports whether Pieces reads Cell.Neighbors.
	NeedsNeighbors() bool
	// Pieces reshapes c. value is the cell's scalar from the site field.
	Pieces(c cell.Cell, value float64, canvas clip.Canvas) []Piece
}

// Scale moves every corner towards the centroid of corners: s = 1 keeps
// them, s = 0 collapses them onto the centroid.
func Scale(corners []geom.Vec, s float64) []geom.Vec {
	m := geom.Centroid(corners)
	out := make([]geom.Vec, len(corners))
	for i, c := range corners {
		out[i] = geom.Lerp(m, c, s)
	}
	return out
}

// Full paints the whole cell.
type Full struct{}

func (Full) String() string       { return "full" }
func (Full) NeedsNeighbors() bool { return false }

func (Full) Pieces(c cell.Cell, _ float64, canvas clip.Canvas) []Piece {
	return []Piece{{Path: Polygon(clip.Clip(c.Corners, canvas))}}
}

// Scaled shrinks the cell towards its centroid.
type Scaled struct {
	Scale float64
	Curve ScaleCurve
}

func (Scaled) String() string       { return "scaled" }
func (Scaled) NeedsNeighbors() bool { return false }

func (s Scaled) Pieces(c cell.Cell, value float64, canvas clip.Canvas) []Piece {
	return []Piece{{Path: Polygon(clip.Clip(Scale(c.Corners, s.Scale*s.Curve.Coef(value)), canvas))}}
}

// Flagstone slides every corner along its outgoing edge by the cell value
// before scaling, giving irregular slabs.
type Flagstone struct {
	Scale float64
	Curve ScaleCurve
}

func (Flagstone) String() string       { return "flagstone" }
func (Flagstone) NeedsNeighbors() bool { return false }

func (f Flagstone) Pieces(c cell.Cell, value float64, canvas clip.Canvas) []Piece {
	next := geom.Rotate(c.Corners, 1)
	slid := make([]geom.Vec, len(c.Corners))
	for i := range c.Corners {
		slid[i] = geom.Lerp(c.Corners[i], next[i], value)
	}
	return []Piece{{Path: Polygon(clip.Clip(Scale(slid, f.Scale*f.Curve.Coef(value)), canvas))}}
}

// Pebble scales the cell and rounds it into a closed chain of quadratic
// curves whose control points are the scaled corners.
type Pebble struct {
	Scale float64
	Curve ScaleCurve
}

func (Pebble) String() string       { return "pebble" }
func (Pebble) NeedsNeighbors() bool { return false }

func (p Pebble) Pieces(c cell.Cell, value float64, _ clip.Canvas) []Piece {
	a := Scale(c.Corners, p.Scale*p.Curve.Coef(value))
	b := geom.Rotate(a, 1)
	on := make([]geom.Vec, len(a))
	for i := range a {
		on[i] = geom.Lerp(a[i], b[i], value)
	}
	d := geom.Rotate(on, 1)

	path := Path{Start: on[0], Segments: make([]Segment, len(a))}
	for i := range a {
		path.Segments[i] = Segment{Ctrl: b[i], To: d[i], Quad: true}
	}
	return []Piece{{Path: path}}
}

// WorleyKind selects what a Worley gradient encodes.
type WorleyKind int

const (
	NormalMap WorleyKind = iota
	HeightMap
	CellValue
)

var worleyNames = [...]string{"worley-nmap", "worley-hmap", "worley-cvh"}

func (k WorleyKind) String() string {
	if k < 0 || int(k) >= len(worleyNames) {
		return "worley"
	}
	return worleyNames[k]
}

// Worley fans the cell into one triangle per edge, from the site to the
// edge's corners. Each triangle is painted with a gradient running towards
// the neighbour across that edge, approximating cellular noise maps.
type Worley struct {
	Kind WorleyKind
}

func (w Worley) String() string     { return w.Kind.String() }
func (Worley) NeedsNeighbors() bool { return true }

func (Worley) Pieces(c cell.Cell, _ float64, _ clip.Canvas) []Piece {
	n := len(c.Corners)
	out := make([]Piece, 0, n)
	for t := range n {
		if t >= len(c.Neighbors) {
			break
		}
		nb := c.Neighbors[t]
		out = append(out, Piece{
			Path:     Polygon([]geom.Vec{c.Site, c.Corners[t], c.Corners[(t+1)%n]}),
			Neighbor: &nb,
		})
	}
	return out
}

// Names lists every cell mode name accepted by Parse.
func Names() []string {
	return []string{"full", "scaled", "flagstone", "pebble", worleyNames[0], worleyNames[1], worleyNames[2]}
}

// Parse resolves a cell mode by name. scale and curve are used by the
// variants that shrink cells.
func Parse(name string, scale float64, curve ScaleCurve) (Shape, error) {
	switch name {
	case "full":
		return Full{}, nil
	case "scaled":
		return Scaled{Scale: scale, Curve: curve}, nil
	case "flagstone":
		return Flagstone{Scale: scale, Curve: curve}, nil
	case "pebble":
		return Pebble{Scale: scale, Curve: curve}, nil
	}
	for i, n := range worleyNames {
		if n == name {
			return Worley{Kind: WorleyKind(i)}, nil
		}
	}
	return nil, errors.ValidateOneOf("cell mode", name, Names())
}
