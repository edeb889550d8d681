// Package cell builds the polygon of one grid cell of a jittered Voronoi
// tessellation.
//
// Each cell is the region of the canvas closer to its site than to any of
// the 24 sites in the surrounding 5×5 block. The construction is brute
// force: intersect every pair of perpendicular bisectors, drop intersections
// that some bisector separates from the site, and sort the survivors by
// angle. This is exact for the full diagram as long as every site stays
// inside its own grid cell, which sitefield guarantees.
package cell

import (
	"cmp"
	"fmt"
	"math/bits"
	"slices"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/geom"
	"github.com/matzehuels/voronoisvg/pkg/sitefield"
)

// Offset identifies a neighbouring cell relative to the cell being built.
type Offset struct {
	DX, DY int
}

// Neighborhood lists the 24 neighbours considered for every cell, row by row.
var Neighborhood = func() []Offset {
	out := make([]Offset, 0, 24)
	for j := -2; j <= 2; j++ {
		for i := -2; i <= 2; i++ {
			if i != 0 || j != 0 {
				out = append(out, Offset{DX: i, DY: j})
			}
		}
	}
	return out
}()

// cutEpsilon is how far short of a candidate corner a bisector crossing must
// be to disqualify it, as a fraction of the site-to-corner distance.
const cutEpsilon = 1e-3

// strictEpsilon is the separation window of the second pass, which only
// tests bisectors that do not pass through the candidate. Near triple
// junctions the cutEpsilon window keeps corners a few hundredths of a unit
// outside the cell; this pass removes them.
const strictEpsilon = 1e-9

// mergeTolerance is the distance, relative to the cell size, under which two
// candidate corners are the same point. Regular grids produce several
// bisector pairs meeting at one corner.
const mergeTolerance = 1e-7

// ErrNeighborInvariant reports an edge whose end points do not share exactly
// one bounding bisector.
var ErrNeighborInvariant = errors.New(errors.ErrCodeGeometryInvariant,
	"edge is not bounded by exactly one neighbour")

// InvariantError locates a neighbour invariant violation.
type InvariantError struct {
	X, Y  int // cell coordinate
	Edge  int // index of the offending edge
	Count int // number of shared bisectors found
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("cell (%d,%d) edge %d: %d shared bisectors, want 1; retry with another seed or scale",
		e.X, e.Y, e.Edge, e.Count)
}

// Unwrap returns ErrNeighborInvariant.
func (e *InvariantError) Unwrap() error {
	return ErrNeighborInvariant
}

// Cell is the polygon of one grid cell.
type Cell struct {
	X, Y int
	// Site is the world position of the cell's jittered point.
	Site geom.Vec
	// Corners are ordered by increasing polar angle around Site.
	Corners []geom.Vec
	// Neighbors[i] is the neighbour across the edge Corners[i] → Corners[i+1].
	// Only populated when requested.
	Neighbors []Offset
}

// Builder computes cells from a site field laid over a canvas.
type Builder struct {
	field        *sitefield.Field
	cellW, cellH float64
}

// NewBuilder lays f over a width×height canvas.
func NewBuilder(f *sitefield.Field, width, height float64) *Builder {
	w, h := f.Size()
	return &Builder{
		field: f,
		cellW: width / float64(w),
		cellH: height / float64(h),
	}
}

// CellSize returns the size of one grid cell in canvas units.
func (b *Builder) CellSize() (w, h float64) {
	return b.cellW, b.cellH
}

// Site returns the world position of the site of cell (cx, cy). Coordinates
// outside the grid use the wrapped offset but are not themselves wrapped.
func (b *Builder) Site(cx, cy int) geom.Vec {
	o := b.field.Offset(cx, cy)
	return geom.V((float64(cx)+o.X)*b.cellW, (float64(cy)+o.Y)*b.cellH)
}

type candidate struct {
	p     geom.Vec
	cuts  uint32 // bit k set when bisector k passes through p
	angle float64
}

// Build computes the polygon of cell (cx, cy). With neighbors set it also
// resolves the neighbour across each edge, failing with an *InvariantError
// when an edge is ambiguous.
func (b *Builder) Build(cx, cy int, neighbors bool) (Cell, error) {
	site := b.Site(cx, cy)

	cuts := make([]geom.Line, len(Neighborhood))
	for k, o := range Neighborhood {
		cuts[k] = geom.Bisector(site, b.Site(cx+o.DX, cy+o.DY))
	}

	tol := mergeTolerance * (b.cellW + b.cellH)
	var cands []candidate
	for j := range cuts {
		for i := j + 1; i < len(cuts); i++ {
			t, ok := geom.IntersectParam(cuts[j], cuts[i])
			if !ok {
				continue
			}
			p := cuts[j].At(t)
			if separated(site, p, cuts) {
				continue
			}
			cands = merge(cands, p, uint32(1)<<j|uint32(1)<<i, tol)
		}
	}

	cands = slices.DeleteFunc(cands, func(c candidate) bool {
		return strictlySeparated(site, c, cuts)
	})

	if len(cands) < 3 {
		return Cell{}, errors.New(errors.ErrCodeDegenerateCell,
			"cell (%d,%d) has %d corners", cx, cy, len(cands))
	}

	for k := range cands {
		cands[k].angle = cands[k].p.Sub(site).Angle()
	}
	slices.SortFunc(cands, func(a, b candidate) int { return cmp.Compare(a.angle, b.angle) })

	c := Cell{X: cx, Y: cy, Site: site, Corners: make([]geom.Vec, len(cands))}
	for k, cd := range cands {
		c.Corners[k] = cd.p
	}
	if !neighbors {
		return c, nil
	}

	c.Neighbors = make([]Offset, len(cands))
	for k := range cands {
		shared := cands[k].cuts & cands[(k+1)%len(cands)].cuts
		if n := bits.OnesCount32(shared); n != 1 {
			return Cell{}, &InvariantError{X: cx, Y: cy, Edge: k, Count: n}
		}
		c.Neighbors[k] = Neighborhood[bits.TrailingZeros32(shared)]
	}
	return c, nil
}

// separated reports whether some bisector crosses the segment site→p
// strictly before p, which puts p outside the cell.
func separated(site, p geom.Vec, cuts []geom.Line) bool {
	seg := geom.Segment(site, p)
	for _, cut := range cuts {
		if t, ok := geom.IntersectParam(seg, cut); ok && t > 0 && t < 1-cutEpsilon {
			return true
		}
	}
	return false
}

// strictlySeparated is separated restricted to the bisectors not through c,
// with a window of strictEpsilon.
func strictlySeparated(site geom.Vec, c candidate, cuts []geom.Line) bool {
	seg := geom.Segment(site, c.p)
	for k, cut := range cuts {
		if c.cuts&(1<<k) != 0 {
			continue
		}
		if t, ok := geom.IntersectParam(seg, cut); ok && t > 0 && t < 1-strictEpsilon {
			return true
		}
	}
	return false
}

func merge(cands []candidate, p geom.Vec, cuts uint32, tol float64) []candidate {
	for k := range cands {
		if cands[k].p.Near(p, tol) {
			cands[k].cuts |= cuts
			return cands
		}
	}
	return append(cands, candidate{p: p, cuts: cuts})
}
