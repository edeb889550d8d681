// Package clip inserts canvas boundary crossings into cell polygons.
//
// Clipping here augments rather than truncates: corners outside the canvas
// are kept, and every point where an edge crosses a canvas side is inserted
// between its end points. The document's viewBox does the visual clipping.
package clip

import (
	"cmp"
	"slices"

	"github.com/matzehuels/voronoisvg/pkg/geom"
)

// Canvas is the rectangle [0,Width]×[0,Height].
type Canvas struct {
	Width, Height float64
}

// Contains reports whether p lies inside the closed canvas rectangle.
func (c Canvas) Contains(p geom.Vec) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= c.Width && p.Y <= c.Height
}

// sides returns the four canvas edges walked clockwise from the origin.
func (c Canvas) sides() [4]geom.Line {
	w, h := c.Width, c.Height
	return [4]geom.Line{
		{P: geom.V(0, 0), D: geom.V(w, 0)},
		{P: geom.V(w, 0), D: geom.V(0, h)},
		{P: geom.V(w, h), D: geom.V(-w, 0)},
		{P: geom.V(0, h), D: geom.V(0, -h)},
	}
}

// Clip returns corners with the canvas crossings of every edge, including
// the closing edge, inserted in order along the edge. Polygons with fewer
// than three corners, and polygons inside the canvas, are returned as a copy.
func Clip(corners []geom.Vec, c Canvas) []geom.Vec {
	if len(corners) < 3 || !slices.ContainsFunc(corners, func(p geom.Vec) bool { return !c.Contains(p) }) {
		return slices.Clone(corners)
	}
	sides := c.sides()
	out := make([]geom.Vec, 0, len(corners)+4)
	for i, a := range corners {
		out = append(out, a)
		out = append(out, crossings(a, corners[(i+1)%len(corners)], sides)...)
	}
	return out
}

type crossing struct {
	t float64
	p geom.Vec
}

// crossings returns the points where segment ab strictly crosses a side,
// sorted by distance from a.
func crossings(a, b geom.Vec, sides [4]geom.Line) []geom.Vec {
	seg := geom.Segment(a, b)
	var found []crossing
	for _, side := range sides {
		t1, ok := geom.IntersectParam(seg, side)
		if !ok || t1 <= 0 || t1 >= 1 {
			continue
		}
		t2, ok := geom.IntersectParam(side, seg)
		if !ok || t2 <= 0 || t2 >= 1 {
			continue
		}
		found = append(found, crossing{t: t1, p: geom.Lerp(a, b, t1)})
	}
	slices.SortFunc(found, func(x, y crossing) int { return cmp.Compare(x.t, y.t) })

	pts := make([]geom.Vec, len(found))
	for i, f := range found {
		pts[i] = f.p
	}
	return pts
}
