package geom

import "math"

// ParallelEpsilon is the denominator magnitude below which two lines are
// treated as parallel.
const ParallelEpsilon = 1e-5

// Line is a parametric line P + t*D.
type Line struct {
	P Vec // point on the line (t = 0)
	D Vec // direction (t = 1 is P+D)
}

// At returns the point at parameter t.
func (l Line) At(t float64) Vec {
	return l.P.Add(l.D.Mul(t))
}

// Segment returns the line through a and b with a at t=0 and b at t=1.
func Segment(a, b Vec) Line {
	return Line{P: a, D: b.Sub(a)}
}

// Bisector returns the perpendicular bisector of segment ab, anchored at
// its midpoint.
func Bisector(a, b Vec) Line {
	return Line{P: Midpoint(a, b), D: b.Sub(a).Perp()}
}

// IntersectParam returns the parameter along l1 at which it meets l2.
// ok is false when the lines are parallel or nearly so.
func IntersectParam(l1, l2 Line) (t float64, ok bool) {
	den := l1.D.Cross(l2.D)
	if math.Abs(den) <= ParallelEpsilon {
		return 0, false
	}
	return l2.P.Sub(l1.P).Cross(l2.D) / den, true
}
