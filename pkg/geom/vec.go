// Package geom provides the small amount of 2D vector math the tessellation needs.
package geom

import "math"

// Vec is a 2D point or displacement in canvas units.
type Vec struct {
	X, Y float64
}

// V is a convenience constructor for Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v+w.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns v scaled by s.
func (v Vec) Mul(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and w.
func (v Vec) Dot(w Vec) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product of v and w.
func (v Vec) Cross(w Vec) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Perp returns v rotated by +90 degrees.
func (v Vec) Perp() Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the polar angle of v in (-π, π].
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Near reports whether v and w differ by at most tol on both axes.
func (v Vec) Near(w Vec, tol float64) bool {
	return math.Abs(v.X-w.X) <= tol && math.Abs(v.Y-w.Y) <= tol
}

// Lerp interpolates between a (t=0) and b (t=1).
func Lerp(a, b Vec, t float64) Vec {
	return Vec{X: Mix(a.X, b.X, t), Y: Mix(a.Y, b.Y, t)}
}

// Midpoint returns the midpoint of segment ab.
func Midpoint(a, b Vec) Vec {
	return a.Add(b).Mul(0.5)
}

// Centroid returns the arithmetic mean of pts, the zero vector for none.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		return Vec{}
	}
	var c Vec
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(pts)))
}

// Rotate returns a copy of pts shifted left by n positions, wrapping around.
func Rotate(pts []Vec, n int) []Vec {
	out := make([]Vec, len(pts))
	for i := range pts {
		out[i] = pts[(i+n)%len(pts)]
	}
	return out
}
