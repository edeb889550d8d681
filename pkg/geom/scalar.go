package geom

import "math"

// Mix linearly interpolates between a and b by f.
func Mix(a, b, f float64) float64 {
	return (1-f)*a + f*b
}

// Logistic is the standard logistic function.
func Logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Logit is the inverse of Logistic with its argument clamped away from 0 and 1.
func Logit(x float64) float64 {
	const eps = 0.001
	return math.Log(math.Max(x, eps)) - math.Log(math.Max(1-x, eps))
}

// Sigmoid reshapes x in [0,1] into an S curve whose steepness is c.
// Sigmoid(x, 1) is x for x inside the clamp range.
func Sigmoid(x, c float64) float64 {
	return Logistic(c * Logit(x))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
