package sitefield

import (
	"math"

	"github.com/matzehuels/voronoisvg/pkg/geom"
	"github.com/matzehuels/voronoisvg/pkg/sampler"
)

// Pattern reshapes the random offsets of a field. The set of patterns is
// closed: Jitter, HoneycombX, HoneycombY and ImageContour.
type Pattern interface {
	String() string
	apply(base []geom.Vec, w, h int) []geom.Vec
}

// Jitter keeps the random offsets as they are.
type Jitter struct{}

func (Jitter) String() string { return "default" }

func (Jitter) apply(base []geom.Vec, _, _ int) []geom.Vec { return base }

// HoneycombX pulls sites towards a hexagonal layout whose columns alternate
// between the top and the middle of their cells.
type HoneycombX struct{}

func (HoneycombX) String() string { return "honeycomb-x" }

func (HoneycombX) apply(base []geom.Vec, w, h int) []geom.Vec {
	out := make([]geom.Vec, len(base))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := base[y*w+x]
			hy := 0.0
			if x%2 != 0 {
				hy = 0.5
			}
			out[y*w+x] = geom.V(geom.Mix(b.X, 0.5, 0.8), geom.Mix(b.Y, hy, 0.9))
		}
	}
	return out
}

// HoneycombY is HoneycombX with the axes swapped.
type HoneycombY struct{}

func (HoneycombY) String() string { return "honeycomb-y" }

func (HoneycombY) apply(base []geom.Vec, w, h int) []geom.Vec {
	out := make([]geom.Vec, len(base))
	for y := 0; y < h; y++ {
		hx := 0.0
		if y%2 != 0 {
			hx = 0.5
		}
		for x := 0; x < w; x++ {
			b := base[y*w+x]
			out[y*w+x] = geom.V(geom.Mix(b.X, hx, 0.9), geom.Mix(b.Y, 0.5, 0.8))
		}
	}
	return out
}

// ImageContour moves sites along the local colour gradient of an image
// sampled at one pixel per cell, so cell edges tend to follow contours.
// Flat regions keep their random offsets.
type ImageContour struct {
	Source sampler.Sampler
}

func (ImageContour) String() string { return "image" }

// contourKernel is the 8-neighbourhood used to estimate the gradient.
var contourKernel = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// contourSteepness sharpens the blend weight between random and contour offsets.
const contourSteepness = 2.5

func (p ImageContour) apply(base []geom.Vec, w, h int) []geom.Vec {
	src := p.Source
	if src == nil {
		src = sampler.None{}
	}
	im := sampler.HSV(src)
	kn := 1.0 / float64(len(contourKernel))

	out := make([]geom.Vec, len(base))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var n, disp geom.Vec
			ch, cs, cv := im.Sample(x, y)
			for _, k := range contourKernel {
				oh, osat, ov := im.Sample(x+k[0], y+k[1])
				dw := dominant(hueDistance(ch, oh), cs-osat, cv-ov)
				dir := geom.V(float64(k[0]), float64(k[1]))
				dir = dir.Mul(1 / dir.Len())
				n = n.Add(dir.Mul(dw))
				disp = disp.Add(geom.V(n.X*n.X, n.Y*n.Y))
			}
			n = n.Mul(kn)
			disp = geom.V(math.Sqrt(disp.X)*kn, math.Sqrt(disp.Y)*kn)

			strength := math.Max(math.Max(math.Abs(n.X), math.Abs(n.Y)), math.Abs(disp.X-disp.Y))
			weight := geom.Sigmoid(math.Sqrt(strength), contourSteepness)

			b := base[y*w+x]
			out[y*w+x] = geom.V(
				geom.Mix(b.X, 0.5+0.5*n.X, weight),
				geom.Mix(b.Y, 0.5+0.5*n.Y, weight),
			)
		}
	}
	return out
}

// hueDistance is the distance between two hues on the unit circle.
func hueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d < 0.5 {
		return d
	}
	return 1 - d
}

// dominant picks the channel difference that contributes to the gradient:
// value if it beats saturation, otherwise saturation if it beats hue.
func dominant(dh, ds, dv float64) float64 {
	switch {
	case math.Abs(dv) > math.Abs(ds):
		return dv
	case math.Abs(ds) > math.Abs(dh):
		return ds
	default:
		return dh
	}
}
