// Package sitefield generates the per-cell value and site offset of a
// jittered grid.
//
// A Field is computed eagerly, single-threaded, when it is constructed and is
// read-only afterwards, so any number of goroutines may query it. Lookups
// wrap toroidally: Value(-1, y) is Value(w-1, y).
//
// # Random streams
//
// Values, x offsets and y offsets each draw from their own PCG stream. When
// a rim seed is configured, cells within the rim width of the grid border
// draw from separate rim streams, so the border can be reproduced while the
// interior varies (and vice versa). Without a seed the interior streams are
// seeded from the runtime's entropy source.
package sitefield

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/geom"
)

// Config describes how a Field is generated.
type Config struct {
	XCells, YCells int

	// Seed reproduces the interior streams. Nil means non-reproducible.
	Seed *uint64
	// RimSeed gives rim cells their own reproducible streams. Nil means rim
	// cells share the interior streams.
	RimSeed *uint64
	// RimWidth is the border thickness, in cells, drawing from the rim streams.
	RimWidth int

	// Transformable makes the border rings symmetric under the dihedral
	// group of the square. Requires XCells == YCells >= 2.
	Transformable bool

	// Pattern post-processes the random offsets. Nil means Jitter.
	Pattern Pattern
}

// Field holds one value and one site offset per grid cell.
type Field struct {
	w, h    int
	values  []float64
	offsets []geom.Vec
}

// Stream selectors mixed into the PCG state so the three sequences differ
// even when they share a seed.
const (
	streamValue uint64 = 0x9e3779b97f4a7c15
	streamX     uint64 = 0xbf58476d1ce4e5b9
	streamY     uint64 = 0x94d049bb133111eb
)

// ringShrink pulls transformable ring values towards 0.5.
const ringShrink = 0.75

// ringInset scales the offset component normal to the canvas edge on the
// transformable rings.
const ringInset = 0.8

// maxOffset keeps offsets strictly below 1 so a site never leaves its cell.
var maxOffset = math.Nextafter(1, 0)

// New generates a field from cfg.
func New(cfg Config) (*Field, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	w, h := cfg.XCells, cfg.YCells
	f := &Field{
		w:       w,
		h:       h,
		values:  make([]float64, w*h),
		offsets: make([]geom.Vec, w*h),
	}

	vals := cfg.streams(streamValue)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.values[f.index(x, y)] = vals.next(IsRim(x, y, w, h, cfg.RimWidth))
		}
	}

	xs, ys := cfg.streams(streamX), cfg.streams(streamY)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rim := IsRim(x, y, w, h, cfg.RimWidth)
			f.offsets[f.index(x, y)] = geom.V(xs.next(rim), ys.next(rim))
		}
	}

	if cfg.Transformable {
		f.symmetrize(vals, xs, ys)
	}

	pattern := cfg.Pattern
	if pattern == nil {
		pattern = Jitter{}
	}
	f.offsets = pattern.apply(f.offsets, w, h)
	for i, o := range f.offsets {
		f.offsets[i] = geom.V(geom.Clamp(o.X, 0, maxOffset), geom.Clamp(o.Y, 0, maxOffset))
	}
	return f, nil
}

// FromData builds a field from explicit row-major values and offsets.
func FromData(w, h int, values []float64, offsets []geom.Vec) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "grid must be at least 1x1, got %dx%d", w, h)
	}
	if len(values) != w*h || len(offsets) != w*h {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"field data has %d values and %d offsets, want %d", len(values), len(offsets), w*h)
	}
	return &Field{
		w:       w,
		h:       h,
		values:  append([]float64(nil), values...),
		offsets: append([]geom.Vec(nil), offsets...),
	}, nil
}

// Uniform returns a field with the same value and offset in every cell.
func Uniform(w, h int, value float64, offset geom.Vec) (*Field, error) {
	values := make([]float64, w*h)
	offsets := make([]geom.Vec, w*h)
	for i := range values {
		values[i] = value
		offsets[i] = offset
	}
	return FromData(w, h, values, offsets)
}

// Size returns the grid dimensions in cells.
func (f *Field) Size() (w, h int) {
	return f.w, f.h
}

// Value returns the scalar of cell (cx, cy), wrapping out-of-range coordinates.
func (f *Field) Value(cx, cy int) float64 {
	return f.values[f.index(wrap(cx, f.w), wrap(cy, f.h))]
}

// Offset returns the site offset of cell (cx, cy) within its cell, in [0,1)².
func (f *Field) Offset(cx, cy int) geom.Vec {
	return f.offsets[f.index(wrap(cx, f.w), wrap(cy, f.h))]
}

// IsRim reports whether (x, y) lies within rw cells of the border of a w×h grid.
func IsRim(x, y, w, h, rw int) bool {
	return x < rw || y < rw || x+rw >= w || y+rw >= h
}

func (f *Field) index(x, y int) int {
	return y*f.w + x
}

func wrap(c, n int) int {
	return ((c % n) + n) % n
}

// symmetrize overwrites the four border rings so that every ring position
// and its images under rotation and reflection share one random draw.
func (f *Field) symmetrize(vals, xs, ys streams) {
	w, h := f.w, f.h
	n := min(w/2+1, w)

	rv := make([]float64, n)
	ro := make([]geom.Vec, n)
	for i := range n {
		rv[i] = vals.next(true)
	}
	for i := range n {
		ro[i] = geom.V(xs.next(true), ys.next(true))
	}

	for i := range n {
		v := 0.5 + (rv[i]-0.5)*ringShrink
		for _, p := range ringOrbit(i, w, h) {
			f.values[f.index(p[0], p[1])] = v
		}

		xo, yo := ro[i].X, ro[i].Y
		l := ringInset
		set := func(x, y int, ox, oy float64) { f.offsets[f.index(x, y)] = geom.V(ox, oy) }
		set(0, i, l*xo, yo)
		set(0, h-i-1, l*xo, 1-yo)
		set(w-1, i, 1-l*xo, 1-yo)
		set(w-1, h-i-1, 1-l*xo, yo)
		set(i, 0, xo, l*yo)
		set(w-i-1, 0, 1-xo, l*yo)
		set(i, h-1, 1-xo, 1-l*yo)
		set(w-i-1, h-1, xo, 1-l*yo)
	}
}

// ringOrbit lists the eight border positions that ring index i maps to.
func ringOrbit(i, w, h int) [8][2]int {
	return [8][2]int{
		{0, i}, {0, h - i - 1}, {w - 1, i}, {w - 1, h - i - 1},
		{i, 0}, {w - i - 1, 0}, {i, h - 1}, {w - i - 1, h - 1},
	}
}

func (cfg Config) validate() error {
	if err := errors.ValidatePositive("x-cells", cfg.XCells); err != nil {
		return err
	}
	if err := errors.ValidatePositive("y-cells", cfg.YCells); err != nil {
		return err
	}
	if cfg.RimWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rim width must not be negative, got %d", cfg.RimWidth)
	}
	if cfg.Transformable {
		if cfg.XCells != cfg.YCells {
			return errors.New(errors.ErrCodeInvalidConfig,
				"transformable output needs x-cells == y-cells, got %d and %d", cfg.XCells, cfg.YCells)
		}
		if cfg.XCells < 2 {
			return errors.New(errors.ErrCodeInvalidConfig, "transformable output needs at least 2 cells per side")
		}
	}
	return nil
}

// streams is one logical sequence with an optional rim override.
type streams struct {
	mid *rand.Rand
	rim *rand.Rand
}

func (cfg Config) streams(selector uint64) streams {
	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	s := streams{mid: rand.New(rand.NewPCG(seed, seed^selector))}
	if cfg.RimSeed != nil {
		s.rim = rand.New(rand.NewPCG(*cfg.RimSeed, *cfg.RimSeed^selector))
	}
	return s
}

func (s streams) next(rim bool) float64 {
	if rim && s.rim != nil {
		return s.rim.Float64()
	}
	return s.mid.Float64()
}
