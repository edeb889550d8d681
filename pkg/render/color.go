package render

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/sampler"
)

// Color is an opaque 8-bit RGB colour.
type Color struct {
	R, G, B uint8
}

// Channel converts c, nominally in [0,1], to an 8-bit channel by truncating
// 255*c and clamping.
func Channel(c float64) uint8 {
	return clampByte(int(255 * c))
}

// Gray returns the gray level v in [0,1].
func Gray(v float64) Color {
	g := Channel(v)
	return Color{R: g, G: g, B: g}
}

// Hex formats c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

func clampByte(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// CellRef identifies the cell being painted.
type CellRef struct {
	X, Y           int     // grid coordinate, possibly in the halo
	XCells, YCells int     // grid size
	Value          float64 // site field value
}

// Wrapped returns the grid coordinate reduced into the grid.
func (c CellRef) Wrapped() (x, y int) {
	return ((c.X % c.XCells) + c.XCells) % c.XCells, ((c.Y % c.YCells) + c.YCells) % c.YCells
}

// ColorMode picks the solid colour of a cell. The set of modes is closed:
// Grayscale, CellCoord, CellCoordValue and ImageRGB.
type ColorMode interface {
	String() string
	Color(c CellRef) Color
}

// ValueRange maps a cell value v in [0,1] to Low + v*(High-Low).
type ValueRange struct {
	Low, High float64
}

func (r ValueRange) apply(v float64) float64 {
	return r.Low + v*(r.High-r.Low)
}

// Grayscale paints the cell value as a gray level.
type Grayscale struct {
	ValueRange
}

func (Grayscale) String() string { return "grayscale" }

func (g Grayscale) Color(c CellRef) Color {
	return Gray(g.apply(c.Value))
}

// CellCoord encodes the wrapped cell coordinate in red and green and a
// constant Z in blue, which makes the output usable as a lookup texture.
type CellCoord struct {
	Z float64
}

func (CellCoord) String() string { return "cell-coord" }

func (m CellCoord) Color(c CellRef) Color {
	x, y := c.Wrapped()
	return Color{
		R: clampByte(256 * x / c.XCells),
		G: clampByte(256 * y / c.YCells),
		B: clampByte(int(256 * m.Z)),
	}
}

// CellCoordValue is CellCoord with the cell value in blue.
type CellCoordValue struct {
	ValueRange
}

func (CellCoordValue) String() string { return "cell-coord-value" }

func (m CellCoordValue) Color(c CellRef) Color {
	x, y := c.Wrapped()
	return Color{
		R: clampByte(256 * x / c.XCells),
		G: clampByte(256 * y / c.YCells),
		B: Channel(m.apply(c.Value)),
	}
}

// ImageRGB paints each cell with its pixel from a source image.
type ImageRGB struct {
	Source sampler.Sampler
}

func (ImageRGB) String() string { return "image-rgb" }

func (m ImageRGB) Color(c CellRef) Color {
	r, g, b := m.Source.Sample(c.X, c.Y)
	return Color{R: Channel(r), G: Channel(g), B: Channel(b)}
}

// ColorModeNames lists the names accepted by ParseColorMode.
func ColorModeNames() []string {
	return []string{"grayscale", "cell-coord", "cell-coord-value", "image-rgb"}
}

// ParseColorMode resolves a colour mode by name. src is only used by
// image-rgb and must then be non-nil.
func ParseColorMode(name string, values ValueRange, z float64, src sampler.Sampler) (ColorMode, error) {
	switch name {
	case "grayscale":
		return Grayscale{values}, nil
	case "cell-coord":
		return CellCoord{Z: z}, nil
	case "cell-coord-value":
		return CellCoordValue{values}, nil
	case "image-rgb":
		if src == nil {
			return nil, errors.New(errors.ErrCodeImageUnavailable, "color mode image-rgb needs an image")
		}
		return ImageRGB{Source: src}, nil
	}
	return nil, errors.ValidateOneOf("color mode", name, ColorModeNames())
}
