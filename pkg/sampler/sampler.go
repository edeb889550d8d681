// Package sampler reads per-cell colours from a raster image.
//
// An image is resized once to the cell grid so that Sample(x, y) addresses
// one pixel per grid cell. Coordinates outside the grid are clamped to the
// nearest edge pixel, which lets callers sample the halo ring around the grid
// without special cases.
package sampler

import (
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"  // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/matzehuels/voronoisvg/pkg/errors"
)

// Sampler returns the colour of grid cell (x, y) with channels in [0,1].
type Sampler interface {
	Sample(x, y int) (r, g, b float64)
}

// None samples black everywhere. It stands in when no image was configured.
type None struct{}

// Sample implements Sampler.
func (None) Sample(int, int) (r, g, b float64) { return 0, 0, 0 }

// Image is a raster resized to the cell grid.
type Image struct {
	pix  *image.NRGBA
	w, h int
}

// Open decodes the image at path and resizes it to w×h pixels. A
// non-positive w or h keeps the image's own size along that axis.
func Open(path string, w, h int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageUnavailable, err, "open %s", path)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageUnavailable, err, "decode %s", path)
	}
	if src.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeImageUnavailable, "%s: empty %s image", path, format)
	}
	return FromImage(src, w, h), nil
}

// FromImage wraps an already decoded image, resizing it with Catmull-Rom
// when its size differs from w×h.
func FromImage(src image.Image, w, h int) *Image {
	b := src.Bounds()
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return &Image{pix: dst, w: w, h: h}
}

// Size returns the sampled grid dimensions.
func (im *Image) Size() (w, h int) {
	return im.w, im.h
}

// Sample implements Sampler. Alpha is ignored.
func (im *Image) Sample(x, y int) (r, g, b float64) {
	x = max(min(x, im.w-1), 0)
	y = max(min(y, im.h-1), 0)
	c := im.pix.NRGBAAt(x, y)
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// HSV returns a view of s whose channels are hue, saturation and value,
// each scaled to [0,1].
func HSV(s Sampler) Sampler {
	return hsv{s}
}

type hsv struct {
	src Sampler
}

func (v hsv) Sample(x, y int) (h, s, val float64) {
	r, g, b := v.src.Sample(x, y)
	h, s, val = colorful.Color{R: r, G: g, B: b}.Hsv()
	return h / 360, s, val
}
