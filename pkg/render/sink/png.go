package sink

import (
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/render"
	"github.com/matzehuels/voronoisvg/pkg/shape"
)

// PNGOption configures the PNG sink.
type PNGOption func(*PNG)

// WithScale sets the pixels per canvas unit (default 1).
func WithScale(s float64) PNGOption {
	return func(p *PNG) {
		if s > 0 {
			p.scale = s
		}
	}
}

// WithBackground fills the image before any record is drawn.
func WithBackground(c color.Color) PNGOption {
	return func(p *PNG) { p.background = c }
}

// PNG rasterises records into an in-memory image and encodes it on End.
type PNG struct {
	w          io.Writer
	page       Page
	scale      float64
	background color.Color
	dc         *gg.Context
}

// NewPNG returns a PNG document writing to w.
func NewPNG(w io.Writer, page Page, opts ...PNGOption) *PNG {
	p := &PNG{w: w, page: page, scale: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Begin allocates the image.
func (p *PNG) Begin() error {
	wpx := max(1, int(p.page.Width*p.scale+0.5))
	hpx := max(1, int(p.page.Height*p.scale+0.5))
	p.dc = gg.NewContext(wpx, hpx)
	if p.background != nil {
		p.dc.SetColor(p.background)
		p.dc.Clear()
	}
	return nil
}

// Write draws every record of batch, filled and stroked with its paint.
func (p *PNG) Write(batch []render.Record) error {
	if p.dc == nil {
		return errors.New(errors.ErrCodeInternal, "png sink written before Begin")
	}
	for _, r := range batch {
		p.trace(r.Path)
		if g := r.Gradient; g != nil {
			grad := gg.NewLinearGradient(g.From.X*p.scale, g.From.Y*p.scale, g.To.X*p.scale, g.To.Y*p.scale)
			for _, st := range g.Stops {
				grad.AddColorStop(float64(st.Offset)/100, color.NRGBA{
					R: st.Color.R, G: st.Color.G, B: st.Color.B,
					A: render.Channel(st.Opacity),
				})
			}
			p.dc.SetFillStyle(grad)
			p.dc.SetStrokeStyle(grad)
		} else {
			p.dc.SetColor(r.Fill)
		}
		p.dc.SetLineWidth(p.page.StrokeWidth * p.scale)
		p.dc.FillPreserve()
		p.dc.Stroke()
	}
	return nil
}

// End encodes the image.
func (p *PNG) End() error {
	if p.dc == nil {
		return errors.New(errors.ErrCodeInternal, "png sink ended before Begin")
	}
	if err := p.dc.EncodePNG(p.w); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "encode png")
	}
	return nil
}

func (p *PNG) trace(path shape.Path) {
	s := p.scale
	p.dc.NewSubPath()
	p.dc.MoveTo(path.Start.X*s, path.Start.Y*s)
	for _, seg := range path.Segments {
		if seg.Quad {
			p.dc.QuadraticTo(seg.Ctrl.X*s, seg.Ctrl.Y*s, seg.To.X*s, seg.To.Y*s)
		} else {
			p.dc.LineTo(seg.To.X*s, seg.To.Y*s)
		}
	}
	p.dc.ClosePath()
}
