package sink

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/render"
)

// SVG streams records as SVG path elements.
type SVG struct {
	w    io.Writer
	page Page
	buf  bytes.Buffer
}

// NewSVG returns an SVG document writing to w.
func NewSVG(w io.Writer, page Page) *SVG {
	return &SVG{w: w, page: page}
}

// Begin writes the XML prologue, the svg root and opens the cell group.
func (s *SVG) Begin() error {
	s.buf.Reset()
	canvas := svg.New(&s.buf)
	width := strconv.FormatFloat(s.page.Width, 'f', -1, 64)
	height := strconv.FormatFloat(s.page.Height, 'f', -1, 64)
	canvas.Startraw(
		fmt.Sprintf(`width="%s%s"`, width, s.page.Units),
		fmt.Sprintf(`height="%s%s"`, height, s.page.Units),
		fmt.Sprintf(`viewBox="0 0 %s %s"`, width, height),
	)
	canvas.Group(`class="voronoi"`, fmt.Sprintf(`stroke-width="%f"`, s.page.StrokeWidth))
	canvas.Def()
	canvas.DefEnd()
	return s.flush()
}

// Write appends batch with a single write to the underlying writer.
func (s *SVG) Write(batch []render.Record) error {
	s.buf.Reset()
	canvas := svg.New(&s.buf)
	for _, r := range batch {
		if g := r.Gradient; g != nil {
			canvas.Def()
			writeGradient(canvas.Writer, g)
			canvas.DefEnd()
		}
		paint := r.Paint()
		canvas.Path(r.Path.D(), `stroke="`+paint+`"`, `fill="`+paint+`"`)
	}
	return s.flush()
}

// End closes the cell group and the document.
func (s *SVG) End() error {
	s.buf.Reset()
	canvas := svg.New(&s.buf)
	canvas.Gend()
	canvas.End()
	return s.flush()
}

func (s *SVG) flush() error {
	if _, err := s.w.Write(s.buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "write svg")
	}
	return nil
}

// writeGradient writes a userSpaceOnUse linearGradient. svgo's own
// LinearGradient only takes percentage coordinates.
func writeGradient(w io.Writer, g *render.Gradient) {
	fmt.Fprintf(w, `<linearGradient gradientUnits="userSpaceOnUse" id="%s" x1="%f" y1="%f" x2="%f" y2="%f">`+"\n",
		g.ID, g.From.X, g.From.Y, g.To.X, g.To.Y)
	for _, st := range g.Stops {
		fmt.Fprintf(w, `<stop offset="%d%%" stop-color="%s" stop-opacity="%.1f"/>`+"\n",
			st.Offset, st.Color.Hex(), st.Opacity)
	}
	fmt.Fprintln(w, `</linearGradient>`)
}
