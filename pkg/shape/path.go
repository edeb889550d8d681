package shape

import (
	"strconv"
	"strings"

	"github.com/matzehuels/voronoisvg/pkg/geom"
)

// Segment is one step of a closed path: a straight line to To, or a
// quadratic curve through control point Ctrl when Quad is set.
type Segment struct {
	To   geom.Vec
	Ctrl geom.Vec
	Quad bool
}

// Path is a closed outline starting at Start.
type Path struct {
	Start    geom.Vec
	Segments []Segment
}

// Polygon returns the closed straight-line path through pts.
func Polygon(pts []geom.Vec) Path {
	if len(pts) == 0 {
		return Path{}
	}
	p := Path{Start: pts[0], Segments: make([]Segment, 0, len(pts)-1)}
	for _, q := range pts[1:] {
		p.Segments = append(p.Segments, Segment{To: q})
	}
	return p
}

// D renders the path as SVG path data with three decimals, e.g.
// "M0.000 0.000 L10.000 0.000 L10.000 10.000 Z".
func (p Path) D() string {
	var b strings.Builder
	b.WriteByte('M')
	writePoint(&b, p.Start)
	for _, s := range p.Segments {
		if s.Quad {
			b.WriteString(" Q")
			writePoint(&b, s.Ctrl)
			b.WriteString(", ")
		} else {
			b.WriteString(" L")
		}
		writePoint(&b, s.To)
	}
	b.WriteString(" Z")
	return b.String()
}

func writePoint(b *strings.Builder, v geom.Vec) {
	b.WriteString(strconv.FormatFloat(v.X, 'f', 3, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(v.Y, 'f', 3, 64))
}
