package render

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/voronoisvg/pkg/cell"
	"github.com/matzehuels/voronoisvg/pkg/clip"
	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/geom"
	"github.com/matzehuels/voronoisvg/pkg/shape"
	"github.com/matzehuels/voronoisvg/pkg/sitefield"
)

func pathPoints(p shape.Path) []geom.Vec {
	out := []geom.Vec{p.Start}
	for _, seg := range p.Segments {
		out = append(out, seg.To)
	}
	return out
}

type fixedSampler struct{ r, g, b float64 }

func (f fixedSampler) Sample(int, int) (float64, float64, float64) { return f.r, f.g, f.b }

func TestColorModes(t *testing.T) {
	ref := CellRef{X: -1, Y: 2, XCells: 4, YCells: 8, Value: 0.5}
	values := ValueRange{Low: 0.05, High: 0.95}

	tests := []struct {
		mode ColorMode
		want string
	}{
		{Grayscale{values}, "#7f7f7f"},
		{Grayscale{ValueRange{0, 1}}, "#7f7f7f"},
		{CellCoord{Z: 0.25}, "#c04040"},
		{CellCoord{Z: 1}, "#c040ff"},
		{CellCoordValue{values}, "#c0407f"},
		{ImageRGB{Source: fixedSampler{1, 0.5, 0}}, "#ff7f00"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Color(ref).Hex())
		})
	}
}

func TestChannelClamps(t *testing.T) {
	assert.Equal(t, uint8(0), Channel(-0.2))
	assert.Equal(t, uint8(255), Channel(1.5))
	assert.Equal(t, uint8(12), Channel(0.05))
}

func TestParseColorMode(t *testing.T) {
	for _, name := range ColorModeNames() {
		m, err := ParseColorMode(name, ValueRange{0, 1}, 0, fixedSampler{})
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseColorMode("image-rgb", ValueRange{}, 0, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeImageUnavailable))

	_, err = ParseColorMode("sepia", ValueRange{}, 0, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMode))
}

func TestGradientID(t *testing.T) {
	assert.Equal(t, "grad51_52", GradientID(0, 0, cell.Offset{DX: 1, DY: 0}, 10))
	assert.Equal(t, "grad34_16", GradientID(-1, -1, cell.Offset{DX: -2, DY: -1}, 10))
}

func uniformEmitter(t *testing.T, s shape.Shape, colors ColorMode) *Emitter {
	t.Helper()
	f, err := sitefield.Uniform(4, 4, 0.5, geom.V(0.5, 0.5))
	require.NoError(t, err)
	return NewEmitter(f, clip.Canvas{Width: 100, Height: 100}, s, colors)
}

func TestEmitFull(t *testing.T) {
	e := uniformEmitter(t, shape.Full{}, Grayscale{ValueRange{0, 1}})

	seq, err := e.Emit(1, 2)
	require.NoError(t, err)
	recs := slices.Collect(seq)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, 1, r.X)
	assert.Equal(t, 2, r.Y)
	assert.Nil(t, r.Gradient)
	assert.Equal(t, "#7f7f7f", r.Paint())
	assert.Equal(t, "M25.000 50.000 L50.000 50.000 L50.000 75.000 L25.000 75.000 Z", r.Path.D())
}

func TestEmitHaloCell(t *testing.T) {
	e := uniformEmitter(t, shape.Full{}, Grayscale{ValueRange{0, 1}})

	seq, err := e.Emit(-1, 1)
	require.NoError(t, err)
	recs := slices.Collect(seq)
	require.Len(t, recs, 1)
	for _, p := range pathPoints(recs[0].Path) {
		assert.InDelta(t, -12.5, p.X, 12.5+1e-9)
	}
}

func TestEmitWorley(t *testing.T) {
	tests := []struct {
		kind  shape.WorleyKind
		stops []Stop
	}{
		{shape.NormalMap, []Stop{{0, Color{127, 127, 255}, 1}, {50, Color{127, 127, 255}, 1}}},
		{shape.HeightMap, []Stop{{0, Color{127, 127, 127}, 1}, {50, Color{}, 1}}},
		{shape.CellValue, []Stop{{0, Color{63, 127, 127}, 1}, {50, Color{63, 127, 127}, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e := uniformEmitter(t, shape.Worley{Kind: tt.kind}, Grayscale{})

			seq, err := e.Emit(1, 2)
			require.NoError(t, err)
			recs := slices.Collect(seq)
			require.Len(t, recs, 4)

			ids := map[string]bool{}
			for _, r := range recs {
				require.NotNil(t, r.Gradient)
				assert.Equal(t, "url(#"+r.Gradient.ID+")", r.Paint())
				assert.Equal(t, geom.V(37.5, 62.5), r.Gradient.From)
				assert.InDelta(t, 25, r.Gradient.To.Sub(r.Gradient.From).Len(), 1e-9)
				ids[r.Gradient.ID] = true
				if tt.kind != shape.NormalMap {
					assert.Equal(t, tt.stops, r.Gradient.Stops)
				}
			}
			assert.Len(t, ids, 4)
		})
	}
}

func TestEmitWorleyNormalMapFlat(t *testing.T) {
	f, err := sitefield.Uniform(4, 4, 0, geom.V(0.5, 0.5))
	require.NoError(t, err)
	e := NewEmitter(f, clip.Canvas{Width: 100, Height: 100}, shape.Worley{Kind: shape.NormalMap}, Grayscale{})

	seq, err := e.Emit(0, 0)
	require.NoError(t, err)
	for r := range seq {
		// a zero value points the normal straight out of the canvas
		assert.Equal(t, Color{127, 127, 255}, r.Gradient.Stops[0].Color)
	}
}

func TestEmitStopsEarly(t *testing.T) {
	e := uniformEmitter(t, shape.Worley{Kind: shape.HeightMap}, Grayscale{})
	seq, err := e.Emit(0, 0)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
