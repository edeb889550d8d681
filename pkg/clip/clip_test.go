package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/voronoisvg/pkg/geom"
)

var canvas = Canvas{Width: 100, Height: 80}

func TestClipInsideUnchanged(t *testing.T) {
	poly := []geom.Vec{geom.V(10, 10), geom.V(50, 12), geom.V(40, 60), geom.V(12, 40)}
	got := Clip(poly, canvas)
	assert.Equal(t, poly, got)

	got[0] = geom.V(0, 0)
	assert.Equal(t, geom.V(10, 10), poly[0], "Clip must not alias its input")
}

func TestClipTouchingBoundaryUnchanged(t *testing.T) {
	poly := []geom.Vec{geom.V(0, 0), geom.V(100, 0), geom.V(100, 80), geom.V(0, 80)}
	assert.Equal(t, poly, Clip(poly, canvas))
}

func TestCanvasContains(t *testing.T) {
	assert.True(t, canvas.Contains(geom.V(0, 0)))
	assert.True(t, canvas.Contains(geom.V(100, 80)))
	assert.False(t, canvas.Contains(geom.V(-0.1, 40)))
	assert.False(t, canvas.Contains(geom.V(50, 80.1)))
}

func TestClipStraddlingLeftEdge(t *testing.T) {
	poly := []geom.Vec{geom.V(-10, 10), geom.V(10, 10), geom.V(10, 30), geom.V(-10, 30)}
	got := Clip(poly, canvas)

	want := []geom.Vec{
		geom.V(-10, 10), geom.V(0, 10),
		geom.V(10, 10), geom.V(10, 30),
		geom.V(0, 30), geom.V(-10, 30),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "point %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "point %d", i)
	}
}

func TestClipClosingEdge(t *testing.T) {
	// the first and the closing edge both cross the top side
	poly := []geom.Vec{geom.V(20, -10), geom.V(30, 20), geom.V(10, 20)}
	got := Clip(poly, canvas)

	require.Len(t, got, 5)
	assert.InDelta(t, 0, got[1].Y, 1e-9)
	assert.Equal(t, geom.V(30, 20), got[2])
	assert.Equal(t, geom.V(10, 20), got[3])
	assert.InDelta(t, 0, got[4].Y, 1e-9)
	assert.InDelta(t, 16.666666666, got[4].X, 1e-6)
}

func TestClipCornerCrossingOrder(t *testing.T) {
	// the first edge enters through the right side and leaves through the bottom
	poly := []geom.Vec{geom.V(110, 60), geom.V(90, 90), geom.V(80, 70)}
	got := Clip(poly, canvas)

	want := []geom.Vec{
		geom.V(110, 60), geom.V(100, 75), geom.V(96.666666666, 80),
		geom.V(90, 90), geom.V(85, 80),
		geom.V(80, 70), geom.V(100, 63.333333333),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-6, "point %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-6, "point %d", i)
	}
	for _, p := range got[1:3] {
		assert.True(t, canvas.Contains(p))
	}
}

func TestClipDegenerate(t *testing.T) {
	poly := []geom.Vec{geom.V(-5, 5), geom.V(5, 5)}
	got := Clip(poly, canvas)
	assert.Equal(t, poly, got)
	got[0] = geom.V(1, 1)
	assert.Equal(t, geom.V(-5, 5), poly[0])
}
