package cell

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/voronoisvg/pkg/errors"
	"github.com/matzehuels/voronoisvg/pkg/geom"
	"github.com/matzehuels/voronoisvg/pkg/sitefield"
)

func uniformBuilder(t *testing.T, w, h int, width, height float64) *Builder {
	t.Helper()
	f, err := sitefield.Uniform(w, h, 0.5, geom.V(0.5, 0.5))
	require.NoError(t, err)
	return NewBuilder(f, width, height)
}

func randomBuilder(t *testing.T, w, h int, seed uint64) *Builder {
	t.Helper()
	f, err := sitefield.New(sitefield.Config{XCells: w, YCells: h, Seed: &seed, RimWidth: 2})
	require.NoError(t, err)
	return NewBuilder(f, 512, 512)
}

func TestNeighborhood(t *testing.T) {
	require.Len(t, Neighborhood, 24)
	assert.Equal(t, Offset{-2, -2}, Neighborhood[0])
	assert.Equal(t, Offset{2, 2}, Neighborhood[23])
	assert.NotContains(t, Neighborhood, Offset{0, 0})
}

func TestUniformGridSquares(t *testing.T) {
	b := uniformBuilder(t, 4, 4, 100, 100)

	for cy := 0; cy < 4; cy++ {
		for cx := 0; cx < 4; cx++ {
			c, err := b.Build(cx, cy, true)
			require.NoError(t, err)

			x0, y0 := float64(cx)*25, float64(cy)*25
			want := []geom.Vec{
				geom.V(x0, y0), geom.V(x0+25, y0),
				geom.V(x0+25, y0+25), geom.V(x0, y0+25),
			}
			assert.InDelta(t, x0+12.5, c.Site.X, 1e-9)
			assert.InDelta(t, y0+12.5, c.Site.Y, 1e-9)
			require.Len(t, c.Corners, 4, "cell (%d,%d)", cx, cy)
			for i := range want {
				assert.InDelta(t, want[i].X, c.Corners[i].X, 1e-9, "cell (%d,%d) corner %d", cx, cy, i)
				assert.InDelta(t, want[i].Y, c.Corners[i].Y, 1e-9, "cell (%d,%d) corner %d", cx, cy, i)
			}
			assert.Equal(t, []Offset{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}, c.Neighbors)
		}
	}
}

func TestUniformGridRectangles(t *testing.T) {
	b := uniformBuilder(t, 3, 2, 90, 40)
	c, err := b.Build(1, 1, false)
	require.NoError(t, err)
	require.Len(t, c.Corners, 4)
	assert.InDelta(t, 30, c.Corners[0].X, 1e-9)
	assert.InDelta(t, 20, c.Corners[0].Y, 1e-9)
	assert.InDelta(t, 60, c.Corners[2].X, 1e-9)
	assert.InDelta(t, 40, c.Corners[2].Y, 1e-9)
	assert.Nil(t, c.Neighbors)
}

func TestCellsAreConvexAndSorted(t *testing.T) {
	b := randomBuilder(t, 12, 10, 2024)

	for cy := -1; cy <= 10; cy++ {
		for cx := -1; cx <= 12; cx++ {
			c, err := b.Build(cx, cy, false)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(c.Corners), 3)

			n := len(c.Corners)
			prev := c.Corners[0].Sub(c.Site).Angle()
			for i := 1; i < n; i++ {
				a := c.Corners[i].Sub(c.Site).Angle()
				assert.Greater(t, a, prev, "cell (%d,%d) corner %d", cx, cy, i)
				prev = a
			}
			for i := range n {
				p, q, r := c.Corners[i], c.Corners[(i+1)%n], c.Corners[(i+2)%n]
				assert.GreaterOrEqual(t, q.Sub(p).Cross(r.Sub(q)), -1e-9,
					"cell (%d,%d) turns clockwise at corner %d", cx, cy, (i+1)%n)
			}
		}
	}
}

func TestCellContainsOnlyItsSite(t *testing.T) {
	b := randomBuilder(t, 8, 8, 9)
	c, err := b.Build(3, 4, false)
	require.NoError(t, err)

	// every corner is equidistant from the site and at least one neighbour,
	// and no neighbour is closer
	for _, p := range c.Corners {
		d := p.Sub(c.Site).Len()
		for _, o := range Neighborhood {
			assert.GreaterOrEqual(t, p.Sub(b.Site(3+o.DX, 4+o.DY)).Len(), d-1e-6)
		}
	}
}

func TestNeighborsAreMutual(t *testing.T) {
	b := randomBuilder(t, 10, 10, 77)

	edges := map[[2]int][]Offset{}
	for cy := 2; cy < 8; cy++ {
		for cx := 2; cx < 8; cx++ {
			c, err := b.Build(cx, cy, true)
			require.NoError(t, err)
			require.Len(t, c.Neighbors, len(c.Corners))
			edges[[2]int{cx, cy}] = c.Neighbors
		}
	}

	for key, ns := range edges {
		for _, o := range ns {
			other, ok := edges[[2]int{key[0] + o.DX, key[1] + o.DY}]
			if !ok {
				continue
			}
			assert.Contains(t, other, Offset{-o.DX, -o.DY}, "cell %v neighbour %v", key, o)
		}
	}
}

func TestInvariantError(t *testing.T) {
	err := error(&InvariantError{X: 3, Y: -1, Edge: 2, Count: 0})

	assert.True(t, stderrors.Is(err, ErrNeighborInvariant))
	assert.True(t, errors.Is(err, errors.ErrCodeGeometryInvariant))
	assert.Contains(t, err.Error(), "cell (3,-1)")

	var ie *InvariantError
	require.True(t, stderrors.As(err, &ie))
	assert.Equal(t, 2, ie.Edge)
}

func TestCellSize(t *testing.T) {
	b := uniformBuilder(t, 4, 2, 100, 50)
	w, h := b.CellSize()
	assert.Equal(t, 25.0, w)
	assert.Equal(t, 25.0, h)
	assert.Equal(t, geom.V(-12.5, 12.5), b.Site(-1, 0))
}

func TestEveryEdgeHasOneNeighbor(t *testing.T) {
	patterns := []sitefield.Pattern{sitefield.Jitter{}, sitefield.HoneycombX{}, sitefield.HoneycombY{}}

	for _, pattern := range patterns {
		for _, transformable := range []bool{false, true} {
			for seed := uint64(1); seed <= 3; seed++ {
				f, err := sitefield.New(sitefield.Config{
					XCells: 32, YCells: 32, Seed: &seed, RimWidth: 2,
					Transformable: transformable, Pattern: pattern,
				})
				require.NoError(t, err)
				b := NewBuilder(f, 512, 512)

				for cy := -1; cy <= 32; cy++ {
					for cx := -1; cx <= 32; cx++ {
						c, err := b.Build(cx, cy, true)
						require.NoError(t, err, "%s transformable=%v seed %d", pattern, transformable, seed)
						require.Len(t, c.Neighbors, len(c.Corners))
					}
				}
			}
		}
	}
}

func TestNearTripleJunctionsOnSmallGrids(t *testing.T) {
	if testing.Short() {
		t.Skip("many seeds")
	}
	for seed := uint64(1); seed <= 100; seed++ {
		b := randomBuilder(t, 8, 8, seed)
		for cy := -1; cy <= 8; cy++ {
			for cx := -1; cx <= 8; cx++ {
				_, err := b.Build(cx, cy, true)
				require.NoError(t, err, "seed %d", seed)
			}
		}
	}
}
