package grid_test

import (
	"context"
	"testing"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/fracture"
	"github.com/aretw0/regolith/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillGenerator sets every node to Saprolite so the boundary reset is observable.
type fillGenerator struct{}

func (fillGenerator) Generate(_, rows, cols int, target []domain.NodeState) []domain.NodeState {
	for i := range target {
		target[i] = domain.Saprolite
	}
	return target
}

func TestNewRaster_Invalid(t *testing.T) {
	_, err := grid.NewRaster(0, 5, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
	_, err = grid.NewRaster(5, -1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
	_, err = grid.NewRaster(5, 5, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
}

func TestRaster_Links(t *testing.T) {
	g, err := grid.NewRaster(3, 4, 1)
	require.NoError(t, err)

	// 3 rows * 3 horizontal + 2 * 4 vertical
	links := g.ActiveLinks()
	require.Len(t, links, 17)

	first := links[0]
	assert.Equal(t, domain.Horizontal, first.Orientation)
	assert.Equal(t, g.Node(0, 0), first.Tail)
	assert.Equal(t, g.Node(0, 1), first.Head)

	last := links[len(links)-1]
	assert.Equal(t, domain.Vertical, last.Orientation)
	assert.Equal(t, g.Node(1, 3), last.Tail)
	assert.Equal(t, g.Node(2, 3), last.Head)

	// Interior node touches four links.
	assert.Len(t, g.NodeLinks(g.Node(1, 1)), 4)
}

func TestRaster_CloseBoundaries(t *testing.T) {
	g, err := grid.NewRaster(4, 5, 1)
	require.NoError(t, err)
	g.CloseBoundaries(true, true, true, true)

	closed := g.ClosedBoundaryNodes()
	assert.Len(t, closed, 2*5+2*2)
	assert.Len(t, g.CoreNodes(), 2*3)
	for _, id := range closed {
		assert.Equal(t, grid.Closed, g.Status(id))
	}

	// Only links between the six core nodes stay active: 2 rows*2 + 1*3.
	assert.Len(t, g.ActiveLinks(), 7)
	for _, l := range g.ActiveLinks() {
		assert.Equal(t, grid.Core, g.Status(l.Tail))
		assert.Equal(t, grid.Core, g.Status(l.Head))
	}
	assert.Empty(t, g.NodeLinks(g.Node(0, 0)))
}

func TestRaster_CloseSingleEdge(t *testing.T) {
	g, err := grid.NewRaster(3, 3, 1)
	require.NoError(t, err)
	g.CloseBoundaries(false, false, true, false)
	assert.Equal(t, []int{0, 1, 2}, g.ClosedBoundaryNodes())
}

func TestRaster_AddNodeField(t *testing.T) {
	g, err := grid.NewRaster(2, 2, 1)
	require.NoError(t, err)

	f, err := g.AddNodeField("x")
	require.NoError(t, err)
	assert.Len(t, f, 4)

	_, err = g.AddNodeField("x")
	assert.ErrorIs(t, err, grid.ErrFieldExists)

	got, ok := g.Field("x")
	assert.True(t, ok)
	assert.Len(t, got, 4)
}

func TestInitialize_BoundaryIsRock(t *testing.T) {
	shapes := [][2]int{{1, 1}, {1, 7}, {2, 2}, {3, 5}, {10, 10}, {17, 4}}
	for _, shape := range shapes {
		spec := grid.InitSpec{Rows: shape[0], Cols: shape[1], Spacing: 1, FractureSpacing: 10}
		g, states, err := grid.Initialize(context.Background(), spec, fillGenerator{})
		require.NoError(t, err)
		require.Len(t, states, shape[0]*shape[1])

		for _, id := range g.ClosedBoundaryNodes() {
			assert.Equal(t, domain.Rock, states[id], "shape %v node %d", shape, id)
		}
		for _, id := range g.CoreNodes() {
			assert.Equal(t, domain.Saprolite, states[id])
		}

		field, ok := g.Field(grid.NodeStateField)
		require.True(t, ok)
		assert.Equal(t, &states[0], &field[0], "state array is attached to the grid")
	}
}

func TestInitialize_WithFractures(t *testing.T) {
	spec := grid.InitSpec{Rows: 50, Cols: 60, Spacing: 1, FractureSpacing: 10}
	g, states, err := grid.Initialize(context.Background(), spec, fracture.New(11))
	require.NoError(t, err)

	for _, id := range g.ClosedBoundaryNodes() {
		assert.Equal(t, domain.Rock, states[id])
	}
	assert.Contains(t, states, domain.Saprolite)
}

func TestInitialize_Errors(t *testing.T) {
	_, _, err := grid.Initialize(context.Background(), grid.InitSpec{Rows: 0, Cols: 1, Spacing: 1}, fillGenerator{})
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)

	_, _, err = grid.Initialize(context.Background(), grid.InitSpec{Rows: 1, Cols: 1, Spacing: 1}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = grid.Initialize(ctx, grid.InitSpec{Rows: 2, Cols: 2, Spacing: 1}, fillGenerator{})
	assert.ErrorIs(t, err, context.Canceled)
}
