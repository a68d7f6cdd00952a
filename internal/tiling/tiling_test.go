package tiling

import (
	"testing"

	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// edgeKey orders the pair of vertices so it can be used in a set.
type edgeKey [2]topology.VertexID

func newEdgeKey(a, b topology.VertexID) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a, b}
}

func TestDefaultConstruction(t *testing.T) {
	c := Default()
	assert.InDelta(t, 77.274, c.OuterRadius(), 1e-2)
	assert.InDelta(t, 249.28, c.CenterDistance(), 1e-1)

	centers := c.Centers()
	require.Len(t, centers, NumRegions)
	for _, center := range centers[1:] {
		assert.InDelta(t, c.CenterDistance(), centers[0].Distance(center), 1e-2)
	}

	polygons := c.Polygons()
	counts := make(map[PolygonKind]int)
	for _, p := range polygons {
		counts[p.Kind]++
	}
	assert.Equal(t, map[PolygonKind]int{Hexagon: 7, Square: 42, Triangle: 42}, counts)
	assert.Len(t, c.Corners(), 7*(6+6*4+6*3))
}

// TestDrawnSegmentsMatchAdjacency checks that the adjacency derived from the signatures is exactly the
// set of segments drawn by the construction: no false and no missing edges.
func TestDrawnSegmentsMatchAdjacency(t *testing.T) {
	for _, scale := range []float32{1, 1.5} {
		c := Default().Scaled(scale)
		topo := c.Build()
		require.Equal(t, 126, topo.NumVertices(), "scale=%g", scale)

		drawn := generics.MakeSet[edgeKey]()
		numConnectors := 0
		for _, s := range c.Segments() {
			a, foundA := topo.Nearest(s.A, 1)
			b, foundB := topo.Nearest(s.B, 1)
			require.True(t, foundA && foundB, "segment %v->%v ends not at vertices", s.A, s.B)
			drawn.Insert(newEdgeKey(a, b))
			if s.Connector {
				numConnectors++
			}
		}
		assert.Equal(t, 24, numConnectors)
		assert.Len(t, drawn, 234)

		adjacent := generics.MakeSet[edgeKey]()
		for _, v := range topo.Vertices() {
			for _, n := range topo.Neighbours(v.ID) {
				adjacent.Insert(newEdgeKey(v.ID, n))
			}
		}
		assert.Equal(t, 234, topo.NumEdges())
		assert.Empty(t, adjacent.Sub(drawn), "false edges at scale %g", scale)
		assert.Empty(t, drawn.Sub(adjacent), "missing edges at scale %g", scale)
	}
}

func TestRegions(t *testing.T) {
	topo := Default().Build()
	regions := topo.Regions()
	require.Len(t, regions, NumRegions)
	seen := generics.MakeSet[topology.VertexID]()
	for ii, region := range regions {
		assert.Equal(t, RegionNames[ii], region.Name)
		assert.Len(t, region.Members, 12, "region %s", region)
		for _, v := range region.Members {
			assert.False(t, seen.Has(v), "vertex %d in more than one region", v)
			seen.Insert(v)
		}
	}
	assert.Equal(t, topology.EligibleBoth, regions[0].Eligible)
	var perPlayer [2]int
	for _, region := range regions[1:] {
		for player := range 2 {
			if region.EligibleFor(player) {
				perPlayer[player]++
			}
		}
	}
	assert.Equal(t, [2]int{3, 3}, perPlayer)
	assert.True(t, regions[1].EligibleFor(0))
	assert.False(t, regions[1].EligibleFor(1))
	assert.True(t, regions[2].EligibleFor(1))
}
