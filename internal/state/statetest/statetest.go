// Package statetest provides helper functions to create tests using the game state.
package statetest

import (
	"sync"

	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/tiling"
	"github.com/janpfeifer/hexMill/internal/topology"
)

var (
	defaultTopo     *topology.Topology
	defaultTopoOnce sync.Once
)

// DefaultTopology returns the topology of the default tiling construction, built once and shared.
func DefaultTopology() *topology.Topology {
	defaultTopoOnce.Do(func() {
		defaultTopo = tiling.Default().Build()
	})
	return defaultTopo
}

// TokenOnBoard represents the position and color of a token in the board.
type TokenOnBoard struct {
	V     topology.VertexID
	Color Color
}

// BuildBoard from a collection of tokens, in the Movement phase: all tokens are considered placed.
// Red (the first player) is the next to play.
func BuildBoard(topo *topology.Topology, rules Rules, layout []TokenOnBoard) (b *Board) {
	b = NewBoard(topo, rules)
	for _, t := range layout {
		b.SetColor(t.V, t.Color)
	}
	b.Placed = [NumPlayers]int{rules.TokensPerPlayer, rules.TokensPerPlayer}
	b.Phase = Movement
	b.BuildDerived()
	return
}

// Layout creates the layout of the given vertices for each player.
func Layout(red, blue []topology.VertexID) []TokenOnBoard {
	layout := make([]TokenOnBoard, 0, len(red)+len(blue))
	for _, v := range red {
		layout = append(layout, TokenOnBoard{v, Red})
	}
	for _, v := range blue {
		layout = append(layout, TokenOnBoard{v, Blue})
	}
	return layout
}

// Triangles returns all triangles of the topology.
func Triangles(topo *topology.Topology) (triangles []Triangle) {
	for _, m := range EnumerateMills(topo) {
		if t, ok := m.(Triangle); ok {
			triangles = append(triangles, t)
		}
	}
	return
}

// Squares returns all squares (closed 4-cycles) of the topology.
func Squares(topo *topology.Topology) (squares []Square) {
	for _, m := range EnumerateMills(topo) {
		if s, ok := m.(Square); ok {
			squares = append(squares, s)
		}
	}
	return
}

// FarthestVertex returns the vertex farthest away from all the given ones.
func FarthestVertex(topo *topology.Topology, from ...topology.VertexID) topology.VertexID {
	best, bestDist := topology.NoVertex, float32(-1)
	for _, v := range topo.Vertices() {
		dist := float32(-1)
		for _, f := range from {
			d := v.Pos.Distance(topo.Pos(f))
			if dist < 0 || d < dist {
				dist = d
			}
		}
		if dist > bestDist {
			best, bestDist = v.ID, dist
		}
	}
	return best
}

// TriangleSetup finds a triangle and a vertex n adjacent to its first corner only: moving a token
// from n to the first corner, with the other two corners occupied by the same color, completes the
// triangle and no other mill.
func TriangleSetup(topo *topology.Topology) (tri Triangle, n topology.VertexID, found bool) {
	for _, tri = range Triangles(topo) {
		for _, n = range topo.Neighbours(tri[0]) {
			if n != tri[1] && n != tri[2] && !topo.IsAdjacent(n, tri[1]) && !topo.IsAdjacent(n, tri[2]) {
				return tri, n, true
			}
		}
	}
	return Triangle{}, topology.NoVertex, false
}
