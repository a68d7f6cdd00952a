package match

import (
	"slices"

	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/geometry"
	"github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/topology"
)

// Snapshot is the read-only view of a match consumed by renderers. It shares nothing mutable
// with the match.
type Snapshot struct {
	// Vertices positions, indexed by VertexID.
	Vertices []geometry.Point

	// Edges of the board, each pair in increasing order.
	Edges [][2]topology.VertexID

	// Occupancy of each vertex.
	Occupancy []state.Color

	// Highlight holds the vertices of the mills newly formed by the last action, in increasing order.
	Highlight []topology.VertexID

	// NewMills formed by the last action.
	NewMills []state.Mill

	Phase    state.Phase
	Player   state.PlayerNum
	Selected topology.VertexID
	Message  string

	// Winner of the match, PlayerInvalid if not finished or a draw.
	Winner state.PlayerNum

	// Remaining captures in the MillRemoval phase.
	Remaining int

	// ToPlace is the number of tokens each player still has to place.
	ToPlace [state.NumPlayers]int
}

// Snapshot returns the current view of the match.
func (m Match) Snapshot() Snapshot {
	b := m.Board
	topo := b.Topology()
	s := Snapshot{
		Vertices:  generics.SliceMap(topo.Vertices(), func(v topology.Vertex) geometry.Point { return v.Pos }),
		Occupancy: slices.Clone(b.Occupancy()),
		NewMills:  slices.Clone(b.NewMills),
		Phase:     b.Phase,
		Player:    b.NextPlayer,
		Selected:  m.Selected,
		Message:   m.Message,
		Winner:    b.Winner(),
		Remaining: b.RemainingCaptures,
	}
	for _, v := range topo.Vertices() {
		for _, n := range topo.Neighbours(v.ID) {
			if v.ID < n {
				s.Edges = append(s.Edges, [2]topology.VertexID{v.ID, n})
			}
		}
	}
	for p := range state.NumPlayers {
		s.ToPlace[p] = b.ToPlace(state.PlayerNum(p))
	}
	highlight := generics.MakeSet[topology.VertexID]()
	for _, mill := range b.NewMills {
		highlight.Insert(mill.Vertices()...)
	}
	s.Highlight = slices.Sorted(highlight.Iter())
	return s
}
