package match_test

import (
	"testing"

	. "github.com/janpfeifer/hexMill/internal/match"
	"github.com/janpfeifer/hexMill/internal/state"
	. "github.com/janpfeifer/hexMill/internal/state/statetest"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementClicks(t *testing.T) {
	topo := DefaultTopology()
	m := New(topo, state.DefaultRules())
	assert.Contains(t, m.Message, "Red to place")

	m, err := m.Click(0)
	require.NoError(t, err)
	assert.Equal(t, state.Red, m.Board.ColorAt(0))
	assert.Equal(t, state.PlayerSecond, m.Board.NextPlayer)
	assert.Contains(t, m.Message, "Blue to place")

	before := m.Board
	m, err = m.Click(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
	assert.Same(t, before, m.Board, "rejected input doesn't change the board")
	assert.Equal(t, err.Error(), m.Message)

	_, err = m.Click(topology.VertexID(topo.NumVertices()))
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	m, err = m.ClickAt(topo.Pos(1).Add(topo.Pos(1).Sub(topo.Pos(0)).Scale(0.05)))
	require.NoError(t, err)
	assert.Equal(t, state.Blue, m.Board.ColorAt(1))

	_, err = m.ClickAt(topo.Pos(2).Add(topo.Pos(2).Scale(1)))
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

// triangleMatch returns a match in the movement phase where Red can complete a triangle by moving
// from n to tri[0], and Blue has a single token at blue.
func triangleMatch(t *testing.T, rules state.Rules) (m Match, tri state.Triangle, n, blue topology.VertexID) {
	topo := DefaultTopology()
	tri, n, found := TriangleSetup(topo)
	require.True(t, found)
	blue = FarthestVertex(topo, tri[0], tri[1], tri[2], n)
	b := BuildBoard(topo, rules, Layout([]topology.VertexID{n, tri[1], tri[2]}, []topology.VertexID{blue}))
	m = Match{Board: b, Selected: topology.NoVertex}
	return
}

func TestMovementAndRelocation(t *testing.T) {
	m, tri, n, blue := triangleMatch(t, state.DefaultRules())
	topo := m.Board.Topology()

	// Click on an empty vertex without selection.
	m, err := m.Click(tri[0])
	assert.True(t, errors.Is(err, ErrNoSelection))

	// Opponent's token.
	m, err = m.Click(blue)
	assert.True(t, errors.Is(err, ErrWrongTurn))
	assert.Equal(t, topology.NoVertex, m.Selected)

	// Select and re-select.
	m, err = m.Click(tri[1])
	require.NoError(t, err)
	assert.Equal(t, tri[1], m.Selected)
	m, err = m.Click(n)
	require.NoError(t, err)
	assert.Equal(t, n, m.Selected)

	// Non-adjacent empty vertex: rejected, selection kept.
	far := FarthestVertex(topo, n, blue)
	require.False(t, topo.IsAdjacent(n, far))
	m, err = m.Click(far)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
	assert.Equal(t, n, m.Selected)
	assert.Contains(t, m.Message, "not connected")

	// Move completing the triangle.
	m, err = m.Click(tri[0])
	require.NoError(t, err)
	assert.Equal(t, state.MillRemoval, m.Board.Phase)
	assert.Equal(t, topology.NoVertex, m.Selected)
	snap := m.Snapshot()
	assert.Equal(t, state.MillRemoval, snap.Phase)
	assert.Equal(t, 1, snap.Remaining)
	assert.Equal(t, state.PlayerFirst, snap.Player)
	assert.Len(t, snap.NewMills, 1)
	assert.ElementsMatch(t, tri[:], snap.Highlight)
	assert.Len(t, snap.Vertices, topo.NumVertices())
	assert.Len(t, snap.Edges, topo.NumEdges())
	assert.Equal(t, state.Red, snap.Occupancy[tri[0]])
	assert.Contains(t, snap.Message, "capture 1")

	// Capture: own token and empty vertex without selection are rejected.
	m, err = m.Click(tri[1])
	assert.True(t, errors.Is(err, ErrInvalidTarget))
	m, err = m.Click(n)
	assert.True(t, errors.Is(err, ErrNoSelection))
	m, err = m.Click(blue)
	require.NoError(t, err)
	assert.Equal(t, blue, m.Selected)
	m, err = m.Click(n)
	require.NoError(t, err)
	assert.Equal(t, state.Movement, m.Board.Phase)
	assert.Equal(t, state.PlayerSecond, m.Board.NextPlayer)
	assert.Equal(t, state.Blue, m.Board.ColorAt(n))
	assert.Equal(t, state.NoColor, m.Board.ColorAt(blue))
	assert.Empty(t, m.Snapshot().Highlight)

	// Snapshots don't share the occupancy with the board.
	snap = m.Snapshot()
	snap.Occupancy[n] = state.Red
	assert.Equal(t, state.Blue, m.Board.ColorAt(n))
}

func TestRemoveModeClick(t *testing.T) {
	rules, err := state.ParseRules("capture=remove")
	require.NoError(t, err)
	m, tri, n, blue := triangleMatch(t, rules)
	m, err = m.Click(n)
	require.NoError(t, err)
	m, err = m.Click(tri[0])
	require.NoError(t, err)
	require.Equal(t, state.MillRemoval, m.Board.Phase)
	m, err = m.Click(blue)
	require.NoError(t, err)
	assert.Equal(t, state.NoColor, m.Board.ColorAt(blue))
	assert.Equal(t, 0, m.Board.Derived.NumTokens[state.PlayerSecond])

	// Blue has no tokens left: it passes automatically, and it's Red's turn again.
	assert.Equal(t, state.PlayerFirst, m.Board.NextPlayer)
	assert.Contains(t, m.Message, "Blue has no moves and passes")
}

func TestPlayGameOverAndReset(t *testing.T) {
	topo := DefaultTopology()
	rules := state.DefaultRules()
	rules.MaxMoves = 2
	m := New(topo, rules)

	_, err := m.Play(state.MoveAction(0, 1))
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	m, err = m.Play(state.PlaceAction(5))
	require.NoError(t, err)
	m, err = m.Play(state.PlaceAction(6))
	require.NoError(t, err)
	require.True(t, m.Board.IsFinished())
	assert.Equal(t, state.PlayerInvalid, m.Snapshot().Winner)
	assert.Contains(t, m.Message, "Game over")

	_, err = m.Click(7)
	assert.True(t, errors.Is(err, ErrGameOver))
	_, err = m.Play(state.PassAction)
	assert.True(t, errors.Is(err, ErrGameOver))

	m = m.Reset()
	assert.False(t, m.Board.IsFinished())
	assert.Equal(t, state.Placement, m.Board.Phase)
	assert.Equal(t, 0, m.Board.NumFormedMills())
	assert.Equal(t, state.NoColor, m.Board.ColorAt(5))
	assert.Equal(t, rules, m.Board.Rules)
	assert.Equal(t, [state.NumPlayers]int{15, 15}, m.Snapshot().ToPlace)
}
