package state_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/janpfeifer/hexMill/internal/generics"
	. "github.com/janpfeifer/hexMill/internal/state"
	. "github.com/janpfeifer/hexMill/internal/state/statetest"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)

	rules, err = ParseRules("capture=remove, tokens=12,max_moves=0")
	require.NoError(t, err)
	assert.Equal(t, CaptureRemove, rules.Capture)
	assert.Equal(t, 12, rules.TokensPerPlayer)
	assert.Equal(t, 0, rules.MaxMoves)
	assert.Equal(t, 0, rules.MaxRepeats)

	parsed, err := ParseRules(rules.String())
	require.NoError(t, err)
	assert.Equal(t, rules, parsed)

	_, err = ParseRules("capture=destroy")
	assert.Error(t, err)
	_, err = ParseRules("tokens=0")
	assert.Error(t, err)
	_, err = ParseRules("speed=3")
	assert.Error(t, err)
	_, err = ParseRules("tokens=x")
	assert.Error(t, err)

	// Draws are only enabled by the competition rules.
	assert.Zero(t, DefaultRules().MaxMoves)
	assert.Zero(t, DefaultRules().MaxRepeats)
	rules, err = ParseRulesWith(CompetitionRules(), "max_moves=50")
	require.NoError(t, err)
	assert.Equal(t, 50, rules.MaxMoves)
	assert.Equal(t, CompetitionMaxRepeats, rules.MaxRepeats)
}

func TestEnumerateMills(t *testing.T) {
	topo := DefaultTopology()
	assert.Len(t, Triangles(topo), 42)
	assert.Len(t, Squares(topo), 54)

	ids := generics.MakeSet[MillID]()
	for _, m := range EnumerateMills(topo) {
		ids.Insert(NewMillID(topo, m))
	}
	assert.Len(t, ids, 42+54, "mill ids must be unique")
}

func TestMillID(t *testing.T) {
	topo := DefaultTopology()
	tri := Triangles(topo)[0]
	rotated := Triangle{tri[2], tri[0], tri[1]}
	assert.Equal(t, NewMillID(topo, tri), NewMillID(topo, rotated))

	sq := Squares(topo)[0]
	reversed := Square{sq[3], sq[2], sq[1], sq[0]}
	assert.Equal(t, NewMillID(topo, sq), NewMillID(topo, reversed))
	assert.NotEqual(t, NewMillID(topo, tri), NewMillID(topo, sq))
	assert.Equal(t, 1, MillWeight(tri))
	assert.Equal(t, 2, MillWeight(sq))
}

func TestPlacementToMovement(t *testing.T) {
	topo := DefaultTopology()
	b := NewBoard(topo, DefaultRules())
	assert.Equal(t, Placement, b.Phase)
	assert.Equal(t, PlayerFirst, b.NextPlayer)
	assert.Len(t, b.Derived.Actions, topo.NumVertices())

	for ii := range 2 * DefaultTokensPerPlayer {
		require.Equal(t, Placement, b.Phase, "placement #%d", ii+1)
		wantPlayer := PlayerNum(ii % 2)
		require.Equal(t, wantPlayer, b.NextPlayer)
		action := PlaceAction(topology.VertexID(ii))
		require.True(t, b.IsValid(action))
		b = b.Act(action)
		assert.Empty(t, b.NewMills, "placements never form mills")
		assert.Equal(t, wantPlayer.Color(), b.ColorAt(topology.VertexID(ii)))
	}
	require.False(t, b.IsFinished())
	assert.Equal(t, Movement, b.Phase)
	assert.Equal(t, PlayerFirst, b.NextPlayer)
	assert.Equal(t, [NumPlayers]int{DefaultTokensPerPlayer, DefaultTokensPerPlayer}, b.Placed)
	for _, action := range b.Derived.Actions {
		assert.Equal(t, Move, action.Kind)
		assert.Equal(t, Red, b.ColorAt(action.Source))
		assert.True(t, b.IsEmpty(action.Target))
		assert.True(t, topo.IsAdjacent(action.Source, action.Target))
	}

	// Placing on an occupied vertex is not valid.
	b = NewBoard(topo, DefaultRules())
	b = b.Act(PlaceAction(0))
	assert.False(t, b.IsValid(PlaceAction(0)))
}

func triangleSetup(t *testing.T, topo *topology.Topology) (tri Triangle, n topology.VertexID) {
	tri, n, found := TriangleSetup(topo)
	require.True(t, found, "no triangle setup found")
	return
}

// anyMoveOf returns the first move of the next player that doesn't touch the excluded vertices.
func anyMoveOf(t *testing.T, b *Board, exclude ...topology.VertexID) Action {
	for _, action := range b.Derived.Actions {
		if action.Kind == Move && !slices.Contains(exclude, action.Source) && !slices.Contains(exclude, action.Target) {
			return action
		}
	}
	require.Fail(t, "no move found", "actions: %v", b.Derived.Actions)
	return PassAction
}

func TestTriangleMillOnce(t *testing.T) {
	topo := DefaultTopology()
	tri, n := triangleSetup(t, topo)
	blue := FarthestVertex(topo, tri[0], tri[1], tri[2])
	b := BuildBoard(topo, DefaultRules(), Layout([]topology.VertexID{n, tri[1], tri[2]}, []topology.VertexID{blue}))

	move := MoveAction(n, tri[0])
	require.True(t, b.IsValid(move))
	b = b.Act(move)
	require.Len(t, b.NewMills, 1)
	assert.Equal(t, ShapeTriangle, b.NewMills[0].Shape())
	assert.Equal(t, MillRemoval, b.Phase)
	assert.Equal(t, 1, b.RemainingCaptures)
	assert.Equal(t, PlayerFirst, b.NextPlayer, "same player captures")
	assert.True(t, b.HasFormed(tri))

	// Capture: relocate the blue token next to where it was.
	target := anyEmptyNeighbour(t, b, blue)
	for _, action := range b.Derived.Actions {
		require.Equal(t, Capture, action.Kind)
		require.Equal(t, blue, action.Source)
	}
	capture := CaptureAction(blue, target)
	require.True(t, b.IsValid(capture))
	b = b.Act(capture)
	assert.Equal(t, Movement, b.Phase)
	assert.Equal(t, 0, b.RemainingCaptures)
	assert.Equal(t, PlayerSecond, b.NextPlayer)
	assert.Equal(t, Blue, b.ColorAt(target))
	assert.Equal(t, NoColor, b.ColorAt(blue))
	assert.Equal(t, [NumPlayers]int{3, 1}, b.Derived.NumTokens)

	// Break the triangle and complete it again: no new capture.
	b = b.Act(anyMoveOf(t, b, tri[0], tri[1], tri[2], n))
	b = b.Act(MoveAction(tri[0], n))
	assert.Empty(t, b.NewMills)
	b = b.Act(anyMoveOf(t, b, tri[0], tri[1], tri[2], n))
	require.True(t, b.IsValid(MoveAction(n, tri[0])))
	b = b.Act(MoveAction(n, tri[0]))
	assert.Empty(t, b.NewMills)
	assert.Equal(t, Movement, b.Phase)
	assert.Equal(t, PlayerSecond, b.NextPlayer)
	assert.Equal(t, 1, b.NumFormedMills())
}

func anyEmptyNeighbour(t *testing.T, b *Board, v topology.VertexID) topology.VertexID {
	for _, n := range b.Topology().Neighbours(v) {
		if b.IsEmpty(n) {
			return n
		}
	}
	require.Fail(t, "no empty neighbour", "vertex %d", v)
	return topology.NoVertex
}

func TestTriangleAndSquare(t *testing.T) {
	topo := DefaultTopology()

	// Find a triangle and a square sharing a side, and a vertex n outside both, adjacent to one of the
	// shared vertices.
	var (
		red   []topology.VertexID
		moved topology.VertexID
		n     topology.VertexID
		found bool
	)
	for _, tri := range Triangles(topo) {
		for _, sq := range Squares(topo) {
			union := generics.SetWith(tri[:]...)
			union.Insert(sq[:]...)
			if len(union) != 5 {
				continue
			}
			for _, v := range tri {
				if !slices.Contains(sq[:], v) {
					continue
				}
				for _, candidate := range topo.Neighbours(v) {
					if !union.Has(candidate) && onlyAdjacentTo(topo, candidate, v, union) {
						moved, n, found = v, candidate, true
						break
					}
				}
				if found {
					break
				}
			}
			if found {
				for v := range union {
					if v != moved {
						red = append(red, v)
					}
				}
				break
			}
		}
		if found {
			break
		}
	}
	require.True(t, found)

	blue := FarthestVertex(topo, slices.Concat(red, []topology.VertexID{moved, n})...)
	red = append(red, n)
	b := BuildBoard(topo, DefaultRules(), Layout(red, []topology.VertexID{blue}))
	report := DetectMills(topo, b.Occupancy(), n, nil)
	require.Empty(t, report.All, "initial position shouldn't have mills around n")

	b = b.Act(MoveAction(n, moved))
	require.Len(t, b.NewMills, 2)
	shapes := generics.SetWith(b.NewMills[0].Shape(), b.NewMills[1].Shape())
	assert.True(t, shapes.Equal(generics.SetWith(ShapeTriangle, ShapeSquare)))
	assert.Equal(t, MillRemoval, b.Phase)
	assert.Equal(t, 2, b.RemainingCaptures, "captures = min(2, 1+2)")

	// The single blue token can be captured twice in relocate mode.
	b = b.Act(CaptureAction(blue, anyEmptyNeighbour(t, b, blue)))
	assert.Equal(t, MillRemoval, b.Phase)
	assert.Equal(t, 1, b.RemainingCaptures)
	assert.Equal(t, PlayerFirst, b.NextPlayer)
	blueTokens := b.TokensOf(PlayerSecond)
	require.Len(t, blueTokens, 1)
	b = b.Act(CaptureAction(blueTokens[0], anyEmptyNeighbour(t, b, blueTokens[0])))
	assert.Equal(t, Movement, b.Phase)
	assert.Equal(t, PlayerSecond, b.NextPlayer)
}

// onlyAdjacentTo returns whether v is adjacent to no other vertex of the set than allowed.
func onlyAdjacentTo(topo *topology.Topology, v, allowed topology.VertexID, set generics.Set[topology.VertexID]) bool {
	for _, n := range topo.Neighbours(v) {
		if n != allowed && set.Has(n) {
			return false
		}
	}
	return true
}

func TestCaptureRemove(t *testing.T) {
	topo := DefaultTopology()
	tri, n := triangleSetup(t, topo)
	rules, err := ParseRules("capture=remove")
	require.NoError(t, err)
	blue1 := FarthestVertex(topo, tri[0], tri[1], tri[2])
	blue2 := FarthestVertex(topo, tri[0], tri[1], tri[2], blue1)
	b := BuildBoard(topo, rules, Layout([]topology.VertexID{n, tri[1], tri[2]}, []topology.VertexID{blue1, blue2}))
	b = b.Act(MoveAction(n, tri[0]))
	require.Equal(t, MillRemoval, b.Phase)
	require.Len(t, b.Derived.Actions, 2)
	assert.True(t, b.IsValid(CaptureAction(blue1, topology.NoVertex)))
	b = b.Act(CaptureAction(blue1, topology.NoVertex))
	assert.Equal(t, [NumPlayers]int{3, 1}, b.Derived.NumTokens)
	assert.Equal(t, Movement, b.Phase)
	assert.Equal(t, PlayerSecond, b.NextPlayer)
}

func TestCaptureRemoveLimitedByOpponentTokens(t *testing.T) {
	topo := DefaultTopology()
	rules, err := ParseRules("capture=remove")
	require.NoError(t, err)
	tri, n := triangleSetup(t, topo)
	b := BuildBoard(topo, rules, Layout([]topology.VertexID{n, tri[1], tri[2]}, nil))
	b = b.Act(MoveAction(n, tri[0]))
	assert.Len(t, b.NewMills, 1)
	assert.Equal(t, Movement, b.Phase, "no opponent tokens to capture")
	assert.Equal(t, PlayerSecond, b.NextPlayer)
	assert.Equal(t, []Action{PassAction}, b.Derived.Actions)
	assert.Equal(t, 1, b.NumActions())
}

// regionSetup returns a region eligible only for the given player, or the center one if player is
// PlayerInvalid.
func regionSetup(t *testing.T, topo *topology.Topology, player PlayerNum) topology.Region {
	for _, region := range topo.Regions() {
		if player == PlayerInvalid && region.Eligible == topology.EligibleBoth {
			return region
		}
		if player != PlayerInvalid && region.Eligible == uint8(1)<<uint(player) {
			return region
		}
	}
	require.Fail(t, "region not found")
	return topology.Region{}
}

func TestWinByMovement(t *testing.T) {
	topo := DefaultTopology()
	region := regionSetup(t, topo, PlayerInvalid)
	require.Len(t, region.Members, 12)
	last := region.Members[len(region.Members)-1]
	var from topology.VertexID = topology.NoVertex
	for _, v := range topo.Neighbours(last) {
		if !slices.Contains(region.Members, v) {
			from = v
			break
		}
	}
	require.NotEqual(t, topology.NoVertex, from)
	red := append(slices.Clone(region.Members[:len(region.Members)-1]), from)
	blue := FarthestVertex(topo, red...)
	b := BuildBoard(topo, DefaultRules(), Layout(red, []topology.VertexID{blue}))
	_, surrounded := b.SurroundedRegion(PlayerFirst)
	require.False(t, surrounded)

	b = b.Act(MoveAction(from, last))
	assert.True(t, b.IsFinished())
	assert.False(t, b.Draw())
	assert.Equal(t, PlayerFirst, b.Winner())
	assert.Equal(t, PlayerFirst, b.NextPlayer, "turn doesn't switch on a win")
	assert.Equal(t, RegionSurrounded, b.Ending())
	assert.Contains(t, b.FinishReason(), region.Name)
	assert.Empty(t, b.Derived.Actions)
	assert.Panics(t, func() { b.Act(PassAction) })
}

func TestWinEligibility(t *testing.T) {
	topo := DefaultTopology()
	blueRegion := regionSetup(t, topo, PlayerSecond)
	redRegion := regionSetup(t, topo, PlayerFirst)

	// Red fully occupying a region only eligible for Blue doesn't win.
	b := BuildBoard(topo, DefaultRules(), Layout(blueRegion.Members, nil))
	_, surrounded := b.SurroundedRegion(PlayerFirst)
	assert.False(t, surrounded)
	_, surrounded = b.SurroundedRegion(PlayerSecond)
	assert.False(t, surrounded)

	// A region with one member of the opposite color is not surrounded.
	b = BuildBoard(topo, DefaultRules(), Layout(redRegion.Members[1:], redRegion.Members[:1]))
	_, surrounded = b.SurroundedRegion(PlayerFirst)
	assert.False(t, surrounded)

	// Win during placement.
	b = NewBoard(topo, DefaultRules())
	for ii, v := range redRegion.Members {
		require.False(t, b.IsFinished())
		b = b.Act(PlaceAction(v))
		if ii < len(redRegion.Members)-1 {
			b = b.Act(PlaceAction(FarthestVertex(topo, slices.Concat(redRegion.Members, b.TokensOf(PlayerSecond))...)))
		}
	}
	assert.True(t, b.IsFinished())
	assert.Equal(t, PlayerFirst, b.Winner())
	region, surrounded := b.SurroundedRegion(PlayerFirst)
	assert.True(t, surrounded)
	assert.Equal(t, redRegion.Name, region.Name)
}

func TestCaptureEndsWithWin(t *testing.T) {
	topo := DefaultTopology()
	region := regionSetup(t, topo, PlayerFirst)
	blue := FarthestVertex(topo, region.Members...)
	b := BuildBoard(topo, DefaultRules(), Layout(region.Members, []topology.VertexID{blue}))
	b.Phase = MillRemoval
	b.RemainingCaptures = 2
	b.BuildDerived()
	b = b.Act(CaptureAction(blue, anyEmptyNeighbour(t, b, blue)))
	assert.True(t, b.IsFinished())
	assert.Equal(t, PlayerFirst, b.Winner())
	assert.Equal(t, 0, b.RemainingCaptures)
}

func TestPassWhenBlocked(t *testing.T) {
	topo := DefaultTopology()
	red := topology.VertexID(0)
	blue := slices.Clone(topo.Neighbours(red))
	b := BuildBoard(topo, DefaultRules(), Layout([]topology.VertexID{red}, blue))
	assert.Equal(t, []Action{PassAction}, b.Derived.Actions)
	assert.Equal(t, 0, b.Derived.Mobility[PlayerFirst])
	b = b.Act(PassAction)
	assert.Equal(t, PlayerSecond, b.NextPlayer)
	assert.Equal(t, Movement, b.Phase)
}

func TestRepeats(t *testing.T) {
	topo := DefaultTopology()
	red := topology.VertexID(0)
	redTo := topo.Neighbours(red)[0]
	blue := FarthestVertex(topo, red, redTo)
	blueTo := topo.Neighbours(blue)[0]
	layout := Layout([]topology.VertexID{red}, []topology.VertexID{blue})
	cycle := func(b *Board) *Board {
		b = b.Act(MoveAction(red, redTo))
		b = b.Act(MoveAction(blue, blueTo))
		b = b.Act(MoveAction(redTo, red))
		return b.Act(MoveAction(blueTo, blue))
	}

	b := BuildBoard(topo, CompetitionRules(), layout)
	for ii := range CompetitionMaxRepeats {
		require.False(t, b.IsFinished(), "cycle %d", ii)
		b = cycle(b)
		assert.Equal(t, uint8(min(ii+1, CompetitionMaxRepeats)), b.Derived.Repeats)
	}
	assert.True(t, b.IsFinished())
	assert.True(t, b.Draw())
	assert.Equal(t, PlayerInvalid, b.Winner())
	assert.Equal(t, PositionRepeated, b.Ending())

	// With the default rules repeating positions never ends the match.
	b = BuildBoard(topo, DefaultRules(), layout)
	for range 2 * CompetitionMaxRepeats {
		b = cycle(b)
	}
	assert.False(t, b.IsFinished())
	assert.Equal(t, NotFinished, b.Ending())
}

func TestMaxMoves(t *testing.T) {
	topo := DefaultTopology()
	rules := DefaultRules()
	rules.MaxMoves = 4
	b := NewBoard(topo, rules)
	for ii := range 4 {
		require.False(t, b.IsFinished())
		b = b.Act(PlaceAction(topology.VertexID(ii)))
	}
	assert.True(t, b.IsFinished())
	assert.True(t, b.Draw())
	assert.Equal(t, MaxMovesReached, b.Ending())
}

// TestRandomMatches plays random matches checking that no mill grants captures twice, and that the
// captures are bounded.
func TestRandomMatches(t *testing.T) {
	topo := DefaultTopology()
	rng := rand.New(rand.NewSource(42))
	for _, config := range []string{"", "capture=remove", "tokens=10,max_moves=200"} {
		rules, err := ParseRulesWith(CompetitionRules(), config)
		require.NoError(t, err)
		for range 3 {
			b := NewBoard(topo, rules)
			granted := generics.MakeSet[MillID]()
			for !b.IsFinished() {
				action := b.Derived.Actions[rng.Intn(len(b.Derived.Actions))]
				prev := b
				b = b.Act(action)
				for _, m := range b.NewMills {
					id := NewMillID(topo, m)
					require.False(t, granted.Has(id), "mill %s granted captures twice", id)
					granted.Insert(id)
				}
				if action.Kind != Move {
					require.Empty(t, b.NewMills)
				}
				require.GreaterOrEqual(t, b.RemainingCaptures, 0)
				require.LessOrEqual(t, b.RemainingCaptures, MaxCapturesPerTurn)
				if b.Phase == MillRemoval {
					require.Equal(t, prev.NextPlayer, b.NextPlayer)
				}
			}
			assert.NotEqual(t, NotFinished, b.Ending())
		}
	}
}
