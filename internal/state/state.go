// Package state holds the rules of the game: the board occupancy, the phases of a match and the
// transitions between them.
//
// A Board is a value that is never changed after built: Board.Act returns a new Board with the
// action applied, which makes it cheap to explore by the AI searchers. The board topology is shared
// read-only by all boards.
package state

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/topology"
	"k8s.io/klog/v2"
)

// NumPlayers currently limited to 2.
const NumPlayers = 2

// PlayerNum is the either 0 or 1 corresponding to the first player to move (Red) or the second
// player to move (Blue).
type PlayerNum uint8

const (
	PlayerFirst PlayerNum = iota
	PlayerSecond

	// PlayerInvalid represents an invalid PlayerNum.
	PlayerInvalid
)

// Opponent returns the other player.
func (p PlayerNum) Opponent() PlayerNum {
	return 1 - p
}

// Color of the player's tokens.
func (p PlayerNum) Color() Color {
	if p >= PlayerInvalid {
		return NoColor
	}
	return Color(p + 1)
}

// String implements fmt.Stringer.
func (p PlayerNum) String() string {
	if p >= PlayerInvalid {
		return "Invalid"
	}
	return p.Color().String()
}

// Color of a token, or NoColor for an empty vertex.
type Color uint8

const (
	NoColor Color = iota
	Red
	Blue
)

var colorNames = [3]string{"None", "Red", "Blue"}

// String implements fmt.Stringer.
func (c Color) String() string {
	if int(c) >= len(colorNames) {
		return fmt.Sprintf("Color(%d)", c)
	}
	return colorNames[c]
}

// Player owning tokens of the color, or PlayerInvalid for NoColor.
func (c Color) Player() PlayerNum {
	if c == NoColor || c > Blue {
		return PlayerInvalid
	}
	return PlayerNum(c - 1)
}

// Phase of the match.
type Phase uint8

const (
	// Placement of tokens in empty vertices, until both players placed all their tokens.
	Placement Phase = iota

	// Movement of tokens to adjacent empty vertices.
	Movement

	// MillRemoval happens after a movement formed new mills: the same player captures opponent
	// tokens, Board.RemainingCaptures times.
	MillRemoval

	// Finished match: see Board.Winner and Board.FinishReason.
	Finished
)

var phaseNames = [4]string{"Placement", "Movement", "MillRemoval", "Finished"}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", p)
	}
	return phaseNames[p]
}

// Ending describes why a match finished.
type Ending uint8

const (
	NotFinished Ending = iota
	RegionSurrounded
	MaxMovesReached
	PositionRepeated
)

// Board is the state of a match. Boards are never modified after being returned by NewBoard or
// Act (except by test helpers), so they can be shared.
type Board struct {
	topo      *topology.Topology
	occupancy []Color

	// formed holds the ids of every mill formed in the match. It's shared among boards and cloned
	// only when it changes.
	formed generics.Set[MillID]

	Rules      Rules
	Phase      Phase
	NextPlayer PlayerNum
	MoveNumber int

	// Placed counts the tokens placed by each player.
	Placed [NumPlayers]int

	// RemainingCaptures during the MillRemoval phase.
	RemainingCaptures int

	// NewMills formed by the last action.
	NewMills []Mill

	// LastAction taken to reach this board, Action{} for the initial board.
	LastAction Action

	// PreviousBoards holds the hashes of the earlier positions of the match, used to detect
	// repeated positions.
	PreviousBoards *HashNode

	winner PlayerNum
	ending Ending

	// Derived information is regenerated after each action.
	Derived *Derived
}

// NewBoard creates a new empty board for the given topology and rules.
func NewBoard(topo *topology.Topology, rules Rules) *Board {
	b := &Board{
		topo:       topo,
		occupancy:  make([]Color, topo.NumVertices()),
		formed:     generics.MakeSet[MillID](),
		Rules:      rules,
		Phase:      Placement,
		NextPlayer: PlayerFirst,
		MoveNumber: 1,
		winner:     PlayerInvalid,
		LastAction: Action{Source: topology.NoVertex, Target: topology.NoVertex},
	}
	b.BuildDerived()
	return b
}

// Clone makes a copy of the board for a next action. The occupancy is deep-copied, the formed
// mills set is shared, and Derived is cleared.
func (b *Board) Clone() *Board {
	newB := &Board{}
	*newB = *b
	newB.Derived = nil
	newB.occupancy = make([]Color, len(b.occupancy))
	copy(newB.occupancy, b.occupancy)
	return newB
}

// Topology of the board.
func (b *Board) Topology() *topology.Topology {
	return b.topo
}

// OpponentPlayer returns the player that is not the next one to play.
func (b *Board) OpponentPlayer() PlayerNum {
	return b.NextPlayer.Opponent()
}

// ColorAt returns the color of the token at vertex v, or NoColor if it is empty or v is invalid.
func (b *Board) ColorAt(v topology.VertexID) Color {
	if !b.topo.Valid(v) {
		return NoColor
	}
	return b.occupancy[v]
}

// IsEmpty returns whether v is a valid empty vertex.
func (b *Board) IsEmpty(v topology.VertexID) bool {
	return b.topo.Valid(v) && b.occupancy[v] == NoColor
}

// Occupancy returns the color at each vertex. The slice must not be modified.
func (b *Board) Occupancy() []Color {
	return b.occupancy
}

// SetColor sets the color of vertex v. It's meant for building boards in tests and tools:
// it doesn't update Derived, see BuildDerived.
func (b *Board) SetColor(v topology.VertexID, c Color) {
	b.occupancy[v] = c
}

// SetFormed marks the mill as formed earlier in the match. Like SetColor it is meant for building
// boards in tests.
func (b *Board) SetFormed(m Mill) {
	b.formed = b.formed.Clone()
	b.formed.Insert(NewMillID(b.topo, m))
}

// HasFormed returns whether the mill was formed earlier in the match.
func (b *Board) HasFormed(m Mill) bool {
	return b.formed.Has(NewMillID(b.topo, m))
}

// NumFormedMills returns the number of distinct mills formed in the match.
func (b *Board) NumFormedMills() int {
	return len(b.formed)
}

// TokensOf returns the vertices occupied by the player, in increasing order.
func (b *Board) TokensOf(player PlayerNum) []topology.VertexID {
	color := player.Color()
	var vertices []topology.VertexID
	for ii, c := range b.occupancy {
		if c == color {
			vertices = append(vertices, topology.VertexID(ii))
		}
	}
	return vertices
}

// ToPlace returns how many tokens the player still has to place.
func (b *Board) ToPlace(player PlayerNum) int {
	return b.Rules.TokensPerPlayer - b.Placed[player]
}

// Act takes the given action for the b.NextPlayer player and returns a new board, with
// Derived information already built.
//
// It DOES NOT CHECK that the action is valid (it can be useful for testing), and leaves that
// to the callers, see IsValid. It panics if the board is already finished.
func (b *Board) Act(action Action) *Board {
	if b.IsFinished() {
		exceptions.Panicf("cannot act %s on a finished board (%s)", action, b.FinishReason())
	}
	newB := b.Clone()
	newB.NewMills = nil
	newB.LastAction = action
	actor := b.NextPlayer
	switch action.Kind {
	case Place:
		newB.occupancy[action.Target] = actor.Color()
		newB.Placed[actor]++
		if newB.checkWin(actor) {
			break
		}
		if newB.ToPlace(PlayerFirst) <= 0 && newB.ToPlace(PlayerSecond) <= 0 {
			newB.Phase = Movement
		}
		newB.NextPlayer = actor.Opponent()

	case Move:
		newB.occupancy[action.Target] = newB.occupancy[action.Source]
		newB.occupancy[action.Source] = NoColor
		report := DetectMills(newB.topo, newB.occupancy, action.Target, newB.formed)
		if len(report.All) > 0 {
			newB.formed = newB.formed.Clone()
			for _, m := range report.All {
				newB.formed.Insert(NewMillID(newB.topo, m))
			}
		}
		newB.NewMills = report.New
		if newB.checkWin(actor) {
			break
		}
		captures := report.CapturesAllowed
		if b.Rules.Capture == CaptureRemove {
			captures = min(captures, newB.countTokens(actor.Opponent()))
		}
		if captures > 0 {
			newB.Phase = MillRemoval
			newB.RemainingCaptures = captures
			break
		}
		newB.NextPlayer = actor.Opponent()

	case Capture:
		if b.Rules.Capture == CaptureRelocate {
			newB.occupancy[action.Target] = newB.occupancy[action.Source]
		}
		newB.occupancy[action.Source] = NoColor
		newB.RemainingCaptures--
		if newB.checkWin(actor) {
			break
		}
		if newB.RemainingCaptures <= 0 || newB.countTokens(actor.Opponent()) == 0 {
			newB.RemainingCaptures = 0
			newB.Phase = Movement
			newB.NextPlayer = actor.Opponent()
		}

	case Pass:
		newB.NextPlayer = actor.Opponent()

	default:
		exceptions.Panicf("unknown action kind %d in action %s", action.Kind, action)
	}

	newB.MoveNumber++
	if newB.Phase != Finished && b.Rules.MaxMoves > 0 && newB.MoveNumber > b.Rules.MaxMoves {
		newB.finish(PlayerInvalid, MaxMovesReached)
	}
	if b.Derived != nil {
		newB.PreviousBoards = &HashNode{Hash: b.Derived.Hash, Prev: b.PreviousBoards}
	}
	newB.BuildDerived()
	if newB.Phase != Finished && b.Rules.MaxRepeats > 0 && int(newB.Derived.Repeats) >= b.Rules.MaxRepeats {
		newB.finish(PlayerInvalid, PositionRepeated)
		newB.Derived.Actions = nil
	}
	if klog.V(3).Enabled() {
		klog.Infof("Move #%d: %s played %s -> phase %s, next %s", b.MoveNumber, actor, action, newB.Phase, newB.NextPlayer)
	}
	return newB
}

// TakeAllActions returns the boards generated by taking all actions available to current player.
// The result is cached in Derived.
func (b *Board) TakeAllActions() []*Board {
	if b.Derived == nil {
		b.BuildDerived()
	}
	d := b.Derived
	if d.nextBoards != nil {
		return d.nextBoards
	}
	d.nextBoards = make([]*Board, len(d.Actions))
	for actionIdx, action := range d.Actions {
		d.nextBoards[actionIdx] = b.Act(action)
	}
	return d.nextBoards
}

func (b *Board) finish(winner PlayerNum, ending Ending) {
	b.Phase = Finished
	b.winner = winner
	b.ending = ending
	b.RemainingCaptures = 0
}

func (b *Board) countTokens(player PlayerNum) int {
	color := player.Color()
	count := 0
	for _, c := range b.occupancy {
		if c == color {
			count++
		}
	}
	return count
}

// checkWin finishes the board, with player as the winner, if player surrounds one of the regions
// it is eligible for.
func (b *Board) checkWin(player PlayerNum) bool {
	if _, found := b.SurroundedRegion(player); found {
		b.finish(player, RegionSurrounded)
		return true
	}
	return false
}

// MinRegionMembers is the minimum number of members a region needs to be surrounded.
const MinRegionMembers = 6

// SurroundedRegion returns the first region eligible for player whose members are all occupied
// by the player's tokens.
func (b *Board) SurroundedRegion(player PlayerNum) (region topology.Region, found bool) {
	color := player.Color()
	for _, region = range b.topo.Regions() {
		if !region.EligibleFor(int(player)) || len(region.Members) < MinRegionMembers {
			continue
		}
		found = true
		for _, v := range region.Members {
			if b.occupancy[v] != color {
				found = false
				break
			}
		}
		if found {
			return
		}
	}
	return topology.Region{}, false
}

// IsFinished returns whether the board represents a finished match.
func (b *Board) IsFinished() bool {
	return b.Phase == Finished
}

// Winner returns the player that won the match.
// If it is a Draw or the match is not finished, return PlayerInvalid.
func (b *Board) Winner() PlayerNum {
	return b.winner
}

// Draw returns whether the match finished without a winner.
func (b *Board) Draw() bool {
	return b.IsFinished() && b.winner == PlayerInvalid
}

// Ending returns why the match finished, or NotFinished.
func (b *Board) Ending() Ending {
	return b.ending
}

// FinishReason returns a human-readable description of why the match finished.
func (b *Board) FinishReason() string {
	switch b.ending {
	case NotFinished:
		return "game not finished yet"
	case RegionSurrounded:
		region, _ := b.SurroundedRegion(b.winner)
		return fmt.Sprintf("%s won by surrounding the %s hexagon", b.winner, region.Name)
	case MaxMovesReached:
		return fmt.Sprintf("max number of moves %d was reached", b.Rules.MaxMoves)
	case PositionRepeated:
		return fmt.Sprintf("current board position was repeated %d times", b.Rules.MaxRepeats)
	}
	return "unknown reason!?"
}
