package state

// This file holds the function that orchestrates the building of information
// derived from the game state: valid actions, token counts, region occupancy
// used by the AI and the UI.

import (
	"fmt"

	"github.com/janpfeifer/hexMill/internal/topology"
)

// ActionKind enumerates the types of actions.
type ActionKind uint8

const (
	// Pass can only be played if there are no other actions to be taken.
	Pass ActionKind = iota

	// Place a new token at Target.
	Place

	// Move own token from Source to the adjacent empty Target.
	Move

	// Capture opponent's token at Source: it is relocated to the empty Target, or removed from
	// the board (Target is NoVertex) if the rules capture mode is CaptureRemove.
	Capture
)

// Action describe a placement, a move, a capture or a pass. Actions are values and can be
// compared with ==.
type Action struct {
	Kind           ActionKind
	Source, Target topology.VertexID
}

// PassAction can only be played if there are no other actions to be taken.
var PassAction = Action{Kind: Pass, Source: topology.NoVertex, Target: topology.NoVertex}

// PlaceAction returns the action of placing a token at target.
func PlaceAction(target topology.VertexID) Action {
	return Action{Kind: Place, Source: topology.NoVertex, Target: target}
}

// MoveAction returns the action of moving the token at source to target.
func MoveAction(source, target topology.VertexID) Action {
	return Action{Kind: Move, Source: source, Target: target}
}

// CaptureAction returns the action of capturing the opponent token at source, relocating it to target.
// For the CaptureRemove mode, target should be topology.NoVertex.
func CaptureAction(source, target topology.VertexID) Action {
	return Action{Kind: Capture, Source: source, Target: target}
}

// IsPass returns whether it is a pass action.
func (a Action) IsPass() bool {
	return a.Kind == Pass
}

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a.Kind {
	case Pass:
		return "Pass (no action)"
	case Place:
		return fmt.Sprintf("Place at %d", a.Target)
	case Move:
		return fmt.Sprintf("Move %d->%d", a.Source, a.Target)
	case Capture:
		if a.Target == topology.NoVertex {
			return fmt.Sprintf("Capture %d", a.Source)
		}
		return fmt.Sprintf("Capture %d->%d", a.Source, a.Target)
	}
	return fmt.Sprintf("Action(kind=%d, %d->%d)", a.Kind, a.Source, a.Target)
}

// Derived holds information that is generated from the Board state.
type Derived struct {
	// Hash of the position, see PositionHash.
	Hash uint64

	// Repeats is the number of times this exact same position has been seen earlier in the match.
	Repeats uint8

	// NumTokens on board for each player.
	NumTokens [NumPlayers]int

	// RegionCounts holds for each region (in topology order) the number of members occupied by
	// each player.
	RegionCounts [][NumPlayers]int

	// Mobility is the number of movements available to each player, whatever the phase.
	Mobility [NumPlayers]int

	// Actions of the next player to move. Empty only if the match is finished.
	Actions []Action

	// nextBoards are the cached generated boards for all possible actions taken.
	// If set, it has the same length as Actions.
	//
	// It is returned by Board.TakeAllActions.
	nextBoards []*Board
}

// BuildDerived rebuilds information derived from the board.
func (b *Board) BuildDerived() {
	derived := &Derived{}
	b.Derived = derived
	for _, c := range b.occupancy {
		if p := c.Player(); p != PlayerInvalid {
			derived.NumTokens[p]++
		}
	}
	regions := b.topo.Regions()
	derived.RegionCounts = make([][NumPlayers]int, len(regions))
	for ii, region := range regions {
		for _, v := range region.Members {
			if p := b.occupancy[v].Player(); p != PlayerInvalid {
				derived.RegionCounts[ii][p]++
			}
		}
	}
	for p := PlayerNum(0); p < NumPlayers; p++ {
		derived.Mobility[p] = len(b.moveActions(p, nil))
	}
	derived.Hash = b.PositionHash()
	derived.Repeats = b.CountRepeats()
	derived.Actions = b.ValidActions()
}

// ValidActions returns the list of valid actions for the next player. It is pre-cached in Derived.Actions.
//
// If the match is not finished and there are no valid actions, it returns the PassAction alone.
// So there will always be a valid action for an unfinished board.
func (b *Board) ValidActions() []Action {
	var actions []Action
	switch b.Phase {
	case Finished:
		return nil
	case Placement:
		if b.ToPlace(b.NextPlayer) > 0 {
			actions = make([]Action, 0, len(b.occupancy))
			for ii, c := range b.occupancy {
				if c == NoColor {
					actions = append(actions, PlaceAction(topology.VertexID(ii)))
				}
			}
		}
	case Movement:
		actions = b.moveActions(b.NextPlayer, nil)
	case MillRemoval:
		actions = b.captureActions()
	}
	if len(actions) == 0 {
		actions = append(actions, PassAction)
	}
	return actions
}

// moveActions appends the movements of player's tokens to adjacent empty vertices.
func (b *Board) moveActions(player PlayerNum, actions []Action) []Action {
	color := player.Color()
	for ii, c := range b.occupancy {
		if c != color {
			continue
		}
		src := topology.VertexID(ii)
		for _, tgt := range b.topo.Neighbours(src) {
			if b.occupancy[tgt] == NoColor {
				actions = append(actions, MoveAction(src, tgt))
			}
		}
	}
	return actions
}

// captureActions lists the captures of the opponent tokens by the next player.
func (b *Board) captureActions() (actions []Action) {
	opponent := b.OpponentPlayer().Color()
	for ii, c := range b.occupancy {
		if c != opponent {
			continue
		}
		src := topology.VertexID(ii)
		if b.Rules.Capture == CaptureRemove {
			actions = append(actions, CaptureAction(src, topology.NoVertex))
			continue
		}
		for jj, c2 := range b.occupancy {
			if c2 == NoColor {
				actions = append(actions, CaptureAction(src, topology.VertexID(jj)))
			}
		}
	}
	return
}

// NumActions available to the next player.
func (b *Board) NumActions() int {
	return len(b.Derived.Actions)
}

// IsValid if given action is listed as a valid one.
func (b *Board) IsValid(action Action) bool {
	return b.FindAction(action) >= 0
}

// FindAction returns the index of the action in Derived.Actions, or -1 if it is not valid.
func (b *Board) FindAction(action Action) int {
	for ii, validAction := range b.Derived.Actions {
		if action == validAction {
			return ii
		}
	}
	return -1
}
