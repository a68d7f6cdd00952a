// Package match implements the click driven game state machine on top of the board rules: one
// click on a vertex at a time selects tokens, places, moves or captures them.
//
// A Match is a value: Click, Play and Reset return a new Match and leave the original untouched.
// Rejected inputs are never fatal: they return the same match (with an updated advisory
// Message) and an error wrapping one of the sentinel errors below.
package match

import (
	"fmt"

	"github.com/janpfeifer/hexMill/internal/geometry"
	"github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	// ErrInvalidTarget is returned when the destination is occupied or not adjacent, or the clicked
	// vertex doesn't hold a token that can be acted on.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrWrongTurn is returned when selecting the opponent's token outside the mill removal phase.
	ErrWrongTurn = errors.New("wrong turn")

	// ErrNoSelection is returned when clicking a destination without first selecting a token.
	ErrNoSelection = errors.New("no selection")

	// ErrGameOver is returned for any input after the match finished.
	ErrGameOver = errors.New("game over")
)

// maxAutoPasses is the number of consecutive passes played automatically for players without moves.
const maxAutoPasses = 2

// Match is the state of one game session.
type Match struct {
	Board *state.Board

	// Selected token: the token to move in the Movement phase, or the opponent token to relocate
	// in the MillRemoval phase. topology.NoVertex if none.
	Selected topology.VertexID

	// Message is the advisory message to display to the user.
	Message string
}

// New creates a new match in the placement phase.
func New(topo *topology.Topology, rules state.Rules) Match {
	m := Match{Board: state.NewBoard(topo, rules), Selected: topology.NoVertex}
	m.Message = m.status()
	return m
}

// Reset returns a new match for the same topology and rules: empty board, placement phase and
// no mill history.
func (m Match) Reset() Match {
	return New(m.Board.Topology(), m.Board.Rules)
}

// Click handles a click on vertex v by the user playing the next player.
func (m Match) Click(v topology.VertexID) (Match, error) {
	b := m.Board
	if b.IsFinished() {
		return m.reject(errors.Wrapf(ErrGameOver, "%s", b.FinishReason()))
	}
	if !b.Topology().Valid(v) {
		return m.reject(errors.Wrapf(ErrInvalidTarget, "vertex %d doesn't exist", v))
	}
	player := b.NextPlayer
	color := b.ColorAt(v)
	switch b.Phase {
	case state.Placement:
		if color != state.NoColor {
			return m.reject(errors.Wrapf(ErrInvalidTarget, "vertex %d is occupied", v))
		}
		return m.act(state.PlaceAction(v))

	case state.Movement:
		if color == player.Color() {
			return m.selectVertex(v, fmt.Sprintf("%s selected token at %d: click an adjacent empty vertex to move it", player, v))
		}
		if color != state.NoColor {
			return m.reject(errors.Wrapf(ErrWrongTurn, "token at %d belongs to %s, it's %s's turn", v, color, player))
		}
		if m.Selected == topology.NoVertex {
			return m.reject(errors.Wrapf(ErrNoSelection, "select one of %s's tokens first", player))
		}
		if !b.Topology().IsAdjacent(m.Selected, v) {
			return m.reject(errors.Wrapf(ErrInvalidTarget, "vertex %d is not connected to %d", v, m.Selected))
		}
		return m.act(state.MoveAction(m.Selected, v))

	case state.MillRemoval:
		opponent := player.Opponent()
		if color == opponent.Color() {
			if b.Rules.Capture == state.CaptureRemove {
				return m.act(state.CaptureAction(v, topology.NoVertex))
			}
			return m.selectVertex(v, fmt.Sprintf("%s selected %s's token at %d: click an empty vertex to relocate it",
				player, opponent, v))
		}
		if color != state.NoColor {
			return m.reject(errors.Wrapf(ErrInvalidTarget, "%s must capture one of %s's tokens", player, opponent))
		}
		if m.Selected == topology.NoVertex {
			return m.reject(errors.Wrapf(ErrNoSelection, "select one of %s's tokens to capture first", opponent))
		}
		return m.act(state.CaptureAction(m.Selected, v))
	}
	return m.reject(errors.Wrapf(ErrInvalidTarget, "unexpected phase %s", b.Phase))
}

// ClickAt handles a click at the given position, resolved to the nearest vertex within
// topology.ClickTolerance.
func (m Match) ClickAt(p geometry.Point) (Match, error) {
	v, found := m.Board.Topology().Nearest(p, topology.ClickTolerance)
	if !found {
		return m.reject(errors.Wrapf(ErrInvalidTarget, "no vertex near %s", p))
	}
	return m.Click(v)
}

// Play takes the action for the next player, if it is valid. It's used by AI players.
func (m Match) Play(action state.Action) (Match, error) {
	if m.Board.IsFinished() {
		return m.reject(errors.Wrapf(ErrGameOver, "%s", m.Board.FinishReason()))
	}
	if !m.Board.IsValid(action) {
		return m.reject(errors.Wrapf(ErrInvalidTarget, "action %s is not valid for %s in phase %s",
			action, m.Board.NextPlayer, m.Board.Phase))
	}
	return m.act(action)
}

// reject returns the unchanged match with the error as the advisory message.
func (m Match) reject(err error) (Match, error) {
	m.Message = err.Error()
	klog.V(2).Infof("Input rejected: %v", err)
	return m, err
}

func (m Match) selectVertex(v topology.VertexID, msg string) (Match, error) {
	m.Selected = v
	m.Message = msg
	return m, nil
}

// act applies a valid action, followed by automatic passes for players without moves.
func (m Match) act(action state.Action) (Match, error) {
	actor := m.Board.NextPlayer
	b := m.Board.Act(action)
	msg := fmt.Sprintf("%s: %s.", actor, action)
	for range maxAutoPasses {
		if b.IsFinished() || b.NumActions() != 1 || !b.Derived.Actions[0].IsPass() {
			break
		}
		msg = fmt.Sprintf("%s %s has no moves and passes.", msg, b.NextPlayer)
		b = b.Act(state.PassAction)
	}
	m = Match{Board: b, Selected: topology.NoVertex}
	m.Message = msg + " " + m.status()
	if b.IsFinished() {
		klog.V(1).Infof("Match finished after %d moves: %s", b.MoveNumber-1, b.FinishReason())
	}
	return m, nil
}

// status describes what is expected next.
func (m Match) status() string {
	b := m.Board
	switch b.Phase {
	case state.Placement:
		return fmt.Sprintf("%s to place a token (%d left).", b.NextPlayer, b.ToPlace(b.NextPlayer))
	case state.Movement:
		return fmt.Sprintf("%s to move.", b.NextPlayer)
	case state.MillRemoval:
		return fmt.Sprintf("%s formed a mill: capture %d of %s's tokens.",
			b.NextPlayer, b.RemainingCaptures, b.OpponentPlayer())
	case state.Finished:
		return "Game over: " + b.FinishReason() + "."
	}
	return ""
}
