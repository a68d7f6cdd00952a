// Package searchers defines the Searcher interface implemented by the search algorithms, and a few
// simple searchers.
package searchers

import (
	. "github.com/janpfeifer/hexMill/internal/state"
)

// Searcher is the interface that any of the search algorithms
// must adhere to be valid.
type Searcher interface {
	// Search returns the next action to take on the given board, along with the updated Board (after taking the action)
	// and the expected score of taking that action, from the point of view of board.NextPlayer.
	//
	// Optionally, it can also return the score for each of the actions available on the board.
	// Some algorithms (e.g.: alpha-beta pruning) don't provide good approximations to those, so they return it nil.
	Search(board *Board) (action Action, nextBoard *Board, score float32, actionsScores []float32)
}
