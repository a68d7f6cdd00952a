// Package ai (Artificial Intelligence) defines standard interfaces that AIs for the game
// have to implement.
package ai

import (
	"github.com/chewxy/math32"
	. "github.com/janpfeifer/hexMill/internal/state"
)

// WinGameScore for the winning side. For the losing side it is -WinGameScore.
// Scores of unfinished boards are squashed to the open interval (-WinGameScore, +WinGameScore).
const WinGameScore = float32(1)

// SquashScore converts any score to a value between +WinGameScore and -WinGameScore
// by using then tanh(x) function -- a type of S curve.
func SquashScore(x float32) float32 {
	return math32.Tanh(x) * WinGameScore
}

// BoardScorer returns a score (value) for a given board.
//
// The score represents how likely the board's next player is to win: +1 represents a sure win,
// -1 a sure loss, and 0 a draw.
type BoardScorer interface {
	BoardScore(board *Board) float32
	String() string
}

// BatchBoardScorer is a BoardScorer that handles batches.
type BatchBoardScorer interface {
	BoardScorer

	// BatchBoardScore aggregate board scoring in batches, presumably more efficient.
	BatchBoardScore(boards []*Board) []float32
}

// IsEndGameAndScore returns whether it's the end of the game, and the hard-coded score of a
// win/loss/draw from the point of view of player.
// If isEnd is false, the score should be ignored.
//
// Notice that the player who wins keeps the turn (the board's NextPlayer is the winner), so
// scores are always given for an explicit player.
func IsEndGameAndScore(b *Board, player PlayerNum) (isEnd bool, score float32) {
	if !b.IsFinished() {
		return false, 0
	}
	if b.Draw() {
		return true, 0
	}
	if b.Winner() == player {
		return true, WinGameScore
	}
	return true, -WinGameScore
}

// ScoreFor converts a score given from the point of view of b.NextPlayer to the point of view of
// player.
func ScoreFor(b *Board, player PlayerNum, score float32) float32 {
	if b.NextPlayer == player {
		return score
	}
	return -score
}

// BatchScoreWith scores the boards with scorer, using the batch interface if it is available.
func BatchScoreWith(scorer BoardScorer, boards []*Board) []float32 {
	if batch, ok := scorer.(BatchBoardScorer); ok {
		return batch.BatchBoardScore(boards)
	}
	scores := make([]float32, len(boards))
	for ii, board := range boards {
		scores[ii] = scorer.BoardScore(board)
	}
	return scores
}
