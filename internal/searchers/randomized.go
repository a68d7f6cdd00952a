package searchers

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/hexMill/internal/state"
	"k8s.io/klog/v2"
)

// NewRandomizedSearcher adds randomness to the action taken by an existing Searcher.
// Args:
//
//   - searcher: Baseline Searcher.
//   - randomness (>=0): Amount of randomness to use: it is applied as a divisor to the scores
//     returned by the Searcher, except if there is a winning move.
//     The larger the value the more it leads to randomness (exploration), and lower values
//     lead to "pick the best scoring move" (exploitation), with zero meaning no randomness.
//   - maxMoveRandomness: starting at this move no more randomness is used. This allows
//     randomness to be used only earlier in the match. If <= 0 randomness is always used.
func NewRandomizedSearcher(searcher Searcher, randomness float64, maxMoveRandomness int) Searcher {
	if randomness <= 0 {
		// Without randomness, simply return the original Searcher.
		return searcher
	}
	return &randomizedSearcher{searcher: searcher, randomness: randomness, maxMoveRandomness: maxMoveRandomness}
}

// randomizedSearcher is a meta Searcher, that introduces randomness to its scorer.
type randomizedSearcher struct {
	searcher          Searcher
	randomness        float64
	maxMoveRandomness int
}

// Assert randomizedSearcher is a Searcher.
var _ Searcher = &randomizedSearcher{}

// Search implements the Searcher interface.
func (rs *randomizedSearcher) Search(board *Board) (chosenAction Action, nextBoard *Board, score float32, actionsScores []float32) {
	actions := board.Derived.Actions

	chosenAction, nextBoard, score, actionsScores = rs.searcher.Search(board)

	// No randomness past maxMoveRandomness, for a single scored action or for an end-game move.
	if (rs.maxMoveRandomness > 0 && board.MoveNumber >= rs.maxMoveRandomness) || nextBoard.IsFinished() || len(actionsScores) <= 1 {
		return
	}
	if len(actionsScores) != len(actions) {
		exceptions.Panicf("randomizedSearcher: Searcher returned %d actionsScores, but board has %d actions!?", len(actionsScores), len(actions))
	}

	// Calculate probability for each action.
	logits := make([]float64, len(actionsScores))
	for ii, score := range actionsScores {
		logits[ii] = float64(score) / rs.randomness
	}
	probabilities := softmax(logits)

	chance := rand.Float64()
	for actionIdx, value := range probabilities {
		if chance > value {
			chance -= value
			continue
		}

		if klog.V(2).Enabled() {
			klog.Infof("randomizedSearcher selection: action=%s, score=%.3f", actions[actionIdx], actionsScores[actionIdx])
		}
		if actions[actionIdx] == chosenAction {
			return
		}
		chosenAction = actions[actionIdx]
		nextBoard = board.Act(chosenAction)
		score = actionsScores[actionIdx]
		return
	}
	// Only reachable through floating point rounding: keep the last action with non-zero probability.
	for actionIdx := len(probabilities) - 1; actionIdx >= 0; actionIdx-- {
		if probabilities[actionIdx] > 0 {
			chosenAction = actions[actionIdx]
			nextBoard = board.Act(chosenAction)
			score = actionsScores[actionIdx]
			return
		}
	}
	exceptions.Panicf("Nothing selected!? remaining chance=%f, probabilities=%v", chance, probabilities)
	return
}

func softmax(values []float64) (probs []float64) {
	probs = make([]float64, len(values))
	var sum float64

	// Subtracting the max keeps the probabilities and avoids overflows.
	maxValue := slices.Max(values)
	for ii, value := range values {
		probs[ii] = math.Exp(value - maxValue)
		sum += probs[ii]
	}
	for ii := range probs {
		probs[ii] /= sum
	}
	return
}
