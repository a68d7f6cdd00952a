package searchers

import (
	"math/rand/v2"

	"github.com/janpfeifer/hexMill/internal/ai"
	"github.com/janpfeifer/hexMill/internal/generics"
	. "github.com/janpfeifer/hexMill/internal/state"
	"k8s.io/klog/v2"
)

// Greedy searcher looks only one ply ahead: it scores the boards after each action and takes the best.
// Ties are broken at random.
type Greedy struct {
	Scorer ai.BoardScorer
}

// Assert Greedy is a Searcher.
var _ Searcher = (*Greedy)(nil)

// NewGreedy returns a one-ply Searcher using the given scorer.
func NewGreedy(scorer ai.BoardScorer) *Greedy {
	return &Greedy{Scorer: scorer}
}

// Search implements the Searcher interface. It returns the scores of all actions.
func (g *Greedy) Search(board *Board) (action Action, nextBoard *Board, score float32, actionsScores []float32) {
	player := board.NextPlayer
	newBoards := board.TakeAllActions()
	actions := board.Derived.Actions
	actionsScores = ai.BatchScoreWith(g.Scorer, newBoards)
	for ii, newBoard := range newBoards {
		if isEnd, endScore := ai.IsEndGameAndScore(newBoard, player); isEnd {
			actionsScores[ii] = endScore
		} else {
			actionsScores[ii] = ai.ScoreFor(newBoard, player, actionsScores[ii])
		}
	}
	ordering := generics.SliceOrdering(actionsScores, true)
	best := ordering[0]
	ties := 1
	for _, idx := range ordering[1:] {
		if actionsScores[idx] != actionsScores[best] {
			break
		}
		ties++
	}
	if ties > 1 {
		best = ordering[rand.IntN(ties)]
	}
	if klog.V(2).Enabled() {
		klog.Infof("Greedy (%s): %d actions, best %s with score %.3f (%d ties)",
			g.Scorer, len(actions), actions[best], actionsScores[best], ties)
	}
	return actions[best], newBoards[best], actionsScores[best], actionsScores
}
