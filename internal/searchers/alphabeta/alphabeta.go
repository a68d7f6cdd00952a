// Package alphabeta implements the alpha-beta pruning searcher.
package alphabeta

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/janpfeifer/hexMill/internal/ai"
	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/searchers"
	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/ui/cli"
	"k8s.io/klog/v2"
)

// Searcher implements the searchers.Searcher interface.
// It is used by players.SearcherScorer, along with the scorer, to implement an AI player (players.Player interface).
//
// A player keeps the turn while capturing after a mill, so plies don't alternate between players: the
// score of a sub-tree is negated (and the alpha-beta window swapped) only when the player changes.
type Searcher struct {
	maxDepth          int
	maxTime           time.Duration
	randomness        float32
	maxMoveRandomness int
	scorer            ai.BoardScorer
	stats             Stats

	// deadline is set during a time-limited search.
	deadline time.Time
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// Stats stores running stats collected during the search: for benchmarking, monitoring and debugging purposes.
type Stats struct {
	// Nodes "played" during search -- execution of an action in a board, following by the creation of the new board.
	Nodes int

	// Evals means the number of boards passed to the scorer. End-game boards are not scored and don't
	// count here.
	Evals int

	LeafEvals int
	Prunes    int

	// Depth of the last completed search.
	Depth int
}

// New returns an Alpha-Beta Pruning based searchers.Searcher implementation.
// There are many other optional configurations, see methods Searcher.With...
//
// The one obligatory parameter is the scorer used for the search.
//
// See: wikipedia.org/wiki/Alpha-beta_pruning
func New(scorer ai.BoardScorer) *Searcher {
	return &Searcher{
		scorer:   scorer,
		maxDepth: DefaultMaxDepth,
	}
}

// DefaultMaxDepth for search. Captures in relocate mode have many options (any opponent token to any
// empty vertex), which keeps the default shallow.
const DefaultMaxDepth = 2

// WithMaxDepth sets a default max depth of search: the unit here are plies (ply singular). Each action,
// including captures, counts as one ply. See https://en.wikipedia.org/wiki/Ply_(game_theory).
//
// This overrides WithMaxTime.
func (ab *Searcher) WithMaxDepth(maxDepth int) *Searcher {
	ab.maxDepth = maxDepth
	if maxDepth > 0 {
		ab.maxTime = 0
	} else {
		ab.maxDepth = 0
		// If disabling maxDepth, set maxTime to some default, if it is not set.
		if ab.maxTime == 0 {
			ab.maxTime = 3 * time.Second
		}
	}
	return ab
}

// WithRandomness adds a gaussian noise scaled to randomness to the scores of the leaf nodes.
// Scores vary from -1 to 1 (+/- ai.WinGameScore), so a value of 1.0 here would be a lot.
//
// This can be useful to make the AI play worse, to make it more fun.
//
// Set to 0 to disable randomness -- this is the default.
//
// See also WithMaxMoveRandomness.
func (ab *Searcher) WithRandomness(randomness float32) *Searcher {
	ab.randomness = randomness
	return ab
}

// WithMaxMoveRandomness sets a move limit after which randomness is disabled.
//
// This is desirable if, for instance, using randomness only to generate different openings.
func (ab *Searcher) WithMaxMoveRandomness(maxMoveRandomness int) *Searcher {
	ab.maxMoveRandomness = maxMoveRandomness
	return ab
}

// WithMaxTime sets a default max duration of thinking per search: the search is iteratively deepened
// until the time runs out, and the result of the deepest completed search is used.
// This overrides WithMaxDepth.
//
// The default is no time-limit, and instead be limited by WithMaxDepth.
func (ab *Searcher) WithMaxTime(maxTime time.Duration) *Searcher {
	ab.maxTime = maxTime
	if maxTime > 0 {
		ab.maxDepth = 0
	} else {
		ab.maxTime = 0
		// If disabling maxTime, set maxDepth to default, if it is not set.
		if ab.maxDepth == 0 {
			ab.maxDepth = DefaultMaxDepth
		}
	}
	return ab
}

// Stats of the last search.
func (ab *Searcher) Stats() Stats {
	return ab.stats
}

// String implements fmt.Stringer.
func (ab *Searcher) String() string {
	if ab.maxTime > 0 {
		return fmt.Sprintf("αβ(%s, max_time=%s)", ab.scorer, ab.maxTime)
	}
	return fmt.Sprintf("αβ(%s, max_depth=%d)", ab.scorer, ab.maxDepth)
}

// maxIterativeDepth limits the iterative deepening of time-limited searches.
const maxIterativeDepth = 32

// Search implements the Searcher interface.
//
// It returns actionsScores always nil, because it wouldn't be a good approximation for the non-best move.
// This is because of the pruning aspect of the algorithm: bad moves are cut short, so alpha-beta pruning score
// estimation for bad moves will not be a good one.
func (ab *Searcher) Search(board *Board) (action Action, nextBoard *Board, score float32, actionsScores []float32) {
	start := time.Now()
	ab.stats = Stats{}
	if ab.maxTime > 0 {
		ab.deadline = start.Add(ab.maxTime)
		for depth := 1; depth <= maxIterativeDepth; depth++ {
			depthAction, depthBoard, depthScore, completed := ab.searchToMaxDepth(board, depth)
			if !completed && depth > 1 {
				break
			}
			action, nextBoard, score = depthAction, depthBoard, depthScore
			ab.stats.Depth = depth
			if nextBoard.IsFinished() || time.Now().After(ab.deadline) {
				break
			}
		}
		ab.deadline = time.Time{}
	} else {
		action, nextBoard, score, _ = ab.searchToMaxDepth(board, ab.maxDepth)
		ab.stats.Depth = ab.maxDepth
	}
	elapsedTime := time.Since(start).Seconds()
	if klog.V(3).Enabled() {
		muLogBoard.Lock()
		defer muLogBoard.Unlock()

		ui := cli.New(true, false)
		fmt.Println()
		ui.PrintPlayer(nextBoard)
		fmt.Printf(" - Move #%d\n\n", nextBoard.MoveNumber)
		ui.PrintBoard(nextBoard)
		fmt.Println()
		fmt.Printf("Best action found: %s - shallow score=%.2f, αβ-score=%.2f\n\n",
			action, ai.ScoreFor(nextBoard, board.NextPlayer, ab.scorer.BoardScore(nextBoard)), score)
	}
	if klog.V(2).Enabled() {
		klog.Infof("αβ counts: %+v", ab.stats)
		klog.Infof("  nodes/s=%.1f, evals/s=%.1f, leafEvals=%.2f%%",
			float64(ab.stats.Nodes)/elapsedTime, float64(ab.stats.Evals)/elapsedTime,
			100*float64(ab.stats.LeafEvals)/max(1, float64(ab.stats.Evals)))
	}
	return
}

var muLogBoard sync.Mutex

// searchToMaxDepth executes alpha-beta pruning algorithm to the given depth.
// Returns:
//
//	bestAction: that it suggests taking.
//	bestBoard: Board after taking bestAction.
//	bestScore: score of taking bestAction, for board.NextPlayer.
//	completed: false if the search was interrupted by the deadline.
func (ab *Searcher) searchToMaxDepth(board *Board, maxDepth int) (
	bestAction Action, bestBoard *Board, bestScore float32, completed bool) {
	alpha := float32(-math.MaxFloat32)
	beta := float32(math.MaxFloat32)
	addNoise := ab.randomness > 0 && (ab.maxMoveRandomness <= 0 || board.MoveNumber <= ab.maxMoveRandomness)
	bestAction, bestBoard, bestScore, completed = ab.recursion(board, maxDepth, alpha, beta, addNoise)
	return
}

// recursion of the alpha-beta pruning algorithm, with depthLeft plies to go. Scores and the
// (alpha, beta) window are from the point of view of board.NextPlayer.
func (ab *Searcher) recursion(board *Board, depthLeft int, alpha, beta float32, addNoise bool) (
	bestAction Action, bestBoard *Board, bestScore float32, completed bool) {
	isLeaf := depthLeft <= 1
	player := board.NextPlayer

	// Sub-actions and boards available at this state: in principle we would only need to score the leaf
	// nodes, but we score intermediary nodes to guide the alpha-beta pruning search -- it prunes more
	// if we search for the better nodes first.
	actions := board.Derived.Actions
	newBoards, scores, winningIdx := ab.executeAndScoreActions(board, isLeaf)
	if winningIdx >= 0 {
		return actions[winningIdx], newBoards[winningIdx], ai.WinGameScore, true
	}

	// If there is only one action, and it leads to and end-game, then there is nothing else to explore.
	if len(actions) == 1 && newBoards[0].IsFinished() {
		return actions[0], newBoards[0], scores[0], true
	}

	if isLeaf && addNoise {
		// Randomize only non end-of-game actions
		for ii := range scores {
			if !newBoards[ii].IsFinished() {
				noise := float32(rand.NormFloat64()*float64(ab.randomness)) * ai.WinGameScore
				scores[ii] = ai.SquashScore(scores[ii] + noise)
			}
		}
	}

	// Explore from the best scoring first.
	bestScore = float32(-math.MaxFloat32)
	bestIdx := -1
	ordering := generics.SliceOrdering(scores, true)
	for _, actionIdx := range ordering {
		newBoard := newBoards[actionIdx]
		if !isLeaf && !newBoard.IsFinished() {
			if ab.expired() {
				return actions[ordering[0]], newBoards[ordering[0]], scores[ordering[0]], false
			}
			var score float32
			if newBoard.NextPlayer == player {
				// Same player acts again (captures): same window.
				_, _, score, completed = ab.recursion(newBoard, depthLeft-1, alpha, beta, addNoise)
			} else {
				_, _, score, completed = ab.recursion(newBoard, depthLeft-1, -beta, -alpha, addNoise)
				score = -score
			}
			if !completed {
				return actions[ordering[0]], newBoards[ordering[0]], scores[ordering[0]], false
			}
			scores[actionIdx] = score
		}

		if scores[actionIdx] > bestScore {
			bestScore = scores[actionIdx]
			bestIdx = actionIdx
		}
		alpha = max(alpha, bestScore)
		if alpha >= beta {
			// The opponent will never take this path, so we can prune the search and stop here.
			ab.stats.Prunes++
			break
		}
		if bestScore >= ai.WinGameScore {
			break
		}
	}
	return actions[bestIdx], newBoards[bestIdx], bestScore, true
}

// expired returns whether the deadline of a time-limited search has passed.
func (ab *Searcher) expired() bool {
	return !ab.deadline.IsZero() && time.Now().After(ab.deadline)
}

// executeAndScoreActions creates the boards after executing each of the board actions,
// and returns the new boards and their scores according to the scorer, from the point of view
// of board.NextPlayer.
//
// It returns without using the scorer if any of the actions lead to board.NextPlayer winning,
// with winningIdx set to one of those actions, chosen at random. Otherwise winningIdx is -1.
func (ab *Searcher) executeAndScoreActions(board *Board, isLeaf bool) (newBoards []*Board, scores []float32, winningIdx int) {
	player := board.NextPlayer
	actions := board.Derived.Actions
	scores = make([]float32, len(actions))
	newBoards = make([]*Board, len(actions))
	ab.stats.Nodes += len(actions)

	// Pre-score actions that lead to end-game.
	boardsToScore := make([]*Board, 0, len(actions))
	winningIdx = -1
	numWinning := 0
	for ii, action := range actions {
		newBoards[ii] = board.Act(action)
		if isEnd, score := ai.IsEndGameAndScore(newBoards[ii], player); isEnd {
			scores[ii] = score
			if score > 0 {
				numWinning++
				if numWinning == 1 || rand.IntN(numWinning) == 0 {
					winningIdx = ii
				}
			}
		} else {
			boardsToScore = append(boardsToScore, newBoards[ii])
		}
	}
	if numWinning > 0 || len(boardsToScore) == 0 {
		return
	}

	scored := ai.BatchScoreWith(ab.scorer, boardsToScore)
	ab.stats.Evals += len(scored)
	if isLeaf {
		ab.stats.LeafEvals += len(scored)
	}
	scoredIdx := 0
	for ii, newBoard := range newBoards {
		if !newBoard.IsFinished() {
			scores[ii] = ai.ScoreFor(newBoard, player, scored[scoredIdx])
			scoredIdx++
		}
	}
	return
}
