package players

import (
	"fmt"
	"strings"
	"time"

	"github.com/janpfeifer/hexMill/internal/ai"
	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/parameters"
	"github.com/janpfeifer/hexMill/internal/searchers"
	"github.com/janpfeifer/hexMill/internal/searchers/alphabeta"
	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SearcherScorer is a standard set up for an AI: a searcher and a scorer.
// It implements the Player interface.
type SearcherScorer struct {
	Searcher  searchers.Searcher
	Scorer    ai.BoardScorer
	MatchName string
	PlayerNum PlayerNum
}

// Assert that SearchScorer is a Player.
var _ Player = &SearcherScorer{}

// NewPlayerFromScorer creates a SearcherScorer player with the given scorer, and a searcher configured by params.
//
// Parameters:
//
//   - ab (bool): Use the Alpha-Beta pruning search algorithm. This is the default.
//   - greedy (bool): Use the one-ply greedy searcher.
//   - max_depth (int): Max depth of the alpha-beta search, default is 2. If max_time is set, this parameter is ignored.
//   - max_time (time.Duration): Max time of the alpha-beta search, default is 0s, which means it is not time-limited
//     but rather max_depth limited.
//   - randomness (float): For alpha-beta, the standard deviation of the noise added to leaf scores. For greedy, the
//     choice is distributed according to a softmax of the scores of each move, divided by this value.
//     So lower values (closer to 0) means less randomness, higher value means more randomness. Default is 0.
//   - max_move_randomness (int): Disable randomness from this move number on. Default is 0, meaning no limit.
//
// Any other parameter left in params is reported as an error.
func NewPlayerFromScorer(scorer ai.BoardScorer, matchId uint64, matchName string, playerNum PlayerNum,
	params parameters.Params) (*SearcherScorer, error) {
	useAB, err := parameters.PopParamOr(params, "ab", false)
	if err != nil {
		return nil, err
	}
	useGreedy, err := parameters.PopParamOr(params, "greedy", false)
	if err != nil {
		return nil, err
	}
	if useAB && useGreedy {
		return nil, errors.New("only one of the searchers \"ab\" or \"greedy\" can be selected")
	}
	maxDepth, err := parameters.PopParamOr(params, "max_depth", alphabeta.DefaultMaxDepth)
	if err != nil {
		return nil, err
	}
	maxTime, err := parameters.PopParamOr(params, "max_time", time.Duration(0))
	if err != nil {
		return nil, err
	}
	randomness, err := parameters.PopParamOr(params, "randomness", 0.0)
	if err != nil {
		return nil, err
	}
	maxMoveRandomness, err := parameters.PopParamOr(params, "max_move_randomness", 0)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		return nil, errors.Errorf("unknown AI parameters \"%s\" passed",
			strings.Join(generics.KeysSlice(params), "\", \""))
	}

	player := &SearcherScorer{Scorer: scorer, MatchName: matchName, PlayerNum: playerNum}
	if useGreedy {
		player.Searcher = searchers.NewRandomizedSearcher(searchers.NewGreedy(scorer), randomness, maxMoveRandomness)
	} else {
		ab := alphabeta.New(scorer).
			WithMaxDepth(maxDepth).
			WithRandomness(float32(randomness)).
			WithMaxMoveRandomness(maxMoveRandomness)
		if maxTime > 0 {
			ab.WithMaxTime(maxTime)
		}
		player.Searcher = ab
	}
	klog.V(1).Infof("Match %d (%s): %s player uses %s", matchId, matchName, playerNum, player)
	return player, nil
}

// String implements fmt.Stringer.
func (s *SearcherScorer) String() string {
	if stringer, ok := s.Searcher.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%T(%s)", s.Searcher, s.Scorer)
}

// Play implements the Player interface: it chooses an action given a Board.
func (s *SearcherScorer) Play(b *Board) (action Action, board *Board, score float32, actionsScores []float32) {
	action, board, score, actionsScores = s.Searcher.Search(b)
	if klog.V(2).Enabled() {
		klog.Infof("%s, move #%d: AI (%s) playing %s, score=%.3f",
			s.MatchName, b.MoveNumber, s.Scorer, action, score)
	}
	return
}

// Finalize is called at the end of a match.
func (s *SearcherScorer) Finalize() {
	if klog.V(1).Enabled() {
		klog.Infof("%s: player (scorer=%s) finalized", s.MatchName, s.Scorer)
	}
	s.Scorer = nil
	s.Searcher = nil
}
