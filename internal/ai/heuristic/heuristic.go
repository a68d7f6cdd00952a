// Package heuristic implements a hand-tuned linear scorer over board features: region progress
// towards a win, mill threats, mobility and token counts.
//
// The weights can be overridden by configuration, e.g. "heuristic:region=4,threats=0.5".
package heuristic

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexMill/internal/ai"
	"github.com/janpfeifer/hexMill/internal/parameters"
	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/pkg/errors"
)

// Scorer is a linear model (one weight per feature + bias) on the feature set.
// It implements ai.BoardScorer and ai.BatchBoardScorer.
type Scorer struct {
	name    string
	weights []float32
	mills   *millCache
}

var (
	// Assert Scorer is an ai.BoardScorer and an ai.BatchBoardScorer
	_ ai.BoardScorer      = (*Scorer)(nil)
	_ ai.BatchBoardScorer = (*Scorer)(nil)
)

// DefaultWeights of the features, followed by the bias.
var DefaultWeights = [NumFeatures + 1]float32{
	// region, opp_region
	3, -3.5,
	// threats, opp_threats
	0.6, -0.8,
	// mobility, opp_mobility
	0.3, -0.3,
	// tokens, opp_tokens
	1, -1,
	// captures
	0.5,
	// bias
	0,
}

// Default scorer with the DefaultWeights.
var Default = NewWithWeights(DefaultWeights[:]...)

// NewWithWeights creates a new Scorer with the given weights: one per feature, plus the bias.
// Ownership of the weights is transferred.
func NewWithWeights(weights ...float32) *Scorer {
	if len(weights) != int(NumFeatures)+1 {
		exceptions.Panicf("heuristic.NewWithWeights: got %d weights, wanted %d features + 1 bias",
			len(weights), NumFeatures)
	}
	return &Scorer{name: "heuristic", weights: weights, mills: &millCache{}}
}

// NewFromParams creates a scorer with DefaultWeights, overridden by any parameter named after a
// feature (see FeatureId.String) or "bias". Parameters used are removed from params.
func NewFromParams(params parameters.Params) (*Scorer, error) {
	weights := slices.Clone(DefaultWeights[:])
	var changed []string
	for id := range NumFeatures {
		key := id.String()
		if _, found := params[key]; !found {
			continue
		}
		value, err := parameters.PopParamOr(params, key, weights[id])
		if err != nil {
			return nil, errors.WithMessagef(err, "heuristic scorer weight %q", key)
		}
		weights[id] = value
		changed = append(changed, fmt.Sprintf("%s=%g", key, value))
	}
	bias, err := parameters.PopParamOr(params, "bias", weights[NumFeatures])
	if err != nil {
		return nil, errors.WithMessage(err, "heuristic scorer bias")
	}
	weights[NumFeatures] = bias
	s := NewWithWeights(weights...)
	if len(changed) > 0 {
		s.name = fmt.Sprintf("heuristic(%s)", strings.Join(changed, ","))
	}
	return s, nil
}

// String implements ai.BoardScorer.
func (s *Scorer) String() string {
	return s.name
}

// Weights returns a copy of the scorer's weights, the last one being the bias.
func (s *Scorer) Weights() []float32 {
	return slices.Clone(s.weights)
}

func (s *Scorer) logitScore(features []float32) float32 {
	// Sum start with bias.
	sum := s.weights[len(s.weights)-1]
	for ii, feature := range features {
		sum += feature * s.weights[ii]
	}
	return sum
}

// BoardScore implements ai.BoardScorer.
// Finished boards get the hard-coded end-game scores.
func (s *Scorer) BoardScore(board *Board) float32 {
	if isEnd, score := ai.IsEndGameAndScore(board, board.NextPlayer); isEnd {
		return score
	}
	return s.ScoreFeatures(s.Features(board))
}

// Features returns the FeatureVector of the board. The mills of the board's topology are cached
// until a board of another topology is scored.
func (s *Scorer) Features(board *Board) []float32 {
	return FeatureVector(board, s.mills.of(board.Topology()))
}

// ScoreFeatures is like BoardScore, but it takes the raw features as input.
func (s *Scorer) ScoreFeatures(features []float32) float32 {
	return ai.SquashScore(s.logitScore(features))
}

// BatchBoardScore implements ai.BatchBoardScorer.
func (s *Scorer) BatchBoardScore(boards []*Board) (scores []float32) {
	scores = make([]float32, len(boards))
	for ii, board := range boards {
		scores[ii] = s.BoardScore(board)
	}
	return
}
