// Package _default registers the default players that can be included in any
// front-end for hexMill.
//
// Currently, it includes the heuristic scorer with either the alpha-beta or the greedy searcher.
package _default

import (
	"github.com/janpfeifer/hexMill/internal/ai/heuristic"
	"github.com/janpfeifer/hexMill/internal/parameters"
	"github.com/janpfeifer/hexMill/internal/players"
	"github.com/janpfeifer/hexMill/internal/state"
)

func init() {
	players.RegisterModule("heuristic", &Heuristic{})
}

// Heuristic implements a players.Module with the heuristic scorer. Its weights can be
// configured by parameters named after the features, e.g. "heuristic:ab,region=4".
type Heuristic struct{}

// Assert Heuristic implements Module.
var _ players.Module = (*Heuristic)(nil)

// NewPlayer implements players.Module.
func (h *Heuristic) NewPlayer(matchId uint64, matchName string, playerNum state.PlayerNum, params parameters.Params) (players.Player, error) {
	scorer, err := heuristic.NewFromParams(params)
	if err != nil {
		return nil, err
	}
	player, err := players.NewPlayerFromScorer(scorer, matchId, matchName, playerNum, params)
	if err != nil {
		return nil, err
	}
	return player, nil
}
