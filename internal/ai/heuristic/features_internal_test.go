package heuristic

import (
	"testing"

	"github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/state/statetest"
	"github.com/janpfeifer/hexMill/internal/tiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillCacheKeepsOnlyLastTopology(t *testing.T) {
	s := NewWithWeights(DefaultWeights[:]...)
	topo := statetest.DefaultTopology()
	s.BoardScore(state.NewBoard(topo, state.DefaultRules()))
	require.Same(t, topo, s.mills.topo)
	mills := s.mills.mills
	assert.Len(t, mills, len(state.EnumerateMills(topo)))

	// Scoring again the same topology reuses the cached mills.
	s.BoardScore(state.NewBoard(topo, state.DefaultRules()))
	assert.Same(t, &mills[0], &s.mills.mills[0])

	// A rebuilt topology replaces the previous one.
	scaled := tiling.Default().Scaled(2).Build()
	s.BoardScore(state.NewBoard(scaled, state.DefaultRules()))
	assert.Same(t, scaled, s.mills.topo)
	assert.Len(t, s.mills.mills, len(mills))

	// Other scorers have their own cache.
	assert.Nil(t, NewWithWeights(DefaultWeights[:]...).mills.topo)
}
