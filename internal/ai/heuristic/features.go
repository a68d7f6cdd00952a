package heuristic

import (
	"fmt"
	"strings"
	"sync"

	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/topology"
)

// FeatureId enumerates the board features. Features come in pairs: the first from the point of view
// of the board's next player, the second ("Opponent" prefix) for the opponent.
type FeatureId uint8

const (
	// IdRegionProgress is the best occupation ratio among the eligible regions: own members count
	// positively, opponent blockers negatively.
	IdRegionProgress FeatureId = iota
	IdOpponentRegionProgress

	// IdMillThreats counts mills not yet formed with all but one vertex occupied by the player and
	// the last one empty.
	IdMillThreats
	IdOpponentMillThreats

	// IdMobility is the number of movements available.
	IdMobility
	IdOpponentMobility

	// IdNumTokens on the board.
	IdNumTokens
	IdOpponentNumTokens

	// IdRemainingCaptures the next player still has to take in the MillRemoval phase.
	IdRemainingCaptures

	// NumFeatures defined -- this must always be the last enum.
	NumFeatures
)

var featureNames = [NumFeatures]string{
	"region", "opp_region", "threats", "opp_threats", "mobility", "opp_mobility",
	"tokens", "opp_tokens", "captures",
}

// String returns the name of the feature, also used as its configuration key.
func (id FeatureId) String() string {
	if id >= NumFeatures {
		return fmt.Sprintf("FeatureId(%d)", id)
	}
	return featureNames[id]
}

// Normalization scales so features stay roughly within [-1, 1].
const (
	threatsScale  = 4
	mobilityScale = 20
)

// FeatureVector extracts the features of the board from the point of view of its next player.
// mills must hold every possible mill of the board's topology, see EnumerateMills.
func FeatureVector(b *Board, mills []Mill) []float32 {
	if b.Derived == nil {
		b.BuildDerived()
	}
	f := make([]float32, NumFeatures)
	player := b.NextPlayer
	opponent := player.Opponent()
	f[IdRegionProgress] = regionProgress(b, player)
	f[IdOpponentRegionProgress] = regionProgress(b, opponent)
	threats := millThreats(b, mills)
	f[IdMillThreats] = float32(threats[player]) / threatsScale
	f[IdOpponentMillThreats] = float32(threats[opponent]) / threatsScale
	f[IdMobility] = float32(b.Derived.Mobility[player]) / mobilityScale
	f[IdOpponentMobility] = float32(b.Derived.Mobility[opponent]) / mobilityScale
	tokens := float32(b.Rules.TokensPerPlayer)
	f[IdNumTokens] = float32(b.Derived.NumTokens[player]) / tokens
	f[IdOpponentNumTokens] = float32(b.Derived.NumTokens[opponent]) / tokens
	if b.Phase == MillRemoval {
		f[IdRemainingCaptures] = float32(b.RemainingCaptures)
	}
	return f
}

func regionProgress(b *Board, player PlayerNum) (best float32) {
	best = -1
	for ii, region := range b.Topology().Regions() {
		if !region.EligibleFor(int(player)) || len(region.Members) < MinRegionMembers {
			continue
		}
		counts := b.Derived.RegionCounts[ii]
		progress := (float32(counts[player]) - float32(counts[player.Opponent()])) / float32(len(region.Members))
		best = max(best, progress)
	}
	return
}

// millThreats counts, for each player, the mills one move away from being formed.
func millThreats(b *Board, mills []Mill) (threats [NumPlayers]int) {
	for _, mill := range mills {
		var counts [NumPlayers]int
		empty := 0
		for _, v := range mill.Vertices() {
			if p := b.ColorAt(v).Player(); p != PlayerInvalid {
				counts[p]++
			} else {
				empty++
			}
		}
		if empty != 1 {
			continue
		}
		for p := range PlayerNum(NumPlayers) {
			if counts[p] == len(mill.Vertices())-1 && !b.HasFormed(mill) {
				threats[p]++
			}
		}
	}
	return
}

// millCache holds the mills of the last topology seen. A new topology (e.g. a rescaled board)
// replaces it.
type millCache struct {
	mu    sync.Mutex
	topo  *topology.Topology
	mills []Mill
}

func (c *millCache) of(topo *topology.Topology) []Mill {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topo != topo {
		c.topo = topo
		c.mills = EnumerateMills(topo)
	}
	return c.mills
}

// PrettyPrint returns the named features, one per line.
func PrettyPrint(f []float32) string {
	var sb strings.Builder
	for id, value := range f {
		fmt.Fprintf(&sb, "\t%s: %.3f\n", FeatureId(id), value)
	}
	return sb.String()
}
