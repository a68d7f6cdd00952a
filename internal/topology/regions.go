package topology

import (
	"fmt"
	"github.com/janpfeifer/hexMill/internal/geometry"
)

// RegionSpec defines a hexagon region: its members are all vertices whose distance to
// Center lies within [MinRadius, MaxRadius].
type RegionSpec struct {
	Name                 string
	Center               geometry.Point
	MinRadius, MaxRadius float32

	// Eligible is a bit mask over player indices (bit 0 for the first player, bit 1 for the
	// second): a region only counts for the win of the players it is eligible for.
	Eligible uint8
}

// EligibleBoth marks a region that counts for both players.
const EligibleBoth = uint8(0b11)

// EligibleFor returns whether the region counts for the given player index.
func (spec RegionSpec) EligibleFor(player int) bool {
	return spec.Eligible&(1<<uint(player)) != 0
}

// Region is a RegionSpec with its members resolved against a Topology.
type Region struct {
	RegionSpec

	// Members are the vertices in the radius band, in increasing order.
	Members []VertexID
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return fmt.Sprintf("%s@%s(%d members)", r.Name, r.Center, len(r.Members))
}

func (t *Topology) buildRegion(spec RegionSpec) Region {
	r := Region{RegionSpec: spec}
	for _, v := range t.vertices {
		dist := v.Pos.Distance(spec.Center)
		if dist >= spec.MinRadius && dist <= spec.MaxRadius {
			r.Members = append(r.Members, v.ID)
		}
	}
	return r
}
