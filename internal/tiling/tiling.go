// Package tiling is the geometry provider of the board: it draws the construction the board
// graph is derived from.
//
// The construction has 7 hexagon regions: one at the origin and 6 around it. Each region is a
// regular hexagon with a square built outwards on each of its sides, and a triangle closing the gap
// between consecutive squares at each hexagon corner. Neighbouring regions are joined by two
// parallel connector lines between the facing outer corners of their squares.
//
// Everything is in absolute pixel units: a construction drawn at a different scale yields different
// corner points and signatures, and the topology must be rebuilt from them.
package tiling

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexMill/internal/geometry"
	"github.com/janpfeifer/hexMill/internal/topology"
)

const (
	// NumRegions is the number of hexagon regions of the construction.
	NumRegions = 7

	// SideTolerance and ConnectorTolerance are the length slacks of the adjacency signatures.
	SideTolerance      = float32(3)
	ConnectorTolerance = float32(4)

	// AngleTolerance of the adjacency signatures, in degrees.
	AngleTolerance = float32(2)

	// RegionBand is the slack around the outer square corners radius for region membership.
	RegionBand = float32(3)

	// latticeStep is the angle lattice, in degrees, all drawn segments lie on.
	latticeStep = float32(30)

	degreesToRadians = float32(math.Pi / 180)
)

// RegionNames of the 7 regions, the first one at the center. Directions assume the Y axis
// pointing down, as in screen coordinates.
var RegionNames = [NumRegions]string{
	"center", "east", "south-east", "south-west", "west", "north-west", "north-east",
}

// Construction parameters of the board drawing.
type Construction struct {
	// Side of the hexagons, squares and triangles.
	Side float32

	// Connector is the length of the lines connecting neighbouring regions.
	Connector float32

	// Origin is the center of the central region.
	Origin geometry.Point
}

// Default construction used by the game.
func Default() Construction {
	return Construction{Side: 40, Connector: 100}
}

// Scaled returns the construction with its lengths (and origin) multiplied by f.
func (c Construction) Scaled(f float32) Construction {
	return Construction{Side: c.Side * f, Connector: c.Connector * f, Origin: c.Origin.Scale(f)}
}

// OuterRadius is the distance from a region center to the outer corners of its squares.
func (c Construction) OuterRadius() float32 {
	apothem := c.Side * math32.Sqrt(3) / 2
	return math32.Hypot(apothem+c.Side, c.Side/2)
}

// CenterDistance is the distance between the centers of neighbouring regions.
func (c Construction) CenterDistance() float32 {
	return 2*c.OuterRadius()*math32.Cos(15*degreesToRadians) + c.Connector
}

// Centers of the 7 regions, in the order of RegionNames.
func (c Construction) Centers() []geometry.Point {
	centers := make([]geometry.Point, 0, NumRegions)
	centers = append(centers, c.Origin)
	dist := c.CenterDistance()
	for k := range NumRegions - 1 {
		centers = append(centers, geometry.Polar(c.Origin, dist, float32(60*k)))
	}
	return centers
}

// PolygonKind enumerates the polygons of the construction.
type PolygonKind uint8

const (
	Hexagon PolygonKind = iota
	Square
	Triangle
)

// Polygon drawn by the construction, with its corners in drawing order.
type Polygon struct {
	Kind    PolygonKind
	Corners []geometry.Point
}

// Polygons returns every polygon of the construction, region by region.
func (c Construction) Polygons() []Polygon {
	outer := c.OuterRadius()
	polygons := make([]Polygon, 0, NumRegions*13)
	for _, center := range c.Centers() {
		hex := make([]geometry.Point, 6)
		for k := range 6 {
			hex[k] = geometry.Polar(center, c.Side, float32(30+60*k))
		}
		polygons = append(polygons, Polygon{Kind: Hexagon, Corners: hex})
		for k := range 6 {
			theta := float32(60 * k)
			polygons = append(polygons, Polygon{Kind: Square, Corners: []geometry.Point{
				geometry.Polar(center, c.Side, theta-30),
				geometry.Polar(center, outer, theta-15),
				geometry.Polar(center, outer, theta+15),
				geometry.Polar(center, c.Side, theta+30),
			}})
			polygons = append(polygons, Polygon{Kind: Triangle, Corners: []geometry.Point{
				geometry.Polar(center, c.Side, theta+30),
				geometry.Polar(center, outer, theta+15),
				geometry.Polar(center, outer, theta+45),
			}})
		}
	}
	return polygons
}

// Corners returns the corners of all polygons: adjacent polygons share corners, so there are
// (nearly) duplicate points.
func (c Construction) Corners() []geometry.Point {
	var corners []geometry.Point
	for _, polygon := range c.Polygons() {
		corners = append(corners, polygon.Corners...)
	}
	return corners
}

// Segment is a line drawn by the construction.
type Segment struct {
	A, B geometry.Point

	// Connector is true for the lines connecting neighbouring regions.
	Connector bool
}

// Segments returns every line drawn: the sides of all polygons (shared sides appear more than once)
// and the connectors between neighbouring regions.
func (c Construction) Segments() []Segment {
	var segments []Segment
	for _, polygon := range c.Polygons() {
		n := len(polygon.Corners)
		for ii, corner := range polygon.Corners {
			segments = append(segments, Segment{A: corner, B: polygon.Corners[(ii+1)%n]})
		}
	}
	centers := c.Centers()
	outer := c.OuterRadius()
	neighbourDist := c.CenterDistance()
	for ii, ci := range centers {
		for _, cj := range centers[ii+1:] {
			if diff := ci.Distance(cj) - neighbourDist; diff > SideTolerance || diff < -SideTolerance {
				continue
			}
			dir := ci.Direction(cj)
			for _, delta := range []float32{-15, 15} {
				segments = append(segments, Segment{
					A:         geometry.Polar(ci, outer, dir+delta),
					B:         geometry.Polar(cj, outer, dir+180-delta),
					Connector: true,
				})
			}
		}
	}
	return segments
}

// Signatures of the drawn segments: the polygon sides and the connectors.
func (c Construction) Signatures() []topology.Signature {
	return []topology.Signature{
		{Name: "side", MinLength: c.Side - SideTolerance, MaxLength: c.Side + SideTolerance,
			AngleStep: latticeStep, AngleTolerance: AngleTolerance},
		{Name: "connector", MinLength: c.Connector - ConnectorTolerance, MaxLength: c.Connector + ConnectorTolerance,
			AngleStep: latticeStep, AngleTolerance: AngleTolerance},
	}
}

// Regions returns the specification of the 7 hexagon regions: their members are the outer corners
// of the six squares surrounding each hexagon.
//
// The center region counts for both players; the outer ones alternate between the first player
// (east, south-west, north-west) and the second player (south-east, west, north-east).
func (c Construction) Regions() []topology.RegionSpec {
	outer := c.OuterRadius()
	specs := make([]topology.RegionSpec, 0, NumRegions)
	for ii, center := range c.Centers() {
		eligible := topology.EligibleBoth
		if ii > 0 {
			eligible = uint8(1) << uint((ii-1)%2)
		}
		specs = append(specs, topology.RegionSpec{
			Name:      RegionNames[ii],
			Center:    center,
			MinRadius: outer - RegionBand,
			MaxRadius: outer + RegionBand,
			Eligible:  eligible,
		})
	}
	return specs
}

// Build the board topology for the construction.
func (c Construction) Build() *topology.Topology {
	return topology.New(c.Corners(), c.Signatures(), c.Regions())
}
