package state

// This file holds the mill rule engine: detection of triangle and square mills formed by a
// movement, and the capture allowance they grant.

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/geometry"
	"github.com/janpfeifer/hexMill/internal/topology"
)

// MaxCapturesPerTurn is the cap of the capture allowance, regardless of how many mills are
// formed by a single movement.
const MaxCapturesPerTurn = 2

// Shape of a mill.
type Shape uint8

const (
	ShapeTriangle Shape = iota
	ShapeSquare
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "triangle"
	case ShapeSquare:
		return "square"
	}
	return fmt.Sprintf("Shape(%d)", s)
}

// Mill is either a Triangle or a Square of vertices occupied by the same color.
type Mill interface {
	// Shape of the mill.
	Shape() Shape

	// Vertices of the mill. For a Square they are in cyclic order.
	Vertices() []topology.VertexID
}

// Triangle of 3 pairwise adjacent vertices.
type Triangle [3]topology.VertexID

// Square of 4 vertices forming a closed cycle of adjacent vertices, in cycle order.
type Square [4]topology.VertexID

// Shape implements Mill.
func (Triangle) Shape() Shape { return ShapeTriangle }

// Vertices implements Mill.
func (m Triangle) Vertices() []topology.VertexID { return m[:] }

// String implements fmt.Stringer.
func (m Triangle) String() string { return fmt.Sprintf("triangle%v", m[:]) }

// Shape implements Mill.
func (Square) Shape() Shape { return ShapeSquare }

// Vertices implements Mill.
func (m Square) Vertices() []topology.VertexID { return m[:] }

// String implements fmt.Stringer.
func (m Square) String() string { return fmt.Sprintf("square%v", m[:]) }

// MillWeight is the number of captures a newly formed mill grants: 1 for a triangle and 2 for a square.
func MillWeight(m Mill) int {
	switch m.(type) {
	case Triangle:
		return 1
	case Square:
		return 2
	default:
		exceptions.Panicf("unknown mill type %T", m)
	}
	return 0
}

// MillID is the canonical identifier of a mill: its shape and its vertex coordinates rounded
// to integers and sorted. It doesn't depend on the order the vertices were found, and it is
// comparable, so it can be used as a map key.
type MillID struct {
	Shape   Shape
	Corners [4]geometry.IntPoint
}

// String implements fmt.Stringer.
func (id MillID) String() string {
	n := 4
	if id.Shape == ShapeTriangle {
		n = 3
	}
	return fmt.Sprintf("%s%v", id.Shape, id.Corners[:n])
}

// NewMillID returns the canonical id of the mill, using the vertex positions of the topology.
func NewMillID(t *topology.Topology, m Mill) MillID {
	id := MillID{Shape: m.Shape()}
	vertices := m.Vertices()
	for ii, v := range vertices {
		id.Corners[ii] = t.Pos(v).Round()
	}
	corners := id.Corners[:len(vertices)]
	slices.SortFunc(corners, func(a, b geometry.IntPoint) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return id
}

// MillReport is the result of DetectMills.
type MillReport struct {
	// All mills containing the moved vertex, including the ones formed before.
	All []Mill

	// New mills: those never formed before in the match.
	New []Mill

	// CapturesAllowed is the sum of the weights of the new mills, capped at MaxCapturesPerTurn.
	CapturesAllowed int
}

// DetectMills finds the mills formed by the token just moved to vertex moved: only vertex sets
// that include the moved vertex are considered. The mover's color is the color at moved.
//
// formed is the set of mills formed earlier in the match: those are reported in All but not in New.
// It is not modified, it's up to the caller to add the ids of the report's mills to it.
func DetectMills(t *topology.Topology, occupancy []Color, moved topology.VertexID, formed generics.Set[MillID]) MillReport {
	var report MillReport
	if !t.Valid(moved) || occupancy[moved] == NoColor {
		return report
	}
	color := occupancy[moved]
	var others []topology.VertexID
	for ii, c := range occupancy {
		if c == color && topology.VertexID(ii) != moved {
			others = append(others, topology.VertexID(ii))
		}
	}

	// Triangles: both other vertices adjacent to moved and to each other.
	for pair := range generics.Combinations(others, 2) {
		if t.IsAdjacent(moved, pair[0]) && t.IsAdjacent(moved, pair[1]) && t.IsAdjacent(pair[0], pair[1]) {
			report.All = append(report.All, Triangle{moved, pair[0], pair[1]})
		}
	}

	// Squares: some cyclic ordering of the 4 vertices is a closed cycle.
	for triple := range generics.Combinations(others, 3) {
		if square, found := closedSquare(t, moved, triple); found {
			report.All = append(report.All, square)
		}
	}

	total := 0
	for _, m := range report.All {
		if formed.Has(NewMillID(t, m)) {
			continue
		}
		report.New = append(report.New, m)
		total += MillWeight(m)
	}
	report.CapturesAllowed = min(total, MaxCapturesPerTurn)
	return report
}

// squareOrderings are the 6 permutations of the 3 vertices following the first one of a cycle.
var squareOrderings = [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

// closedSquare checks whether the first vertex plus the other 3 can be ordered into a closed cycle
// of adjacent vertices, and returns the cycle.
func closedSquare(t *topology.Topology, first topology.VertexID, others []topology.VertexID) (Square, bool) {
	for _, order := range squareOrderings {
		square := Square{first, others[order[0]], others[order[1]], others[order[2]]}
		closed := true
		for ii := range square {
			if !t.IsAdjacent(square[ii], square[(ii+1)%4]) {
				closed = false
				break
			}
		}
		if closed {
			return square, true
		}
	}
	return Square{}, false
}

// EnumerateMills returns every triangle and square of the topology, whatever the occupancy:
// these are the shapes that can become mills. Triangles come first.
func EnumerateMills(t *topology.Topology) []Mill {
	var mills []Mill
	n := topology.VertexID(t.NumVertices())
	for a := range n {
		for _, b := range t.Neighbours(a) {
			if b <= a {
				continue
			}
			for _, c := range t.Neighbours(b) {
				if c > b && t.IsAdjacent(a, c) {
					mills = append(mills, Triangle{a, b, c})
				}
			}
		}
	}

	// Squares a-b-c-d with a the smallest vertex and b < d: each cycle is found exactly once.
	for a := range n {
		neighbours := t.Neighbours(a)
		for ii, b := range neighbours {
			for _, d := range neighbours[ii+1:] {
				if b <= a || d <= a {
					continue
				}
				for _, c := range t.Neighbours(b) {
					if c > a && c != d && t.IsAdjacent(c, d) {
						mills = append(mills, Square{a, b, c, d})
					}
				}
			}
		}
	}
	return mills
}
