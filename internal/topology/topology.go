// Package topology builds the board graph out of the geometric construction of the board:
// the corners of every polygon are merged into vertices, and two vertices are connected if the
// segment between them matches one of the signatures (length and direction) of the lines the
// construction actually draws.
//
// A Topology is built once and never changed afterwards, so it can be shared read-only among
// any number of boards and goroutines. If the layout changes (e.g. the construction is drawn at
// a different scale), a new Topology must be built: signatures are in absolute pixel units.
package topology

import (
	"fmt"
	"github.com/janpfeifer/hexMill/internal/geometry"
	"k8s.io/klog/v2"
)

const (
	// VertexTolerance is the maximum distance between two corner samples that are folded into
	// the same vertex.
	VertexTolerance = float32(5)

	// ClickTolerance is the maximum distance between a clicked point and the vertex it
	// resolves to.
	ClickTolerance = float32(10)
)

// VertexID is the index of a vertex in the Topology.
type VertexID int

// NoVertex is the null value of VertexID.
const NoVertex VertexID = -1

// Vertex of the board graph: a point where a token may be placed.
type Vertex struct {
	ID  VertexID
	Pos geometry.Point
}

// BuildVertices merges the given corner points into vertices.
//
// Points are considered in order, and the first sample of a cluster becomes the canonical
// vertex: any later point within tolerance of an existing vertex is folded into it.
// The returned vertices have IDs matching their index.
func BuildVertices(points []geometry.Point, tolerance float32) []Vertex {
	var vertices []Vertex
	for _, p := range points {
		found := false
		for _, v := range vertices {
			if v.Pos.Distance(p) <= tolerance {
				found = true
				break
			}
		}
		if !found {
			vertices = append(vertices, Vertex{ID: VertexID(len(vertices)), Pos: p})
		}
	}
	return vertices
}

// Signature of a drawn segment: its length range and the lattice of directions it lies on.
type Signature struct {
	Name string

	// MinLength and MaxLength (inclusive) of the segment.
	MinLength, MaxLength float32

	// AngleStep in degrees: the direction of the segment must be a multiple of AngleStep,
	// within AngleTolerance degrees.
	AngleStep, AngleTolerance float32
}

// Matches returns whether the segment from a to b matches the signature.
func (s Signature) Matches(a, b geometry.Point) bool {
	dist := a.Distance(b)
	if dist < s.MinLength || dist > s.MaxLength {
		return false
	}
	return geometry.LatticeOffset(a.Direction(b), s.AngleStep) <= s.AngleTolerance
}

// String implements fmt.Stringer.
func (s Signature) String() string {
	return fmt.Sprintf("%s[%.1f..%.1f, %g°±%g°]", s.Name, s.MinLength, s.MaxLength, s.AngleStep, s.AngleTolerance)
}

// Adjacent returns whether a and b are connected by a segment matching any of the signatures.
// A point is never adjacent to itself.
func Adjacent(signatures []Signature, a, b geometry.Point) bool {
	if a == b {
		return false
	}
	for _, s := range signatures {
		if s.Matches(a, b) {
			return true
		}
	}
	return false
}

// Topology is the immutable board graph.
type Topology struct {
	vertices   []Vertex
	adjacency  []bool // numVertices x numVertices.
	neighbours [][]VertexID
	numEdges   int
	regions    []Region
}

// New builds the Topology from the corner points of the construction, the signatures of the
// segments it draws and the specification of its hexagon regions.
func New(points []geometry.Point, signatures []Signature, regions []RegionSpec) *Topology {
	t := &Topology{
		vertices: BuildVertices(points, VertexTolerance),
	}
	n := len(t.vertices)
	t.adjacency = make([]bool, n*n)
	t.neighbours = make([][]VertexID, n)
	for ii := 0; ii < n; ii++ {
		for jj := ii + 1; jj < n; jj++ {
			if Adjacent(signatures, t.vertices[ii].Pos, t.vertices[jj].Pos) {
				t.adjacency[ii*n+jj] = true
				t.adjacency[jj*n+ii] = true
				t.neighbours[ii] = append(t.neighbours[ii], VertexID(jj))
				t.neighbours[jj] = append(t.neighbours[jj], VertexID(ii))
				t.numEdges++
			}
		}
	}
	t.regions = make([]Region, 0, len(regions))
	for _, spec := range regions {
		t.regions = append(t.regions, t.buildRegion(spec))
	}
	if klog.V(1).Enabled() {
		klog.Infof("Topology built: %d corner samples -> %d vertices, %d edges, %d regions (signatures %v)",
			len(points), n, t.numEdges, len(t.regions), signatures)
	}
	return t
}

// NumVertices in the board graph.
func (t *Topology) NumVertices() int {
	return len(t.vertices)
}

// NumEdges in the board graph.
func (t *Topology) NumEdges() int {
	return t.numEdges
}

// Vertices returns all vertices, indexed by their VertexID. The slice must not be modified.
func (t *Topology) Vertices() []Vertex {
	return t.vertices
}

// Pos returns the position of the vertex.
func (t *Topology) Pos(v VertexID) geometry.Point {
	return t.vertices[v].Pos
}

// Valid returns whether v is a vertex of the graph.
func (t *Topology) Valid(v VertexID) bool {
	return v >= 0 && int(v) < len(t.vertices)
}

// IsAdjacent returns whether vertices a and b are connected by a drawn segment.
// It is symmetric and never true for a == b. Invalid vertices are never adjacent.
func (t *Topology) IsAdjacent(a, b VertexID) bool {
	if !t.Valid(a) || !t.Valid(b) {
		return false
	}
	return t.adjacency[int(a)*len(t.vertices)+int(b)]
}

// Neighbours returns the vertices adjacent to v, in increasing order. The slice must not be modified.
func (t *Topology) Neighbours(v VertexID) []VertexID {
	return t.neighbours[v]
}

// Nearest returns the vertex closest to p, if it is within tolerance. This is how a click
// position is resolved to a vertex.
func (t *Topology) Nearest(p geometry.Point, tolerance float32) (VertexID, bool) {
	best := NoVertex
	bestDist := tolerance
	for _, v := range t.vertices {
		if dist := v.Pos.Distance(p); dist <= bestDist {
			best, bestDist = v.ID, dist
		}
	}
	return best, best != NoVertex
}

// Regions returns the hexagon regions with their member vertices resolved.
// The slice must not be modified.
func (t *Topology) Regions() []Region {
	return t.regions
}
