package cli

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/geometry"
	"github.com/janpfeifer/hexMill/internal/match"
	"github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/topology"
)

// Pixels covered by one character of the board drawing. Characters are about twice as tall as wide.
const (
	PixelsPerColumn = 5
	PixelsPerRow    = 11
)

// labelMargin are the extra columns on each side of the drawing, so labels of the border vertices fit.
const labelMargin = 4

// edgeStepsPerCell controls how densely the edges are dotted.
const edgeStepsPerCell = 2

// cellPos converts a pixel position to the (row, column) in the drawing.
func cellPos(p, origin geometry.Point) (row, col int) {
	row = int(math32.Floor((p.Y-origin.Y)/PixelsPerRow + 0.5))
	col = int(math32.Floor((p.X-origin.X)/PixelsPerColumn+0.5)) + labelMargin
	return
}

// RenderBoard draws the snapshot's vertices and edges into a block of text. Empty vertices show their
// id, tokens their id on the player's color (or prefixed by "R" or "B" without colors). Vertices of the
// mills just formed are marked with "*" (underlined with colors), and the selected token with ">"
// (reversed with colors).
func (ui *UI) RenderBoard(s match.Snapshot) string {
	if len(s.Vertices) == 0 {
		return ""
	}
	origin, maxP := s.Vertices[0], s.Vertices[0]
	for _, p := range s.Vertices {
		origin.X, origin.Y = min(origin.X, p.X), min(origin.Y, p.Y)
		maxP.X, maxP.Y = max(maxP.X, p.X), max(maxP.Y, p.Y)
	}
	lastRow, lastCol := cellPos(maxP, origin)
	cells := make([][]string, lastRow+1)
	for row := range cells {
		cells[row] = make([]string, lastCol+labelMargin+1)
		for col := range cells[row] {
			cells[row][col] = " "
		}
	}

	// Edges are dotted lines.
	for _, edge := range s.Edges {
		a, b := s.Vertices[edge[0]], s.Vertices[edge[1]]
		rowA, colA := cellPos(a, origin)
		rowB, colB := cellPos(b, origin)
		steps := edgeStepsPerCell * max(abs(rowB-rowA), abs(colB-colA), 1)
		for step := 1; step < steps; step++ {
			row, col := cellPos(a.Add(b.Sub(a).Scale(float32(step)/float32(steps))), origin)
			if cells[row][col] == " " {
				cells[row][col] = "."
			}
		}
	}

	// Labels are written over the edges, centered on the vertex.
	highlight := generics.SetWith(s.Highlight...)
	for id, p := range s.Vertices {
		v := topology.VertexID(id)
		plain, styled := ui.vertexLabel(v, s.Occupancy[v], highlight.Has(v), v == s.Selected)
		row, col := cellPos(p, origin)
		start := max(0, col-len(plain)/2)
		start = min(start, len(cells[row])-len(plain))
		cells[row][start] = styled
		for ii := 1; ii < len(plain); ii++ {
			cells[row][start+ii] = ""
		}
	}

	lines := make([]string, len(cells))
	for row, rowCells := range cells {
		lines[row] = strings.TrimRight(strings.Join(rowCells, ""), " ")
	}
	return strings.Join(lines, "\n")
}

// vertexLabel returns the plain label of a vertex (used for the layout) and its styled version.
func (ui *UI) vertexLabel(v topology.VertexID, c state.Color, highlighted, selected bool) (plain, styled string) {
	plain = strconv.Itoa(int(v))
	if !ui.color {
		switch c {
		case state.Red:
			plain = "R" + plain
		case state.Blue:
			plain = "B" + plain
		}
		if highlighted {
			plain += "*"
		}
		if selected {
			plain = ">" + plain
		}
		return plain, plain
	}
	var sb strings.Builder
	if player := c.Player(); player != state.PlayerInvalid {
		sb.WriteString(ui.colorStart(player))
	} else {
		sb.WriteString(emptyVertexColor)
	}
	if highlighted {
		sb.WriteString(underlineStart)
	}
	if selected {
		sb.WriteString(reverseStart)
	}
	sb.WriteString(plain)
	sb.WriteString(ui.colorEnd())
	return plain, sb.String()
}

// ANSI escape sequences used for the vertex labels.
const (
	emptyVertexColor = "\033[90m"
	underlineStart   = "\033[4m"
	reverseStart     = "\033[7m"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
