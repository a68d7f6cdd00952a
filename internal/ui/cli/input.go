package cli

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/janpfeifer/hexMill/internal/geometry"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/pkg/errors"
)

// CommandKind enumerates the commands a user can type.
type CommandKind uint8

const (
	// CmdClick clicks on a vertex given by its id.
	CmdClick CommandKind = iota

	// CmdClickAt clicks at a pixel position, resolved to the nearest vertex.
	CmdClickAt

	// CmdReset starts a new match.
	CmdReset

	// CmdQuit leaves the program.
	CmdQuit

	// CmdHelp prints the available commands.
	CmdHelp
)

// Command parsed from the user input.
type Command struct {
	Kind   CommandKind
	Vertex topology.VertexID
	Point  geometry.Point
}

var (
	vertexParser = regexp.MustCompile(`^\d+$`)
	pointParser  = regexp.MustCompile(`^@\s*(-?\d+(?:\.\d*)?)\s*[,\s]\s*(-?\d+(?:\.\d*)?)$`)
)

// HelpText describes the commands accepted by ParseCommand.
const HelpText = `Commands:
  <id>       click on the vertex with the given id, e.g. "17"
  @<x>,<y>   click at the given pixel coordinates, e.g. "@120,-40"
  r, reset   start a new match
  q, quit    leave the game
  h, help    this help`

// ParseCommand parses one line of user input. It doesn't validate the vertex against the board.
func ParseCommand(text string) (cmd Command, err error) {
	text = strings.ToLower(strings.TrimSpace(text))
	cmd.Vertex = topology.NoVertex
	switch text {
	case "":
		return cmd, errors.New("empty command")
	case "q", "quit", "exit":
		cmd.Kind = CmdQuit
		return
	case "r", "reset":
		cmd.Kind = CmdReset
		return
	case "h", "help", "?":
		cmd.Kind = CmdHelp
		return
	}
	if vertexParser.MatchString(text) {
		var id int
		id, err = strconv.Atoi(text)
		if err != nil {
			return cmd, errors.Wrapf(err, "invalid vertex id %q", text)
		}
		cmd.Kind = CmdClick
		cmd.Vertex = topology.VertexID(id)
		return
	}
	if matches := pointParser.FindStringSubmatch(text); len(matches) == 3 {
		var coords [2]float64
		for ii := range coords {
			coords[ii], err = strconv.ParseFloat(matches[1+ii], 32)
			if err != nil {
				return cmd, errors.Wrapf(err, "invalid coordinate %q", matches[1+ii])
			}
		}
		cmd.Kind = CmdClickAt
		cmd.Point = geometry.Pt(float32(coords[0]), float32(coords[1]))
		return
	}
	return cmd, errors.Errorf("failed to parse %q, type \"help\" for the list of commands", text)
}
