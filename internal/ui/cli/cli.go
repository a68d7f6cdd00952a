// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/hexMill/internal/match"
	"github.com/janpfeifer/hexMill/internal/profilers"
	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/janpfeifer/hexMill/internal/ui/spinning"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

// Agent plays automatically for one of the sides. It is implemented by players.Player.
type Agent interface {
	Play(board *Board) (action Action, nextBoard *Board, score float32, actionsScores []float32)
}

// UI is the terminal front-end: it renders match snapshots and turns typed commands into clicks.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer

	// width of the terminal, 0 if unknown.
	width int

	// spinner is displayed while an Agent is thinking.
	spinner bool
}

var errParsing = errors.New("failed to read command 3 times")

// New creates a UI reading from stdin and writing to stdout.
func New(color bool, clearScreen bool) *UI {
	ui := NewWithIO(os.Stdin, os.Stdout, color)
	ui.clearScreen = clearScreen
	if term.IsTerminal(int(os.Stdout.Fd())) {
		ui.width, _, _ = term.GetSize(int(os.Stdout.Fd()))
		ui.spinner = true
	}
	return ui
}

// NewWithIO creates a UI with the given input and output, with no terminal features.
func NewWithIO(in io.Reader, out io.Writer, color bool) *UI {
	return &UI{
		color:  color,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max(0, (ui.width-blockWidth)/2)
	for _, line := range lines {
		if len(line) == 0 {
			ui.printf("\n")
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// Run plays the match until it is finished (or the user quits), asking for the human players'
// commands and calling the agents for the other ones. A nil agent means a human player.
//
// When the match is over, if there are human players, they are offered to reset it.
func (ui *UI) Run(ctx context.Context, m match.Match, agents [NumPlayers]Agent) (match.Match, error) {
	hasHuman := agents[PlayerFirst] == nil || agents[PlayerSecond] == nil
	for {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		board := m.Board
		if board.IsFinished() {
			ui.Print(m)
			ui.PrintWinner(board)
			if !hasHuman {
				return m, nil
			}
			ui.printf("Type \"reset\" for a new match or \"quit\" to leave.\n")
		} else if agent := agents[board.NextPlayer]; agent != nil {
			if !hasHuman {
				ui.Print(m)
			}
			var err error
			m, err = ui.playAgent(ctx, m, agent)
			if err != nil {
				return m, err
			}
			continue
		} else {
			ui.Print(m)
		}

		cmd, err := ui.ReadCommand(board)
		if errors.Is(err, errParsing) {
			continue
		}
		if err != nil {
			return m, err
		}
		switch cmd.Kind {
		case CmdQuit:
			return m, nil
		case CmdReset:
			m = m.Reset()
		case CmdHelp:
			ui.printf("%s\n", HelpText)
		case CmdClick:
			m, _ = m.Click(cmd.Vertex)
		case CmdClickAt:
			m, _ = m.ClickAt(cmd.Point)
		}
	}
}

// playAgent asks the agent for the action of the next player and plays it.
func (ui *UI) playAgent(ctx context.Context, m match.Match, agent Agent) (match.Match, error) {
	player := m.Board.NextPlayer
	var spinner *spinning.Spinner
	if ui.spinner {
		ui.printf("%s thinking ", ui.playerName(player))
		theme := spinning.ThemeASCII
		if ui.color {
			theme = spinning.ThemeClock
		}
		spinner = spinning.New(ctx, ui.out, theme)
	}
	var action Action
	var score float32
	profilers.Labeled(ctx, func(context.Context) {
		action, _, score, _ = agent.Play(m.Board)
	}, "player", player.String())
	if spinner != nil {
		spinner.Done()
		ui.printf("\n")
	}
	next, err := m.Play(action)
	if err != nil {
		return m, errors.WithMessagef(err, "%s agent played an invalid action", player)
	}
	klog.V(1).Infof("Move #%d: %s plays %s (score %.3f)", m.Board.MoveNumber, player, action, score)
	return next, nil
}

// ReadCommand reads and parses one command, trying again up to 3 times on parsing errors.
func (ui *UI) ReadCommand(b *Board) (cmd Command, err error) {
	for numErrs := 0; numErrs < 3; numErrs++ {
		ui.printf("    %s > ", ui.playerName(b.NextPlayer))
		var text string
		text, err = ui.reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
			return
		}
		cmd, err = ParseCommand(text)
		if err == nil {
			return
		}
		ui.printf("    * %s\n", err)
	}
	err = errParsing
	return
}

// Print the match: move number, board, tokens and the advisory message.
func (ui *UI) Print(m match.Match) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	s := m.Snapshot()
	ui.printf("\n%s\n\n", ui.headerStyle().Render(fmt.Sprintf("Move #%d - %s", m.Board.MoveNumber, s.Phase)))
	ui.printCentered(ui.RenderBoard(s))
	ui.printf("\n")
	ui.PrintTokens(m.Board)
	if s.Message != "" {
		ui.printf("\n  %s\n", s.Message)
	}
}

// PrintBoard prints only the board drawing.
func (ui *UI) PrintBoard(board *Board) {
	ui.printCentered(ui.RenderBoard(match.Match{Board: board, Selected: topology.NoVertex}.Snapshot()))
}

// PrintPlayer prints the name of the next player to play, in the player's color.
func (ui *UI) PrintPlayer(board *Board) {
	ui.printf("%s", ui.playerName(board.NextPlayer))
}

// PrintTokens prints for each player the number of tokens on board and still to place.
func (ui *UI) PrintTokens(board *Board) {
	for _, player := range []PlayerNum{PlayerFirst, PlayerSecond} {
		numTokens := 0
		if board.Derived != nil {
			numTokens = board.Derived.NumTokens[player]
		}
		space := ""
		if player == PlayerFirst {
			space = " "
		}
		ui.printf("%s%s: %d on board, %d to place\n", space, ui.playerName(player), numTokens, board.ToPlace(player))
	}
}

// PrintWinner prints the result of a finished match.
func (ui *UI) PrintWinner(b *Board) {
	winner := b.Winner()
	ui.printf("\n")
	style := lipgloss.NewStyle().Padding(1, 2)
	if ui.color {
		style = style.Foreground(lipgloss.Color("0"))
		if winner == PlayerInvalid {
			style = style.Background(lipgloss.Color("13"))
		} else {
			style = style.Background(lipgloss.Color(playerBackground[winner]))
		}
	}
	if winner == PlayerInvalid {
		ui.printCentered(style.Render(fmt.Sprintf("*** DRAW: %s! ***", b.FinishReason())))
	} else {
		ui.printCentered(style.Render(fmt.Sprintf("*** %s PLAYER WINS!! Congratulations! ***\n%s",
			strings.ToUpper(winner.String()), b.FinishReason())))
	}
	ui.printf("\n")
}

// playerBackground holds the ANSI color number of each player.
var playerBackground = [NumPlayers]string{"1", "4"}

func (ui *UI) headerStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	if ui.color {
		style = style.Bold(true).Foreground(lipgloss.Color("7"))
	}
	return style
}

func (ui *UI) playerName(player PlayerNum) string {
	return fmt.Sprintf("%s%s Player%s", ui.colorStart(player), player, ui.colorEnd())
}

func (ui *UI) colorStart(player PlayerNum) string {
	if !ui.color {
		return ""
	}
	return fmt.Sprintf("\033[97;4%s;1m", playerBackground[player])
}

func (ui *UI) colorEnd() string {
	if !ui.color {
		return ""
	}
	return "\033[39;49;0m"
}
