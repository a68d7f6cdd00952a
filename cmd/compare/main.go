// compare plays AI against AI in parallel matches, alternating who starts, and reports the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/hexMill/internal/match"
	"github.com/janpfeifer/hexMill/internal/players"
	_ "github.com/janpfeifer/hexMill/internal/players/default"
	"github.com/janpfeifer/hexMill/internal/profilers"
	"github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/tiling"
	"github.com/janpfeifer/hexMill/internal/topology"
	"github.com/janpfeifer/hexMill/internal/ui/cli"
	"github.com/janpfeifer/hexMill/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagPlayer1Config = flag.String("ai1", "", "1st player configuration.")
	flagPlayer2Config = flag.String("ai2", "", "2nd player configuration.")
	flagNumMatches    = flag.Int("num_matches", 100, "Number of matches to play.")
	flagParallelism   = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print board at each step. "+
		"Very verbose, and you probably want to set flagParallelism to 1.")
	flagRules = flag.String("rules", "", "Rules configuration, e.g. \"capture=remove,max_moves=200\". "+
		"It starts from the competition rules, with draws by number of moves and repeated positions.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagPlayer1Config == "" || *flagPlayer2Config == "" {
		klog.Fatal("You must configure both players to compare with flags -ai1 and -ai2")
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 5*time.Second)
	defer cancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(ctx)
	defer profilers.OnQuit()

	rules := must.M1(state.ParseRulesWith(state.CompetitionRules(), *flagRules))
	configs := [2]string{*flagPlayer1Config, *flagPlayer2Config}
	// Fail early on bad configurations.
	for aiIdx, config := range configs {
		p, err := players.New(0, "check", state.PlayerNum(aiIdx), config)
		must.M(errors.WithMessagef(err, "AI-%d", aiIdx+1))
		p.Finalize()
	}
	must.M(runMatches(ctx, tiling.Default().Build(), rules, configs))
}

// Results of the matches played so far.
type Results struct {
	mu                   sync.Mutex
	start                time.Time
	winsAs1st, winsAs2nd [2]int
	draws                [2]int
	played, total        int
}

func (r *Results) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", r.played, r.total))
	for aiIdx := range 2 {
		parts = append(parts,
			fmt.Sprintf("AI-%d: %d Wins (1st: %d, 2nd: %d) / ",
				aiIdx+1, r.winsAs1st[aiIdx]+r.winsAs2nd[aiIdx],
				r.winsAs1st[aiIdx], r.winsAs2nd[aiIdx]))
	}
	parts = append(parts, fmt.Sprintf("%d draws (%d AI-1 as 1st, %d AI-2 as 1st) - ",
		r.draws[0]+r.draws[1], r.draws[0], r.draws[1]))
	parts = append(parts, time.Since(r.start).Round(time.Second).String())
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

// record the result of a match: winnerAI is the index of the AI that won, -1 for a draw.
func (r *Results) record(firstAI, winnerAI int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case winnerAI < 0:
		r.draws[firstAI]++
	case winnerAI == firstAI:
		r.winsAs1st[winnerAI]++
	default:
		r.winsAs2nd[winnerAI]++
	}
	r.played++
	fmt.Printf("\r%s", r)
}

func runMatches(ctx context.Context, topo *topology.Topology, rules state.Rules, configs [2]string) error {
	r := &Results{
		start: time.Now(),
		total: *flagNumMatches,
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for matchIdx := range r.total {
		g.Go(func() error {
			// AIs swap sides every other match.
			firstAI := matchIdx % 2
			var winner state.PlayerNum
			var err error
			profilers.Labeled(gCtx, func(ctx context.Context) {
				winner, err = runMatch(ctx, uint64(matchIdx), topo, rules,
					[2]string{configs[firstAI], configs[1-firstAI]})
			}, "match", nameOfMatch(uint64(matchIdx)), "first_ai", fmt.Sprintf("AI-%d", firstAI+1))
			if err != nil || gCtx.Err() != nil {
				return err
			}
			winnerAI := -1
			if winner != state.PlayerInvalid {
				winnerAI = int(winner)
				if firstAI == 1 {
					winnerAI = 1 - winnerAI
				}
			}
			r.record(firstAI, winnerAI)
			return nil
		})
	}
	err := g.Wait()
	fmt.Printf("\r%s\n", r)
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

var (
	stepUI   = cli.New(true, false)
	muStepUI sync.Mutex
)

// runMatch plays one match, with fresh players, and returns the winner.
func runMatch(ctx context.Context, matchId uint64, topo *topology.Topology, rules state.Rules, configs [2]string) (
	winner state.PlayerNum, err error) {
	matchName := nameOfMatch(matchId)
	var aiPlayers [2]players.Player
	for playerNum, config := range configs {
		aiPlayers[playerNum], err = players.New(matchId, matchName, state.PlayerNum(playerNum), config)
		if err != nil {
			return state.PlayerInvalid, err
		}
		defer aiPlayers[playerNum].Finalize()
	}
	if klog.V(1).Enabled() {
		klog.Infof("Starting %s", matchName)
		defer klog.Infof("Finished %s", matchName)
	}

	m := match.New(topo, rules)
	for !m.Board.IsFinished() {
		if ctx.Err() != nil {
			klog.V(1).Infof("%s interrupted: %s", matchName, ctx.Err())
			return state.PlayerInvalid, nil
		}
		board := m.Board
		if klog.V(2).Enabled() {
			klog.Infof("%s: %s at turn %d (#valid actions=%d)",
				matchName, board.NextPlayer, board.MoveNumber, board.NumActions())
		}
		var action state.Action
		var score float32
		profilers.Labeled(ctx, func(context.Context) {
			action, _, score, _ = aiPlayers[board.NextPlayer].Play(board)
		}, "player", board.NextPlayer.String())
		m, err = m.Play(action)
		if err != nil {
			return state.PlayerInvalid, errors.WithMessagef(err, "%s: %s played an invalid action", matchName, board.NextPlayer)
		}
		if *flagPrintSteps {
			muStepUI.Lock()
			fmt.Printf("%s, move #%d: %s played %s (score=%.3f)\n\n", matchName, board.MoveNumber, board.NextPlayer, action, score)
			stepUI.PrintBoard(m.Board)
			fmt.Println()
			fmt.Println("------------------")
			muStepUI.Unlock()
		}
	}
	klog.V(1).Infof("%s: %s", matchName, m.Board.FinishReason())
	return m.Board.Winner(), nil
}

func nameOfMatch(matchId uint64) string {
	return fmt.Sprintf("Match-%05d", matchId)
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
