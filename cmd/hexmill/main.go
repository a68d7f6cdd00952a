// hexmill plays the game in the terminal: human vs AI (default), human vs human (-hotseat) or
// AI vs AI (-watch).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/janpfeifer/hexMill/internal/match"
	"github.com/janpfeifer/hexMill/internal/players"
	_ "github.com/janpfeifer/hexMill/internal/players/default"
	"github.com/janpfeifer/hexMill/internal/profilers"
	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/janpfeifer/hexMill/internal/tiling"
	"github.com/janpfeifer/hexMill/internal/ui/cli"
	"github.com/janpfeifer/hexMill/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagHotseat   = flag.Bool("hotseat", false, "Hotseat match: human vs human")
	flagWatch     = flag.Bool("watch", false, "Watch mode: AI vs AI playing")
	flagFirst     = flag.String("first", "", "Who plays first: human or ai. Default is random.")
	flagAIConfig  = flag.String("config", "", "AI configuration against which to play, e.g. \"heuristic:ab,max_depth=2\".")
	flagAIConfig2 = flag.String("config2", "", "Second AI configuration, if playing AI vs AI with --watch")
	flagRules     = flag.String("rules", "",
		"Rules configuration, e.g. \"capture=remove,tokens=15,max_moves=300,max_repeats=3\". "+
			"Draws are disabled by default, except in --watch mode.")
	flagScale = flag.Float64("scale", 1, "Scale of the board construction, the pixel coordinates accepted by \"@x,y\" scale with it.")
	flagColor = flag.Bool("color", true, "Use colors in the terminal.")
	flagClear = flag.Bool("clear", false, "Clear the screen before printing the board.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagScale <= 0 {
		klog.Fatalf("Invalid --scale=%g", *flagScale)
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	profilers.Setup(ctx)
	defer profilers.OnQuit()

	// AIs playing each other could go on forever, so watch mode uses the draw limits.
	baseRules := DefaultRules()
	if *flagWatch {
		baseRules = CompetitionRules()
	}
	rules := must.M1(ParseRulesWith(baseRules, *flagRules))
	topo := tiling.Default().Scaled(float32(*flagScale)).Build()
	aiPlayers := must.M1(createPlayers())
	defer func() {
		for _, p := range aiPlayers {
			if p != nil {
				p.Finalize()
			}
		}
	}()

	var agents [NumPlayers]cli.Agent
	for playerNum, p := range aiPlayers {
		if p != nil {
			agents[playerNum] = p
		}
	}
	ui := cli.New(*flagColor, *flagClear)
	if !*flagWatch {
		klog.V(1).Infof("Rules: %s", rules)
		fmt.Println(cli.HelpText)
	}
	_, err := ui.Run(ctx, match.New(topo, rules), agents)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		klog.Exitf("Failed to run match: %+v", err)
	}
}

// createPlayers returns the AI players, nil for human players.
func createPlayers() (aiPlayers [NumPlayers]players.Player, err error) {
	if *flagHotseat && *flagWatch {
		return aiPlayers, errors.New("--hotseat and --watch cannot be used together")
	}
	if *flagHotseat {
		// Both players are human, nothing to do.
		return
	}

	var aiPlayerNum PlayerNum
	switch strings.ToLower(*flagFirst) {
	case "human":
		aiPlayerNum = PlayerSecond
	case "ai":
		aiPlayerNum = PlayerFirst
	case "":
		aiPlayerNum = PlayerNum(rand.IntN(NumPlayers))
	default:
		return aiPlayers, errors.Errorf("invalid --first=%q, only valid values are \"human\" or \"ai\"", *flagFirst)
	}
	if *flagWatch {
		aiPlayerNum = PlayerFirst
	}
	const matchName = "The Match"
	aiPlayers[aiPlayerNum], err = players.New(0, matchName, aiPlayerNum, *flagAIConfig)
	if err != nil || !*flagWatch {
		return
	}
	otherPlayerNum := aiPlayerNum.Opponent()
	aiPlayers[otherPlayerNum], err = players.New(0, matchName, otherPlayerNum, *flagAIConfig2)
	return
}
