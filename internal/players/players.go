// Package players provides a factory of AI players from configuration strings.
// It also allows player providers to register themselves.
package players

import (
	"slices"
	"strings"

	"github.com/janpfeifer/hexMill/internal/generics"
	"github.com/janpfeifer/hexMill/internal/parameters"
	. "github.com/janpfeifer/hexMill/internal/state"
	"github.com/pkg/errors"
)

// Player is anything that is able to play the game.
type Player interface {
	// Play returns the action chosen, the next board position (after the action is taken)
	// and optionally the current board scores predicted.
	Play(board *Board) (action Action, nextBoard *Board, score float32, actionsScores []float32)

	// Finalize is called at the end of a match.
	Finalize()
}

// Module must implement NewPlayer called at the start of a match.
// matchId is unique among matches, but the Module.NewPlayer may be called twice for the same matchId,
// for different players, when the AI plays against itself.
// matchName is used for logging and debugging.
//
// NewPlayer must consume the params it uses, and fail if any is left unused.
type Module interface {
	NewPlayer(matchId uint64, matchName string, playerNum PlayerNum, params parameters.Params) (Player, error)
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]Module)
)

// RegisterModule so it can be used by any of the front-ends to play.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = module
}

// Modules returns the names of the registered modules, sorted.
func Modules() []string {
	return slices.Collect(generics.SortedKeys(keywordToModules))
}

var (
	// DefaultPlayerConfig is used if no configuration was given to the AI. The value may be changed by the
	// UI built.
	DefaultPlayerConfig = "heuristic:ab,max_depth=2"
)

// New creates a new AI player given the configuration string.
//
// Args:
//
//	config: the AI name followed by a colon (":"), followed by a comma-separated list of optional parameters with optional values associated.
//		If empty, the default is given by DefaultPlayerConfig (usually "heuristic:ab,max_depth=2", if not changed by the program).
//
// More details on the config are dependent on the module used.
func New(matchId uint64, matchName string, playerNum PlayerNum, config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}

	// Find moduleName.
	moduleName := config
	config = ""
	if moduleSplit := strings.Index(moduleName, ":"); moduleSplit != -1 {
		moduleName, config = moduleName[:moduleSplit], moduleName[moduleSplit+1:]
	}
	module, ok := keywordToModules[moduleName]
	if !ok {
		if len(keywordToModules) == 0 {
			return nil, errors.Errorf("unknown AI player %q: no modules registered, perhaps you need to import "+
				"_ \"github.com/janpfeifer/hexMill/internal/players/default\" to your binary ?", moduleName)
		}
		return nil, errors.Errorf("unknown AI player %q, registered players are: %q", moduleName, Modules())
	}

	params := parameters.NewFromConfigString(config)
	player, err := module.NewPlayer(matchId, matchName, playerNum, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create AI player %q", moduleName)
	}
	return player, nil
}
