package state

import (
	"fmt"
	"strings"

	"github.com/janpfeifer/hexMill/internal/parameters"
	"github.com/pkg/errors"
)

// CaptureMode defines what happens to an opponent token captured after a mill is formed.
type CaptureMode uint8

const (
	// CaptureRelocate moves the captured token to an empty vertex chosen by the capturing player:
	// the number of tokens on the board never changes.
	CaptureRelocate CaptureMode = iota

	// CaptureRemove takes the captured token out of the board.
	CaptureRemove
)

// String implements fmt.Stringer.
func (m CaptureMode) String() string {
	switch m {
	case CaptureRelocate:
		return "relocate"
	case CaptureRemove:
		return "remove"
	}
	return fmt.Sprintf("CaptureMode(%d)", m)
}

const (
	// DefaultTokensPerPlayer placed by each player during the placement phase.
	DefaultTokensPerPlayer = 15

	// CompetitionMaxMoves after which an AI vs AI match is a draw.
	CompetitionMaxMoves = 300

	// CompetitionMaxRepeats of a position after which an AI vs AI match is a draw.
	CompetitionMaxRepeats = 3
)

// Rules of a match. Use DefaultRules, CompetitionRules or ParseRules to create them.
type Rules struct {
	// TokensPerPlayer placed during the placement phase.
	TokensPerPlayer int

	// Capture mode: relocate (the default) or remove.
	Capture CaptureMode

	// MaxMoves after which the match is a draw. If <= 0 there is no limit.
	MaxMoves int

	// MaxRepeats of the same position (during the movement phase) after which the match is a draw.
	// If <= 0 repeated positions are allowed.
	MaxRepeats int
}

// DefaultRules are the rules of interactive play: a match only ends when a player wins.
func DefaultRules() Rules {
	return Rules{
		TokensPerPlayer: DefaultTokensPerPlayer,
		Capture:         CaptureRelocate,
	}
}

// CompetitionRules are DefaultRules plus the draw limits, so matches between AIs always end.
func CompetitionRules() Rules {
	rules := DefaultRules()
	rules.MaxMoves = CompetitionMaxMoves
	rules.MaxRepeats = CompetitionMaxRepeats
	return rules
}

// ParseRules parses the rules from a configuration string like "capture=remove,tokens=12,max_moves=200".
// Keys not given take the value of DefaultRules. Unknown keys return an error.
// See ParseRulesWith to start from other rules.
//
// Keys:
//
//   - tokens: number of tokens per player.
//   - capture: "relocate" or "remove".
//   - max_moves: moves after which the match is a draw, 0 for no limit.
//   - max_repeats: repeated positions after which the match is a draw, 0 to disable.
func ParseRules(config string) (rules Rules, err error) {
	return ParseRulesWith(DefaultRules(), config)
}

// ParseRulesWith is like ParseRules, but keys not given take the value of base.
func ParseRulesWith(base Rules, config string) (rules Rules, err error) {
	rules = base
	params := parameters.NewFromConfigString(config)
	if rules.TokensPerPlayer, err = parameters.PopParamOr(params, "tokens", rules.TokensPerPlayer); err != nil {
		return
	}
	if rules.TokensPerPlayer <= 0 {
		err = errors.Errorf("rules: tokens=%d must be positive", rules.TokensPerPlayer)
		return
	}
	var capture string
	if capture, err = parameters.PopParamOr(params, "capture", rules.Capture.String()); err != nil {
		return
	}
	switch strings.ToLower(capture) {
	case "relocate":
		rules.Capture = CaptureRelocate
	case "remove":
		rules.Capture = CaptureRemove
	default:
		err = errors.Errorf("rules: unknown capture mode %q, valid values are \"relocate\" or \"remove\"", capture)
		return
	}
	if rules.MaxMoves, err = parameters.PopParamOr(params, "max_moves", rules.MaxMoves); err != nil {
		return
	}
	if rules.MaxRepeats, err = parameters.PopParamOr(params, "max_repeats", rules.MaxRepeats); err != nil {
		return
	}
	if len(params) != 0 {
		err = errors.Errorf("rules: unknown parameters %v in configuration %q", params, config)
	}
	return
}

// String implements fmt.Stringer, in the format accepted by ParseRules.
func (r Rules) String() string {
	return fmt.Sprintf("tokens=%d,capture=%s,max_moves=%d,max_repeats=%d",
		r.TokensPerPlayer, r.Capture, r.MaxMoves, r.MaxRepeats)
}
