// Package mode implements the objective state machines that drive a match
// round by round: the shared round mechanics and one variant per game mode.
package mode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/dice"
)

var (
	// ErrUnknownMode is returned for a mode identifier that names no game mode.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrUnsupportedMode is returned for a recognized mode that cannot be played 1v1.
	ErrUnsupportedMode = errors.New("unsupported game mode")
)

// Kind enumerates the playable objective modes.
type Kind int

const (
	KindCollection Kind = iota + 1
	KindElimination
)

// String returns the canonical mode identifier.
func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "gemgrab"
	case KindElimination:
		return "showdown"
	default:
		return "unknown"
	}
}

var kindAliases = map[string]Kind{
	"gemgrab":     KindCollection,
	"gem grab":    KindCollection,
	"collection":  KindCollection,
	"showdown":    KindElimination,
	"elimination": KindElimination,
}

var unsupported = map[string]bool{
	"brawlball": true,
	"heist":     true,
	"bounty":    true,
	"siege":     true,
	"hotzone":   true,
}

// ParseKind resolves a case-insensitive mode identifier.
//
// Postcondition: errors wrap ErrUnsupportedMode or ErrUnknownMode.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	if unsupported[key] {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, name)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Mode is a playable objective state machine.
type Mode interface {
	Kind() Kind
	// Run plays rounds on a from a.Round until an outcome is reached, the
	// round limit passes, or d fails.
	Run(ctx context.Context, a *Arena, d combat.Decider) (combat.Outcome, error)
	// Resources returns each side's objective resource count.
	Resources() [2]int
}

var (
	_ Mode = (*Collection)(nil)
	_ Mode = (*Elimination)(nil)
)

// New builds the mode named name.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns an error wrapping ErrUnknownMode or ErrUnsupportedMode
// for unplayable names, or the rules validation error.
func New(name string, rules Rules, roller *dice.Roller, logger *zap.Logger) (Mode, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	l := loop{rules: rules, logger: logger.With(zap.String("mode", kind.String()))}
	switch kind {
	case KindCollection:
		c := &Collection{roller: roller}
		c.loop = l
		c.loop.obj = c
		return c, nil
	default:
		e := &Elimination{roller: roller}
		e.loop = l
		e.loop.obj = e
		return e, nil
	}
}
