// Package match runs one complete 1v1 match: it builds both combatants from
// their capability and level, delegates to the objective mode and reports the
// final state.
package match

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/game/class"
	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/dice"
	"github.com/cory-johannsen/brawl/internal/game/mode"
)

var (
	// ErrInvalidEntrant is returned when an entrant cannot take part in a match.
	ErrInvalidEntrant = errors.New("invalid entrant")
	// ErrConsumed is returned when Run is called on a match that already ran.
	ErrConsumed = errors.New("match already run")
)

// Entrant is one side of a match before it starts.
type Entrant struct {
	ID    combat.ID
	Class class.Capability
	Level int
}

func (e Entrant) validate() error {
	if e.Class == nil {
		return fmt.Errorf("%w: combatant %s has no class", ErrInvalidEntrant, e.ID)
	}
	if e.Level < 1 || e.Level > class.MaxLevel {
		return fmt.Errorf("%w: combatant %s level %d outside [1, %d]", ErrInvalidEntrant, e.ID, e.Level, class.MaxLevel)
	}
	return nil
}

// Config selects the objective mode and its collaborators.
type Config struct {
	// Mode is a mode identifier accepted by mode.ParseKind.
	Mode  string
	Rules mode.Rules
	// Source drives the random decision points. Nil selects a crypto source.
	Source dice.Source
	Logger *zap.Logger
}

// Result is the final state of a completed match.
type Result struct {
	MatchID    uuid.UUID
	Mode       mode.Kind
	Outcome    combat.Outcome
	Rounds     int
	Combatants [2]combat.Combatant
	// Resources holds gems or power-ups per side, depending on Mode.
	Resources [2]int
	StartedAt time.Time
	EndedAt   time.Time
}

// Match is a single-shot match between two entrants.
type Match struct {
	id      uuid.UUID
	mode    mode.Mode
	arena   *mode.Arena
	decider combat.Decider
	logger  *zap.Logger
	ran     atomic.Bool
}

// New validates the entrants and mode and prepares a match.
//
// Precondition: d must be non-nil.
// Postcondition: Returns an error wrapping ErrInvalidEntrant,
// mode.ErrUnknownMode or mode.ErrUnsupportedMode before any round is played.
func New(cfg Config, a, b Entrant, d combat.Decider) (*Match, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if a.ID == b.ID {
		return nil, fmt.Errorf("%w: both entrants use id %s", ErrInvalidEntrant, a.ID)
	}
	if d == nil {
		return nil, errors.New("match: decider must not be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := cfg.Source
	if src == nil {
		src = dice.NewCryptoSource()
	}

	id := uuid.New()
	logger = logger.With(zap.String("match_id", id.String()))
	m, err := mode.New(cfg.Mode, cfg.Rules, dice.NewLoggedRoller(src, logger), logger)
	if err != nil {
		return nil, err
	}

	return &Match{
		id:      id,
		mode:    m,
		arena:   mode.NewArena(combat.NewCombatant(a.ID, a.Class, a.Level), combat.NewCombatant(b.ID, b.Class, b.Level)),
		decider: d,
		logger:  logger,
	}, nil
}

// ID returns the match identifier.
func (m *Match) ID() uuid.UUID { return m.id }

// Run plays the match to completion.
//
// Postcondition: Returns a Result or the propagated decider error, never
// both. A second call returns ErrConsumed.
func (m *Match) Run(ctx context.Context) (*Result, error) {
	if !m.ran.CompareAndSwap(false, true) {
		return nil, ErrConsumed
	}

	kind := m.mode.Kind()
	sides := m.arena.Combatants()
	m.logger.Info("match started",
		zap.Stringer("mode", kind),
		zap.Stringer("side_a", sides[0].ID),
		zap.String("class_a", sides[0].Name()),
		zap.Stringer("side_b", sides[1].ID),
		zap.String("class_b", sides[1].Name()),
	)

	started := time.Now()
	outcome, err := m.mode.Run(ctx, m.arena, m.decider)
	if err != nil {
		m.logger.Warn("match failed", zap.Int("round", m.arena.Round), zap.Error(err))
		return nil, fmt.Errorf("match %s: %w", m.id, err)
	}

	res := &Result{
		MatchID:    m.id,
		Mode:       kind,
		Outcome:    outcome,
		Rounds:     m.arena.Round,
		Combatants: m.arena.Combatants(),
		Resources:  m.mode.Resources(),
		StartedAt:  started,
		EndedAt:    time.Now(),
	}
	m.logger.Info("match finished",
		zap.Stringer("mode", kind),
		zap.Int("rounds", res.Rounds),
		zap.Stringer("outcome", outcome),
		zap.Ints("resources", res.Resources[:]),
	)
	return res, nil
}

// Won reports whether id won the match.
func (r *Result) Won(id combat.ID) bool {
	return r.Outcome.Decisive && r.Outcome.Winner == id
}
