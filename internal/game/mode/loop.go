package mode

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/game/combat"
)

// Notifications sent through the decider.
const (
	MsgRespawning       = "You are respawning!"
	MsgStunned          = "You are stunned!"
	MsgOpponentStunned  = "Opponent is stunned!"
	MsgTimeout          = "Time's up. Match ended in a draw."
	MsgOpponentDefeated = "Opponent defeated! Respawning next round."
	MsgDefeated         = "You are defeated! Respawning next round."
)

// objective is the per-mode behavior plugged into the shared round loop.
type objective interface {
	// moves enumerates the legal moves for side.
	moves(a *Arena, side int) []combat.Move
	// apply resolves a mode-specific (non-general) move.
	apply(a *Arena, side int, m combat.Move) error
	// afterMove runs once the move and summon strikes are resolved. A true
	// result ends the round without an objective check.
	afterMove(ctx context.Context, a *Arena, side int, d combat.Decider) (bool, error)
	// check evaluates the objective after a completed action.
	check(a *Arena) (combat.Outcome, bool)
	// checkpoint captures the objective state and returns a restore function.
	checkpoint() func()
}

// loop is the round mechanics shared by every mode.
type loop struct {
	rules  Rules
	logger *zap.Logger
	obj    objective
}

// Run plays rounds until the objective resolves or the round limit is reached.
//
// Postcondition: returns an Outcome or a non-nil error, never both. On error
// the arena and objective state are those at the start of the failing round.
func (l *loop) Run(ctx context.Context, a *Arena, d combat.Decider) (combat.Outcome, error) {
	for a.Round < l.rules.RoundLimit {
		if err := ctx.Err(); err != nil {
			return combat.Outcome{}, fmt.Errorf("%w: match interrupted at round %d: %w", combat.ErrDispatch, a.Round, err)
		}

		restoreArena := a.checkpoint()
		restoreObjective := l.obj.checkpoint()
		outcome, done, err := l.playRound(ctx, a, d)
		if err != nil {
			restoreArena()
			restoreObjective()
			l.logger.Warn("round aborted", zap.Int("round", a.Round), zap.Error(err))
			return combat.Outcome{}, err
		}
		a.Round++
		if done {
			return outcome, nil
		}
	}

	for i := range 2 {
		if err := combat.Inform(ctx, d, a.Side(i).ID, MsgTimeout); err != nil {
			return combat.Outcome{}, err
		}
	}
	return combat.DrawOutcome(), nil
}

// playRound runs one round for the acting side.
func (l *loop) playRound(ctx context.Context, a *Arena, d combat.Decider) (combat.Outcome, bool, error) {
	side := a.Acting()
	actor, opponent := a.Side(side), a.Side(1-side)
	round := a.Round

	if actor.IsRespawning() {
		if actor.RespawnTurns > 0 {
			if err := combat.Inform(ctx, d, actor.ID, MsgRespawning); err != nil {
				return combat.Outcome{}, false, err
			}
			actor.RespawnTurns--
			return combat.Outcome{}, false, nil
		}
		actor.Revive()
	}

	actor.RegenerateAmmo(round)
	actor.HealOverTime(round, l.rules.HealDelay, l.rules.HealAmount)

	if actor.Stunned {
		if err := combat.Inform(ctx, d, actor.ID, MsgStunned); err != nil {
			return combat.Outcome{}, false, err
		}
		if err := combat.Inform(ctx, d, opponent.ID, MsgOpponentStunned); err != nil {
			return combat.Outcome{}, false, err
		}
		actor.Stunned = false
		return combat.Outcome{}, false, nil
	}

	m, err := combat.Choose(ctx, d, l.obj.moves(a, side), actor, opponent)
	if err != nil {
		return combat.Outcome{}, false, err
	}

	if m.IsGeneral() {
		r, err := combat.ApplyGeneralMove(m, actor, opponent, round)
		if err != nil {
			return combat.Outcome{}, false, err
		}
		l.logger.Debug("move resolved",
			zap.Int("round", round),
			zap.Stringer("combatant", actor.ID),
			zap.Stringer("move", m),
			zap.Bool("landed", r.Landed()),
			zap.Int("damage", r.Damage),
		)
	} else {
		if err := l.obj.apply(a, side, m); err != nil {
			return combat.Outcome{}, false, err
		}
		l.logger.Debug("move resolved",
			zap.Int("round", round),
			zap.Stringer("combatant", actor.ID),
			zap.Stringer("move", m),
		)
	}

	if r, ok := combat.SummonStrike(actor, opponent, round); ok {
		l.logger.Debug("summon strike",
			zap.Int("round", round),
			zap.Stringer("owner", actor.ID),
			zap.Bool("landed", r.Landed()),
			zap.Int("damage", r.Damage),
		)
	}
	opponent.Invincible = false

	skip, err := l.obj.afterMove(ctx, a, side, d)
	if err != nil || skip {
		return combat.Outcome{}, false, err
	}
	outcome, done := l.obj.check(a)
	return outcome, done, nil
}
