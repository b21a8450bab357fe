package mode

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/dice"
)

// EliminationState is the per-match objective state of the elimination mode.
type EliminationState struct {
	PowerUps [2]int
}

// Elimination is the showdown objective: be the last combatant alive.
// From PoisonRound on, both sides take poison damage after every move.
type Elimination struct {
	loop
	roller *dice.Roller
	state  EliminationState
}

// Kind returns KindElimination.
func (e *Elimination) Kind() Kind { return KindElimination }

// Resources returns each side's power-up count.
func (e *Elimination) Resources() [2]int { return e.state.PowerUps }

// State returns a copy of the objective state.
func (e *Elimination) State() EliminationState { return e.state }

func (e *Elimination) moves(a *Arena, side int) []combat.Move {
	actor, opponent := a.Side(side), a.Side(1-side)
	moves := combat.BaseMoves(combat.MoveCollectPowerUp)
	moves = append(moves, combat.OffensiveMoves(actor)...)
	return append(moves, combat.SummonTargetMoves(actor, opponent)...)
}

func (e *Elimination) apply(_ *Arena, side int, m combat.Move) error {
	if m != combat.MoveCollectPowerUp {
		return fmt.Errorf("mode %s: move %s not supported", KindElimination, m)
	}
	w := e.rules.PowerUpWeights
	gained, err := e.roller.Weighted("power_up", []int{1, 0}, w[:])
	if err != nil {
		return err
	}
	e.state.PowerUps[side] += gained
	return nil
}

// afterMove applies the poison effect. Poison ignores invincibility and
// counts as damage taken for the healing delay.
func (e *Elimination) afterMove(_ context.Context, a *Arena, _ int, _ combat.Decider) (bool, error) {
	if a.Round >= e.rules.PoisonRound && e.rules.PoisonDamage > 0 {
		for i := range 2 {
			c := a.Side(i)
			c.ApplyDamage(e.rules.PoisonDamage)
			c.LastDamageRound = a.Round
		}
	}
	return false, nil
}

func (e *Elimination) check(a *Arena) (combat.Outcome, bool) {
	first, second := a.Side(0), a.Side(1)
	switch {
	case first.IsDead() && second.IsDead():
		return combat.DrawOutcome(), true
	case second.IsDead():
		return combat.DecisiveOutcome(first.ID, second.ID), true
	case first.IsDead():
		return combat.DecisiveOutcome(second.ID, first.ID), true
	default:
		return combat.Outcome{}, false
	}
}

func (e *Elimination) checkpoint() func() {
	saved := e.state
	return func() { e.state = saved }
}
