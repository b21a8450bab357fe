package mode

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/dice"
)

// CollectionState is the per-match objective state of the collection mode.
type CollectionState struct {
	Gems [2]int
	// Dropped is the shared pool of gems dropped by defeated combatants.
	Dropped int
}

// Collection is the gem-grab objective: collect GemTarget gems first.
// A defeated combatant respawns and drops half its gems.
type Collection struct {
	loop
	roller *dice.Roller
	state  CollectionState
}

// Kind returns KindCollection.
func (c *Collection) Kind() Kind { return KindCollection }

// Resources returns each side's gem count.
func (c *Collection) Resources() [2]int { return c.state.Gems }

// State returns a copy of the objective state.
func (c *Collection) State() CollectionState { return c.state }

func (c *Collection) moves(a *Arena, side int) []combat.Move {
	actor, opponent := a.Side(side), a.Side(1-side)
	moves := combat.BaseMoves(combat.MoveCollectGem)
	if opponent.IsRespawning() {
		moves = append(moves, combat.MoveCollectDroppedGems)
	} else {
		moves = append(moves, combat.OffensiveMoves(actor)...)
	}
	return append(moves, combat.SummonTargetMoves(actor, opponent)...)
}

func (c *Collection) apply(_ *Arena, side int, m combat.Move) error {
	switch m {
	case combat.MoveCollectGem:
		w := c.rules.GemWeights
		gained, err := c.roller.Weighted("gem", []int{1, 0}, w[:])
		if err != nil {
			return err
		}
		c.state.Gems[side] += gained
	case combat.MoveCollectDroppedGems:
		// The whole pool is cleared even when fewer gems are drawn.
		c.state.Gems[side] += c.roller.Intn("dropped_gems", c.state.Dropped)
		c.state.Dropped = 0
	default:
		return fmt.Errorf("mode %s: move %s not supported", KindCollection, m)
	}
	return nil
}

// afterMove respawns a defeated opponent and moves half its gems to the pool.
func (c *Collection) afterMove(ctx context.Context, a *Arena, side int, d combat.Decider) (bool, error) {
	actor, opponent := a.Side(side), a.Side(1-side)
	if opponent.Health > 0 {
		return false, nil
	}

	opponent.Respawn(c.rules.RespawnTurns)
	gems := c.state.Gems[1-side]
	dropped := gems/2 + gems%2
	c.state.Gems[1-side] -= dropped
	c.state.Dropped += dropped

	if err := combat.Inform(ctx, d, actor.ID, MsgOpponentDefeated); err != nil {
		return false, err
	}
	if err := combat.Inform(ctx, d, opponent.ID, MsgDefeated); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collection) check(a *Arena) (combat.Outcome, bool) {
	first := c.state.Gems[0] >= c.rules.GemTarget
	second := c.state.Gems[1] >= c.rules.GemTarget
	switch {
	case first && second:
		return combat.DrawOutcome(), true
	case first:
		return combat.DecisiveOutcome(a.Side(0).ID, a.Side(1).ID), true
	case second:
		return combat.DecisiveOutcome(a.Side(1).ID, a.Side(0).ID), true
	default:
		return combat.Outcome{}, false
	}
}

func (c *Collection) checkpoint() func() {
	saved := c.state
	return func() { c.state = saved }
}
