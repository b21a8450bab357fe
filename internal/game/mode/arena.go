package mode

import "github.com/cory-johannsen/brawl/internal/game/combat"

// Arena owns both combatants of a match and the round counter.
//
// Invariant: side 0 acts on even rounds and side 1 on odd rounds.
type Arena struct {
	Round      int
	combatants [2]combat.Combatant
}

// NewArena copies a and b into a fresh arena at round 0.
func NewArena(a, b *combat.Combatant) *Arena {
	return &Arena{combatants: [2]combat.Combatant{a.Snapshot(), b.Snapshot()}}
}

// Side returns the live state of side i (0 or 1).
func (a *Arena) Side(i int) *combat.Combatant { return &a.combatants[i] }

// Acting returns the index of the side whose turn it is.
func (a *Arena) Acting() int { return a.Round % 2 }

// Combatants returns snapshots of both sides.
func (a *Arena) Combatants() [2]combat.Combatant {
	return [2]combat.Combatant{a.combatants[0].Snapshot(), a.combatants[1].Snapshot()}
}

// checkpoint captures the arena and returns a function restoring it.
func (a *Arena) checkpoint() func() {
	round := a.Round
	saved := a.Combatants()
	return func() {
		a.Round = round
		a.combatants = saved
	}
}
