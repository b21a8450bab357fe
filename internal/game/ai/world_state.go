package ai

import (
	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/scripting"
)

// CombatantState captures a combatant's combat-relevant state at planning time.
type CombatantState struct {
	UID          string
	Name         string
	Class        string
	Level        int
	HP           int
	MaxHP        int
	Ammo         int
	MaxAmmo      int
	Charge       int
	AbilityReady bool
	Invincible   bool
	Stunned      bool
	Status       string
	SummonHP     int
	Distance     float64
	Range        float64
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *CombatantState) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// Info converts c to the snapshot exposed to Lua.
func (c *CombatantState) Info() *scripting.CombatantInfo {
	return &scripting.CombatantInfo{
		UID:          c.UID,
		Name:         c.Name,
		Class:        c.Class,
		Level:        c.Level,
		HP:           c.HP,
		MaxHP:        c.MaxHP,
		Ammo:         c.Ammo,
		MaxAmmo:      c.MaxAmmo,
		Charge:       c.Charge,
		AbilityReady: c.AbilityReady,
		Invincible:   c.Invincible,
		Stunned:      c.Stunned,
		Status:       c.Status,
		SummonHP:     c.SummonHP,
		Distance:     c.Distance,
		Range:        c.Range,
	}
}

// WorldState is the snapshot passed to the HTN planner for one decision.
//
// Invariant: Self and Opponent must not be nil.
type WorldState struct {
	Self     *CombatantState
	Opponent *CombatantState
	// Legal is the list of moves offered, in offer order.
	Legal []combat.Move
}

// IndexOf returns the position of m in Legal, or -1.
func (ws *WorldState) IndexOf(m combat.Move) int {
	for i, l := range ws.Legal {
		if l == m {
			return i
		}
	}
	return -1
}

// BuildWorldState snapshots actor and opponent for planning over moves.
//
// Postcondition: ws.Self.UID == actor.ID.String(); ws.Legal is a copy of moves.
func BuildWorldState(moves []combat.Move, actor, opponent combat.Combatant) *WorldState {
	legal := make([]combat.Move, len(moves))
	copy(legal, moves)
	distance := actor.DistanceTo(&opponent)
	return &WorldState{
		Self:     stateOf(&actor, distance),
		Opponent: stateOf(&opponent, distance),
		Legal:    legal,
	}
}

func stateOf(c *combat.Combatant, distance float64) *CombatantState {
	info := c.Class.Info()
	s := &CombatantState{
		UID:          c.ID.String(),
		Name:         info.Name,
		Class:        info.ID,
		Level:        c.Level,
		HP:           c.Health,
		MaxHP:        c.MaxHealth,
		Ammo:         c.Ammo,
		MaxAmmo:      info.Attack.MaxAmmo,
		Charge:       c.AttacksLanded,
		AbilityReady: c.CanUseAbility(),
		Invincible:   c.Invincible,
		Stunned:      c.Stunned,
		Status:       c.Status.String(),
		Distance:     distance,
		Range:        info.Attack.Range,
	}
	if c.Summon != nil {
		s.SummonHP = c.Summon.Health
	}
	return s
}
