// Package combat implements the per-match combatant state, the shared move
// catalog, the combat formulas and the decision boundary consulted for moves.
package combat

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cory-johannsen/brawl/internal/game/class"
)

// ID identifies a combatant within a match.
type ID uint64

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Status is the life state of a combatant. Exactly one holds at any time.
type Status int

const (
	StatusAlive Status = iota
	StatusRespawning
	StatusDead
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusRespawning:
		return "respawning"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Position is a point on the implicit battle map.
type Position struct {
	X int
	Y int
}

// Distance returns the Euclidean distance between p and o.
func (p Position) Distance(o Position) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

// SummonState is a live summon owned by a combatant.
type SummonState struct {
	Info   class.Summon
	Health int
}

// Combatant is one side's mutable battle state for the duration of a match.
type Combatant struct {
	ID    ID
	Class class.Capability
	Level int

	Ammo              int
	LastUsedAmmoRound int
	// AttacksLanded charges the ability; it is reset whenever the ability is used.
	AttacksLanded int
	// Invincible is set by Dodge and cleared after the next opposing action.
	Invincible bool
	Status     Status

	Health          int
	MaxHealth       int
	LastDamageRound int
	Stunned         bool
	Position        Position

	// Summon is the active summon, nil when none is alive.
	Summon *SummonState
	// RespawnTurns is the number of own turns still to skip while respawning.
	RespawnTurns int
}

// NewCombatant creates fresh match state for a capability at level.
//
// Precondition: c must be non-nil; level should be in [1, class.MaxLevel].
// Postcondition: Ammo == max ammo, Health == MaxHealth == buffed health,
// Status == StatusAlive, Position is the origin.
func NewCombatant(id ID, c class.Capability, level int) *Combatant {
	health := class.Buff(c.Info().Health, level)
	return &Combatant{
		ID:        id,
		Class:     c,
		Level:     level,
		Ammo:      c.Info().Attack.MaxAmmo,
		Status:    StatusAlive,
		Health:    health,
		MaxHealth: health,
	}
}

// Name returns the capability name of the combatant.
func (c *Combatant) Name() string { return c.Class.Info().Name }

// Snapshot returns a copy of c that shares no mutable state with it.
func (c *Combatant) Snapshot() Combatant {
	cp := *c
	if c.Summon != nil {
		s := *c.Summon
		cp.Summon = &s
	}
	return cp
}

// IsDead reports whether the combatant has no health left or is permanently dead.
func (c *Combatant) IsDead() bool {
	return c.Status == StatusDead || c.Health == 0
}

// IsAlive is the complement of IsDead.
func (c *Combatant) IsAlive() bool { return !c.IsDead() }

// IsRespawning reports whether the combatant is waiting to respawn.
func (c *Combatant) IsRespawning() bool { return c.Status == StatusRespawning }

// CanAttack reports whether the combatant has ammo left.
func (c *Combatant) CanAttack() bool { return c.Ammo > 0 }

// CanUseAbility reports whether the ability is charged.
// The comparison is strictly greater than the required hit count.
func (c *Combatant) CanUseAbility() bool {
	return c.AttacksLanded > c.Class.Info().Ability.HitsRequired
}

// ApplyDamage reduces Health by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0; Health == 0 implies Status == StatusDead.
func (c *Combatant) ApplyDamage(amount int) {
	if c.Health <= amount {
		c.Health = 0
		c.Status = StatusDead
		return
	}
	c.Health -= amount
}

// Heal raises Health by amount, capped at MaxHealth.
func (c *Combatant) Heal(amount int) {
	c.Health = min(c.MaxHealth, c.Health+amount)
}

// Respawn marks the combatant as respawning at full health for turns own turns.
// An active summon does not survive its owner's defeat.
func (c *Combatant) Respawn(turns int) {
	c.Status = StatusRespawning
	c.Health = c.MaxHealth
	c.Summon = nil
	c.RespawnTurns = turns
	c.Stunned = false
	c.Invincible = false
}

// Revive returns a respawned combatant to play.
func (c *Combatant) Revive() {
	c.Status = StatusAlive
	c.RespawnTurns = 0
}

// RegenerateAmmo adds one ammo when the reload time has elapsed since the
// last ammo expenditure and the combatant is below max ammo.
//
// Postcondition: Returns true iff Ammo was incremented; Ammo never exceeds max ammo.
func (c *Combatant) RegenerateAmmo(round int) bool {
	attack := c.Class.Info().Attack
	reload := int(math.Ceil(attack.Reload))
	if c.LastUsedAmmoRound <= max(round-reload, 0) && c.Ammo < attack.MaxAmmo {
		c.Ammo++
		return true
	}
	return false
}

// HealOverTime heals by amount when delay rounds have passed without the
// combatant dealing or taking damage.
//
// Postcondition: Returns true iff the healing check passed.
func (c *Combatant) HealOverTime(round, delay, amount int) bool {
	if c.LastDamageRound+delay < round {
		c.Heal(amount)
		return true
	}
	return false
}

// DistanceTo returns the distance between c and o.
func (c *Combatant) DistanceTo(o *Combatant) float64 {
	return c.Position.Distance(o.Position)
}

// Outcome is the final result of a match.
type Outcome struct {
	// Decisive is false for a draw.
	Decisive bool
	Winner   ID
	Loser    ID
}

// DecisiveOutcome returns an outcome won by winner.
func DecisiveOutcome(winner, loser ID) Outcome {
	return Outcome{Decisive: true, Winner: winner, Loser: loser}
}

// DrawOutcome returns a drawn outcome.
func DrawOutcome() Outcome { return Outcome{} }

// IsDraw reports whether the match ended without a winner.
func (o Outcome) IsDraw() bool { return !o.Decisive }

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	if !o.Decisive {
		return "draw"
	}
	return fmt.Sprintf("%s defeats %s", o.Winner, o.Loser)
}
