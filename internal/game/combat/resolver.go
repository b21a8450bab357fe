package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/brawl/internal/game/class"
)

// StrikeResult holds the outcome of one resolved move.
type StrikeResult struct {
	Move     Move
	ActorID  ID
	TargetID ID
	Distance float64
	// InRange is true when the target was within reach of the move.
	InRange bool
	// Absorbed is true when an invincible target took no damage.
	Absorbed       bool
	ProjectilesHit int
	Damage         int
	Stunned        bool
	Summoned       bool
	// SummonDestroyed is true when a summon-targeted move killed the summon.
	SummonDestroyed bool
}

// Landed reports whether the move dealt damage to its target.
func (r StrikeResult) Landed() bool {
	return r.InRange && !r.Absorbed && r.ProjectilesHit > 0
}

// projectilesHit returns how many projectiles hit a target at distance for a
// profile with the given range. A nil reach is not distance-gated.
//
// Postcondition: the divisor is at least 1, so the result never exceeds projectiles.
func projectilesHit(projectiles int, reach *float64, distance float64) int {
	diff := 1.0
	if reach != nil {
		diff = math.Max(1, math.Ceil(*reach-distance))
	}
	return int(math.Ceil(float64(projectiles) / diff))
}

func inReach(reach *float64, distance float64) bool {
	return reach == nil || distance <= *reach
}

// ResolveAttack performs actor's basic attack against target.
// One ammo is spent whether or not the target is in range.
//
// Precondition: actor.CanAttack().
// Postcondition: target.Health >= 0; actor.Ammo >= 0; a landed attack increments actor.AttacksLanded.
func ResolveAttack(actor, target *Combatant) StrikeResult {
	attack := actor.Class.Info().Attack
	r := StrikeResult{
		Move:     MoveAttack,
		ActorID:  actor.ID,
		TargetID: target.ID,
		Distance: actor.DistanceTo(target),
	}
	actor.Ammo = max(actor.Ammo-1, 0)

	if !inReach(&attack.Range, r.Distance) {
		return r
	}
	r.InRange = true
	if target.Invincible {
		r.Absorbed = true
		return r
	}

	r.ProjectilesHit = projectilesHit(attack.Projectiles, &attack.Range, r.Distance)
	r.Damage = class.Buff(attack.Damage, actor.Level) * r.ProjectilesHit
	target.ApplyDamage(r.Damage)
	if r.ProjectilesHit > 0 {
		actor.AttacksLanded++
	}
	return r
}

// ResolveAbility performs actor's ability against target.
//
// Special abilities (no damage) spawn the ability's summon, if any. Damaging
// abilities out of range have no effect and keep their charge.
//
// Precondition: actor.CanUseAbility().
// Postcondition: the charge is spent (AttacksLanded == 0) unless the target was out of range.
func ResolveAbility(actor, target *Combatant) StrikeResult {
	ability := actor.Class.Info().Ability
	r := StrikeResult{
		Move:     MoveAbility,
		ActorID:  actor.ID,
		TargetID: target.ID,
		Distance: actor.DistanceTo(target),
	}

	if ability.IsSpecial() {
		actor.AttacksLanded = 0
		if s := ability.Summon; s != nil {
			actor.Summon = &SummonState{Info: *s, Health: class.Buff(s.Health, actor.Level)}
			r.Summoned = true
		}
		return r
	}

	if !inReach(ability.Range, r.Distance) {
		return r
	}
	r.InRange = true
	actor.AttacksLanded = 0
	if target.Invincible {
		r.Absorbed = true
		return r
	}

	r.ProjectilesHit = projectilesHit(ability.Projectiles, ability.Range, r.Distance)
	r.Damage = class.Buff(ability.BaseDamage(), actor.Level) * r.ProjectilesHit
	target.ApplyDamage(r.Damage)
	if ability.Stun && r.ProjectilesHit > 0 && target.Status == StatusAlive {
		target.Stunned = true
		r.Stunned = true
	}
	return r
}

// damageSummon applies amount to owner's summon, removing it at zero health.
func damageSummon(owner *Combatant, amount int) bool {
	owner.Summon.Health = max(owner.Summon.Health-amount, 0)
	if owner.Summon.Health == 0 {
		owner.Summon = nil
		return true
	}
	return false
}

// ResolveAttackSummon performs actor's basic attack against the opponent's
// summon, which stands at its owner's position.
//
// Precondition: opponent.Summon != nil; actor.CanAttack().
func ResolveAttackSummon(actor, opponent *Combatant) StrikeResult {
	attack := actor.Class.Info().Attack
	r := StrikeResult{
		Move:     MoveAttackSummon,
		ActorID:  actor.ID,
		TargetID: opponent.ID,
		Distance: actor.DistanceTo(opponent),
	}
	actor.Ammo = max(actor.Ammo-1, 0)
	if opponent.Summon == nil || !inReach(&attack.Range, r.Distance) {
		return r
	}
	r.InRange = true
	r.ProjectilesHit = projectilesHit(attack.Projectiles, &attack.Range, r.Distance)
	r.Damage = class.Buff(attack.Damage, actor.Level) * r.ProjectilesHit
	r.SummonDestroyed = damageSummon(opponent, r.Damage)
	if r.ProjectilesHit > 0 {
		actor.AttacksLanded++
	}
	return r
}

// ResolveAbilitySummon performs actor's ability against the opponent's summon.
// A special ability behaves exactly like ResolveAbility.
//
// Precondition: opponent.Summon != nil; actor.CanUseAbility().
func ResolveAbilitySummon(actor, opponent *Combatant) StrikeResult {
	ability := actor.Class.Info().Ability
	if ability.IsSpecial() {
		r := ResolveAbility(actor, opponent)
		r.Move = MoveAbilitySummon
		return r
	}
	r := StrikeResult{
		Move:     MoveAbilitySummon,
		ActorID:  actor.ID,
		TargetID: opponent.ID,
		Distance: actor.DistanceTo(opponent),
	}
	if opponent.Summon == nil || !inReach(ability.Range, r.Distance) {
		return r
	}
	r.InRange = true
	actor.AttacksLanded = 0
	r.ProjectilesHit = projectilesHit(ability.Projectiles, ability.Range, r.Distance)
	r.Damage = class.Buff(ability.BaseDamage(), actor.Level) * r.ProjectilesHit
	r.SummonDestroyed = damageSummon(opponent, r.Damage)
	return r
}

// SummonStrike lets owner's summon hit target once in round.
//
// Postcondition: Returns (result, false) without effect when owner has no summon
// or target cannot be hit. A landed strike sets LastDamageRound on both sides.
func SummonStrike(owner, target *Combatant, round int) (StrikeResult, bool) {
	if owner.Summon == nil || target.IsDead() || target.IsRespawning() {
		return StrikeResult{}, false
	}
	s := owner.Summon.Info
	r := StrikeResult{
		ActorID:  owner.ID,
		TargetID: target.ID,
		Distance: owner.DistanceTo(target),
	}
	if !inReach(&s.Range, r.Distance) {
		return r, true
	}
	r.InRange = true
	if target.Invincible {
		r.Absorbed = true
		return r, true
	}
	r.ProjectilesHit = 1
	r.Damage = class.Buff(s.Damage, owner.Level)
	target.ApplyDamage(r.Damage)
	owner.LastDamageRound = round
	target.LastDamageRound = round
	return r, true
}

// ApplyGeneralMove resolves a general move for actor against opponent and
// records the round bookkeeping used by ammo regeneration and healing.
//
// Precondition: m.IsGeneral().
// Postcondition: Returns an error for non-general moves with no state change.
func ApplyGeneralMove(m Move, actor, opponent *Combatant, round int) (StrikeResult, error) {
	var r StrikeResult
	switch m {
	case MoveDodge:
		actor.Invincible = true
		return StrikeResult{Move: MoveDodge, ActorID: actor.ID, TargetID: opponent.ID}, nil
	case MoveAttack:
		r = ResolveAttack(actor, opponent)
	case MoveAbility:
		r = ResolveAbility(actor, opponent)
	case MoveAttackSummon:
		r = ResolveAttackSummon(actor, opponent)
	case MoveAbilitySummon:
		r = ResolveAbilitySummon(actor, opponent)
	default:
		return StrikeResult{}, fmt.Errorf("combat: %s is not a general move", m)
	}

	if m.SpendsAmmo() {
		actor.LastUsedAmmoRound = round
	}
	if r.Landed() {
		actor.LastDamageRound = round
		if m == MoveAttack || m == MoveAbility {
			opponent.LastDamageRound = round
		}
	}
	return r, nil
}
