// Package class defines the immutable combatant capabilities (health, attack,
// ability) and the level-scaling formula shared by every capability variant.
package class

import (
	"errors"
	"fmt"
)

// DefaultMaxAmmo is applied when content data leaves attack.max_ammo unset.
const DefaultMaxAmmo = 3

// MaxLevel is the highest capability level; scaling stops growing after level 9.
const MaxLevel = 10

// Attack is the basic attack profile of a capability at level 1.
type Attack struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Damage      int     `yaml:"damage"`
	Range       float64 `yaml:"range"`
	Reload      float64 `yaml:"reload"`
	MaxAmmo     int     `yaml:"max_ammo"`
	Projectiles int     `yaml:"projectiles"`
}

// Summon describes the character an ability spawns.
type Summon struct {
	Name   string  `yaml:"name"`
	Health int     `yaml:"health"`
	Damage int     `yaml:"damage"`
	Range  float64 `yaml:"range"`
	Speed  float64 `yaml:"speed"`
}

// Ability is the charged special move of a capability at level 1.
//
// A nil Damage marks a special ability that the generic damage formula does
// not apply to. A nil Range means the ability is not distance-gated.
type Ability struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Damage       *int     `yaml:"damage"`
	Range        *float64 `yaml:"range"`
	Projectiles  int      `yaml:"projectiles"`
	HitsRequired int      `yaml:"hits_required"`
	// Stun marks abilities that stun the target when they land.
	Stun   bool    `yaml:"stun"`
	Summon *Summon `yaml:"summon"`
}

// IsSpecial reports whether the ability has no generic damage.
func (a Ability) IsSpecial() bool { return a.Damage == nil }

// BaseDamage returns the ability damage, or 0 for special abilities.
func (a Ability) BaseDamage() int {
	if a.Damage == nil {
		return 0
	}
	return *a.Damage
}

// Info is the identity data of a capability.
type Info struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Health  int     `yaml:"health"`
	Speed   int     `yaml:"speed"`
	Attack  Attack  `yaml:"attack"`
	Ability Ability `yaml:"ability"`
}

// Validate checks that the info satisfies the content invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Health >= 1 and every
// damage, range, reload and projectile field is non-negative.
func (i *Info) Validate() error {
	if i.ID == "" {
		return errors.New("class: id must not be empty")
	}
	if i.Name == "" {
		return fmt.Errorf("class %q: name must not be empty", i.ID)
	}
	if i.Health < 1 {
		return fmt.Errorf("class %q: health must be >= 1, got %d", i.ID, i.Health)
	}
	a := i.Attack
	if a.Damage < 0 || a.Range < 0 || a.Reload < 0 || a.Projectiles < 0 || a.MaxAmmo < 0 {
		return fmt.Errorf("class %q: attack fields must not be negative", i.ID)
	}
	u := i.Ability
	if u.Damage != nil && *u.Damage < 0 {
		return fmt.Errorf("class %q: ability damage must not be negative", i.ID)
	}
	if u.Range != nil && *u.Range < 0 {
		return fmt.Errorf("class %q: ability range must not be negative", i.ID)
	}
	if u.Projectiles < 0 || u.HitsRequired < 0 {
		return fmt.Errorf("class %q: ability projectiles and hits_required must not be negative", i.ID)
	}
	if s := u.Summon; s != nil && (s.Health < 1 || s.Damage < 0 || s.Range < 0) {
		return fmt.Errorf("class %q: summon %q needs health >= 1 and non-negative damage and range", i.ID, s.Name)
	}
	return nil
}

// Capability is implemented by every combatant archetype. Variants only supply
// identity data; all formulas operate on the Info they expose.
type Capability interface {
	Info() *Info
}

// Class is the content-driven Capability variant.
type Class struct {
	data Info
}

// New wraps info in a Class, applying content defaults.
//
// Postcondition: Info().Attack.MaxAmmo > 0.
func New(info Info) *Class {
	if info.Attack.MaxAmmo == 0 {
		info.Attack.MaxAmmo = DefaultMaxAmmo
	}
	return &Class{data: info}
}

// Info returns the class data.
func (c *Class) Info() *Info { return &c.data }

// String returns the class name.
func (c *Class) String() string { return c.data.Name }

// Buff scales base to level. Level 10 scales like level 9 and levels below 1
// scale like level 1.
//
// Postcondition: Returns base + floor(base/20 * (level-1)).
func Buff(base, level int) int {
	if level >= MaxLevel {
		level = MaxLevel - 1
	}
	if level < 1 {
		level = 1
	}
	return base + base*(level-1)/20
}

// Stats are the level-dependent magnitudes of a capability.
type Stats struct {
	Health        int
	AttackDamage  int
	AbilityDamage int
}

// StatsAt returns the capability stats buffed to level.
func StatsAt(c Capability, level int) Stats {
	info := c.Info()
	return Stats{
		Health:        Buff(info.Health, level),
		AttackDamage:  Buff(info.Attack.Damage, level),
		AbilityDamage: Buff(info.Ability.BaseDamage(), level),
	}
}
