package mode

import (
	"errors"
	"fmt"
)

// Rules holds the numeric constants of the objective modes.
type Rules struct {
	// RoundLimit is the round cap after which a match is a timeout draw.
	RoundLimit int
	// HealDelay is the number of rounds without damage before healing starts.
	HealDelay  int
	HealAmount int
	// RespawnTurns is the number of own turns a defeated combatant sits out.
	RespawnTurns int
	GemTarget    int
	// GemWeights weighs gaining {1, 0} gems on the collect move.
	GemWeights [2]int
	// PowerUpWeights weighs gaining {1, 0} power-ups on the collect move.
	PowerUpWeights [2]int
	PoisonRound    int
	PoisonDamage   int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		RoundLimit:     150,
		HealDelay:      3,
		HealAmount:     100,
		RespawnTurns:   1,
		GemTarget:      10,
		GemWeights:     [2]int{3, 1},
		PowerUpWeights: [2]int{1, 3},
		PoisonRound:    40,
		PoisonDamage:   100,
	}
}

// Validate reports every rule violation.
//
// Postcondition: Returns nil iff all counts are non-negative, RoundLimit and
// GemTarget are positive and each weight pair has a positive sum.
func (r Rules) Validate() error {
	var errs []error
	if r.RoundLimit < 1 {
		errs = append(errs, fmt.Errorf("round_limit must be >= 1, got %d", r.RoundLimit))
	}
	if r.GemTarget < 1 {
		errs = append(errs, fmt.Errorf("gem_target must be >= 1, got %d", r.GemTarget))
	}
	for name, v := range map[string]int{
		"heal_delay":    r.HealDelay,
		"heal_amount":   r.HealAmount,
		"respawn_turns": r.RespawnTurns,
		"poison_round":  r.PoisonRound,
		"poison_damage": r.PoisonDamage,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}
	if err := validWeights("gem_weights", r.GemWeights); err != nil {
		errs = append(errs, err)
	}
	if err := validWeights("powerup_weights", r.PowerUpWeights); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validWeights(name string, w [2]int) error {
	if w[0] < 0 || w[1] < 0 || w[0]+w[1] == 0 {
		return fmt.Errorf("%s must be non-negative with a positive sum, got %v", name, w)
	}
	return nil
}
