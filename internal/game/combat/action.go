package combat

// Move identifies one legal choice offered to the decider.
// The zero value (MoveUnknown) is intentionally invalid.
type Move int

const (
	MoveUnknown Move = iota // zero value; intentionally invalid

	// General moves shared by every objective mode.
	MoveDodge
	MoveAttack
	MoveAbility
	MoveAttackSummon
	MoveAbilitySummon

	// Mode-specific moves.
	MoveCollectGem
	MoveCollectDroppedGems
	MoveCollectPowerUp
)

var moveNames = map[Move]string{
	MoveDodge:              "dodge",
	MoveAttack:             "attack",
	MoveAbility:            "ability",
	MoveAttackSummon:       "attack_summon",
	MoveAbilitySummon:      "ability_summon",
	MoveCollectGem:         "collect_gem",
	MoveCollectDroppedGems: "collect_dropped_gems",
	MoveCollectPowerUp:     "collect_power_up",
}

// String returns the machine name of the move.
// Postcondition: returns "unknown" for MoveUnknown and unrecognized values.
func (m Move) String() string {
	if name, ok := moveNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMove returns the Move whose String() equals name.
func ParseMove(name string) (Move, bool) {
	for m, n := range moveNames {
		if n == name {
			return m, true
		}
	}
	return MoveUnknown, false
}

// IsGeneral reports whether m belongs to the shared general move set.
func (m Move) IsGeneral() bool {
	return m >= MoveDodge && m <= MoveAbilitySummon
}

// SpendsAmmo reports whether the move consumes one ammo.
func (m Move) SpendsAmmo() bool {
	return m == MoveAttack || m == MoveAttackSummon
}

// BaseMoves returns the moves every mode always offers: Dodge followed by the
// mode's resource-collection move.
func BaseMoves(collect Move) []Move {
	return []Move{MoveDodge, collect}
}

// OffensiveMoves returns Attack and Ability as permitted by the actor's ammo
// and ability charge.
func OffensiveMoves(actor *Combatant) []Move {
	var moves []Move
	if actor.CanAttack() {
		moves = append(moves, MoveAttack)
	}
	if actor.CanUseAbility() {
		moves = append(moves, MoveAbility)
	}
	return moves
}

// SummonTargetMoves returns the summon-targeted variants, offered only while
// the opponent has an active summon.
func SummonTargetMoves(actor, opponent *Combatant) []Move {
	if opponent.Summon == nil {
		return nil
	}
	var moves []Move
	if actor.CanAttack() {
		moves = append(moves, MoveAttackSummon)
	}
	if actor.CanUseAbility() {
		moves = append(moves, MoveAbilitySummon)
	}
	return moves
}

// MoveNames returns the String() of each move, preserving order.
func MoveNames(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
