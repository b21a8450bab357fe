package mode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/game/class"
	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/dice"
)

var errScriptDone = errors.New("script exhausted")

// fixedSource always returns val for any Intn call, clamped to n-1.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

type informed struct {
	id  combat.ID
	msg string
}

// scriptDecider plays the scripted moves in order, then fallback. A scripted
// move that is not legal yields an out-of-bounds index.
type scriptDecider struct {
	script   []combat.Move
	fallback combat.Move
	calls    int
	offered  [][]combat.Move
	informs  []informed
}

func (s *scriptDecider) Inform(_ context.Context, id combat.ID, msg string) error {
	s.informs = append(s.informs, informed{id: id, msg: msg})
	return nil
}

func (s *scriptDecider) ChooseMove(_ context.Context, moves []combat.Move, _, _ combat.Combatant) (int, error) {
	s.offered = append(s.offered, moves)
	want := s.fallback
	if s.calls < len(s.script) {
		want = s.script[s.calls]
	} else if want == combat.MoveUnknown {
		return 0, errScriptDone
	}
	s.calls++
	for i, m := range moves {
		if m == want {
			return i, nil
		}
	}
	return len(moves), nil
}

func (s *scriptDecider) count(id combat.ID, msg string) int {
	n := 0
	for _, in := range s.informs {
		if in.id == id && in.msg == msg {
			n++
		}
	}
	return n
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func bruiser() *class.Class {
	return class.New(class.Info{
		ID:     "bruiser",
		Name:   "Bruiser",
		Health: 1000,
		Attack: class.Attack{Name: "Jab", Damage: 100, Range: 5, Reload: 2, MaxAmmo: 3, Projectiles: 1},
		Ability: class.Ability{
			Name:         "Haymaker",
			Damage:       intPtr(300),
			Range:        floatPtr(3),
			Projectiles:  1,
			HitsRequired: 2,
			Stun:         true,
		},
	})
}

func tamer() *class.Class {
	return class.New(class.Info{
		ID:     "tamer",
		Name:   "Tamer",
		Health: 1000,
		Attack: class.Attack{Name: "Whip", Damage: 50, Range: 4, Reload: 1, Projectiles: 1},
		Ability: class.Ability{
			Name:         "Call Bear",
			HitsRequired: 1,
			Summon:       &class.Summon{Name: "Bear", Health: 200, Damage: 60, Range: 2},
		},
	})
}

func newArena(a, b *class.Class) *Arena {
	return NewArena(combat.NewCombatant(1, a, 1), combat.NewCombatant(2, b, 1))
}

func newMode(t *testing.T, name string, src dice.Source) Mode {
	t.Helper()
	m, err := New(name, DefaultRules(), dice.NewLoggedRoller(src, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	return m
}
