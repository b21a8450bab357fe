package battlelog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/brawl/internal/battlelog"
	"github.com/cory-johannsen/brawl/internal/game/class"
	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/match"
	"github.com/cory-johannsen/brawl/internal/game/mode"
)

func result(outcome combat.Outcome) *match.Result {
	brute := class.New(class.Info{ID: "brute", Name: "Brute", Health: 1400})
	sniper := class.New(class.Info{ID: "sniper", Name: "Sniper", Health: 800})
	a := combat.NewCombatant(1, brute, 5)
	b := combat.NewCombatant(2, sniper, 3)
	now := time.Now()
	return &match.Result{
		MatchID:    uuid.New(),
		Mode:       mode.KindCollection,
		Outcome:    outcome,
		Rounds:     19,
		Combatants: [2]combat.Combatant{*a, *b},
		Resources:  [2]int{10, 9},
		StartedAt:  now.Add(-time.Second),
		EndedAt:    now,
	}
}

func TestFromResult_Decisive(t *testing.T) {
	res := result(combat.DecisiveOutcome(1, 2))
	e := battlelog.FromResult(res)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, res.MatchID, e.MatchID)
	assert.Equal(t, "gemgrab", e.Mode)
	assert.Equal(t, "1 defeats 2", e.Outcome)
	assert.False(t, e.Draw)
	assert.Equal(t, 19, e.Rounds)
	require.Len(t, e.Players, 2)
	assert.Equal(t, battlelog.Player{CombatantID: 1, Class: "brute", Level: 5, Resources: 10, Won: true}, e.Players[0])
	assert.Equal(t, battlelog.Player{CombatantID: 2, Class: "sniper", Level: 3, Resources: 9, Won: false}, e.Players[1])

	w, ok := e.Winner()
	require.True(t, ok)
	assert.Equal(t, combat.ID(1), w.CombatantID)
}

func TestFromResult_Draw(t *testing.T) {
	e := battlelog.FromResult(result(combat.DrawOutcome()))
	assert.True(t, e.Draw)
	assert.Equal(t, "draw", e.Outcome)
	_, ok := e.Winner()
	assert.False(t, ok)
	for _, p := range e.Players {
		assert.False(t, p.Won)
	}
}

func TestFromResult_FreshIDs(t *testing.T) {
	res := result(combat.DrawOutcome())
	assert.NotEqual(t, battlelog.FromResult(res).ID, battlelog.FromResult(res).ID)
}

func TestLogRecorder_Save(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := battlelog.NewLogRecorder(zap.New(core))
	e := battlelog.FromResult(result(combat.DecisiveOutcome(2, 1)))

	require.NoError(t, r.Save(context.Background(), e))
	entries := logs.FilterMessage("battle log").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, e.MatchID.String(), fields["match_id"])
	assert.Equal(t, "2 defeats 1", fields["outcome"])
	sideB, ok := fields["side_b"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, sideB["won"])
	assert.Equal(t, "sniper", sideB["class"])
}

type failingRecorder struct{ err error }

func (f failingRecorder) Save(context.Context, *battlelog.Entry) error { return f.err }

func TestMulti_SaveJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	core, logs := observer.New(zap.InfoLevel)
	m := battlelog.Multi{failingRecorder{err: errA}, battlelog.NewLogRecorder(zap.New(core))}

	err := m.Save(context.Background(), battlelog.FromResult(result(combat.DrawOutcome())))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, logs.FilterMessage("battle log").Len(), "later recorders still run")
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, battlelog.Multi{}.Save(context.Background(), battlelog.FromResult(result(combat.DrawOutcome()))))
}
