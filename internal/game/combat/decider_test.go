package combat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/brawl/internal/game/combat"
)

type stubDecider struct {
	idx       int
	chooseErr error
	informErr error
	gotMoves  []combat.Move
	gotActor  combat.Combatant
}

func (s *stubDecider) Inform(_ context.Context, _ combat.ID, _ string) error { return s.informErr }

func (s *stubDecider) ChooseMove(_ context.Context, moves []combat.Move, actor, _ combat.Combatant) (int, error) {
	s.gotMoves = moves
	s.gotActor = actor
	return s.idx, s.chooseErr
}

func TestChoose_ReturnsSelectedMove(t *testing.T) {
	d := &stubDecider{idx: 1}
	actor := combat.NewCombatant(1, striker(), 1)
	opp := combat.NewCombatant(2, striker(), 1)
	moves := []combat.Move{combat.MoveDodge, combat.MoveCollectGem, combat.MoveAttack}

	m, err := combat.Choose(context.Background(), d, moves, actor, opp)
	require.NoError(t, err)
	assert.Equal(t, combat.MoveCollectGem, m)
	assert.Equal(t, moves, d.gotMoves)
}

func TestChoose_SnapshotIsolation(t *testing.T) {
	d := &stubDecider{}
	actor := combat.NewCombatant(1, striker(), 1)
	opp := combat.NewCombatant(2, striker(), 1)

	_, err := combat.Choose(context.Background(), d, []combat.Move{combat.MoveDodge}, actor, opp)
	require.NoError(t, err)
	d.gotActor.Health = 0
	assert.Equal(t, 500, actor.Health)
}

// TestChoose_IndexEqualToLength verifies an index equal to the move count is
// rejected as a response error.
func TestChoose_IndexEqualToLength(t *testing.T) {
	moves := []combat.Move{combat.MoveDodge, combat.MoveCollectGem}
	d := &stubDecider{idx: len(moves)}
	actor := combat.NewCombatant(1, striker(), 1)
	opp := combat.NewCombatant(2, striker(), 1)

	_, err := combat.Choose(context.Background(), d, moves, actor, opp)
	require.Error(t, err)
	assert.ErrorIs(t, err, combat.ErrResponse)
	assert.NotErrorIs(t, err, combat.ErrDispatch)
}

func TestChoose_NegativeIndex(t *testing.T) {
	d := &stubDecider{idx: -1}
	actor := combat.NewCombatant(1, striker(), 1)
	opp := combat.NewCombatant(2, striker(), 1)

	_, err := combat.Choose(context.Background(), d, []combat.Move{combat.MoveDodge}, actor, opp)
	assert.ErrorIs(t, err, combat.ErrResponse)
}

func TestChoose_DispatchFailure(t *testing.T) {
	cause := errors.New("connection reset")
	d := &stubDecider{chooseErr: cause}
	actor := combat.NewCombatant(1, striker(), 1)
	opp := combat.NewCombatant(2, striker(), 1)

	_, err := combat.Choose(context.Background(), d, []combat.Move{combat.MoveDodge}, actor, opp)
	assert.ErrorIs(t, err, combat.ErrDispatch)
	assert.ErrorIs(t, err, cause)
}

func TestChoose_ResponseErrorPreserved(t *testing.T) {
	d := &stubDecider{chooseErr: combat.ErrResponse}
	actor := combat.NewCombatant(1, striker(), 1)
	opp := combat.NewCombatant(2, striker(), 1)

	_, err := combat.Choose(context.Background(), d, []combat.Move{combat.MoveDodge}, actor, opp)
	assert.ErrorIs(t, err, combat.ErrResponse)
	assert.NotErrorIs(t, err, combat.ErrDispatch)
}

func TestInform(t *testing.T) {
	require.NoError(t, combat.Inform(context.Background(), &stubDecider{}, 1, "hello"))

	err := combat.Inform(context.Background(), &stubDecider{informErr: context.Canceled}, 1, "hello")
	assert.ErrorIs(t, err, combat.ErrDispatch)
	assert.ErrorIs(t, err, context.Canceled)
}
