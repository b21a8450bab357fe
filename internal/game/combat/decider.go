package combat

import (
	"context"
	"errors"
	"fmt"
)

// ErrDispatch marks a decider that could not deliver a notification or
// solicit a choice.
var ErrDispatch = errors.New("decider dispatch failed")

// ErrResponse marks a decider answer that is structurally invalid.
var ErrResponse = errors.New("invalid decider response")

// Decider is the external collaborator that receives match notifications and
// chooses moves. Both operations may block pending an external response and
// must honor ctx cancellation. Any error is fatal to the match.
type Decider interface {
	// Inform delivers a one-way notification to the combatant id.
	Inform(ctx context.Context, id ID, msg string) error
	// ChooseMove returns an index into moves for actor to play against opponent.
	// actor and opponent are snapshots; mutating them has no effect.
	ChooseMove(ctx context.Context, moves []Move, actor, opponent Combatant) (int, error)
}

// dispatchError wraps err with ErrDispatch unless it already reports a response error.
func dispatchError(err error, op string) error {
	if errors.Is(err, ErrResponse) || errors.Is(err, ErrDispatch) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrDispatch, op, err)
}

// Inform sends msg to id through d, classifying any failure.
//
// Postcondition: a non-nil error wraps ErrDispatch or ErrResponse.
func Inform(ctx context.Context, d Decider, id ID, msg string) error {
	if err := d.Inform(ctx, id, msg); err != nil {
		return dispatchError(err, "informing combatant "+id.String())
	}
	return nil
}

// Choose asks d for actor's move and validates the returned index.
//
// Precondition: moves is non-empty.
// Postcondition: on success the returned Move is an element of moves; an
// out-of-bounds index yields an error wrapping ErrResponse.
func Choose(ctx context.Context, d Decider, moves []Move, actor, opponent *Combatant) (Move, error) {
	offered := make([]Move, len(moves))
	copy(offered, moves)

	idx, err := d.ChooseMove(ctx, offered, actor.Snapshot(), opponent.Snapshot())
	if err != nil {
		return MoveUnknown, dispatchError(err, "choosing move for combatant "+actor.ID.String())
	}
	if idx < 0 || idx >= len(moves) {
		return MoveUnknown, fmt.Errorf("%w: move index %d out of bounds for %d legal moves", ErrResponse, idx, len(moves))
	}
	return moves[idx], nil
}
