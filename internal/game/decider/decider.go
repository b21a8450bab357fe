// Package decider provides combat.Decider implementations: a uniform random
// bot, a line-oriented console for human players and a per-combatant router.
package decider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/dice"
)

// Random picks a uniformly random legal move.
type Random struct {
	src    dice.Source
	logger *zap.Logger
}

// NewRandom returns a Random decider drawing from src.
//
// Precondition: src must be non-nil.
func NewRandom(src dice.Source, logger *zap.Logger) *Random {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Random{src: src, logger: logger}
}

// Inform logs the notification.
func (r *Random) Inform(ctx context.Context, id combat.ID, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.logger.Debug("notification", zap.Stringer("combatant", id), zap.String("message", msg))
	return nil
}

// ChooseMove returns a uniform index into moves.
func (r *Random) ChooseMove(ctx context.Context, moves []combat.Move, _, _ combat.Combatant) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w: no legal moves offered", combat.ErrResponse)
	}
	return r.src.Intn(len(moves)), nil
}

// Router forwards each call to the decider registered for the combatant.
type Router struct {
	routes map[combat.ID]combat.Decider
}

// NewRouter returns a Router with routes copied from routes.
func NewRouter(routes map[combat.ID]combat.Decider) *Router {
	r := &Router{routes: make(map[combat.ID]combat.Decider, len(routes))}
	for id, d := range routes {
		r.routes[id] = d
	}
	return r
}

func (r *Router) route(id combat.ID) (combat.Decider, error) {
	d, ok := r.routes[id]
	if !ok {
		return nil, fmt.Errorf("%w: no decider registered for combatant %s", combat.ErrDispatch, id)
	}
	return d, nil
}

// Inform forwards msg to the decider of id.
func (r *Router) Inform(ctx context.Context, id combat.ID, msg string) error {
	d, err := r.route(id)
	if err != nil {
		return err
	}
	return d.Inform(ctx, id, msg)
}

// ChooseMove forwards the choice to the decider of actor.
func (r *Router) ChooseMove(ctx context.Context, moves []combat.Move, actor, opponent combat.Combatant) (int, error) {
	d, err := r.route(actor.ID)
	if err != nil {
		return 0, err
	}
	return d.ChooseMove(ctx, moves, actor, opponent)
}
