package ai

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/scripting"
)

// Board publishes the snapshots that Lua preconditions read through
// engine.combatant. Wire Lookup into scripting.Manager.GetCombatant.
type Board struct {
	mu     sync.RWMutex
	states map[string]*scripting.CombatantInfo
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{states: make(map[string]*scripting.CombatantInfo)}
}

// Publish replaces the snapshots of both sides of ws.
func (b *Board) Publish(ws *WorldState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states[ws.Self.UID] = ws.Self.Info()
	b.states[ws.Opponent.UID] = ws.Opponent.Info()
}

// Lookup returns the latest snapshot for uid, or nil.
func (b *Board) Lookup(uid string) *scripting.CombatantInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	info, ok := b.states[uid]
	if !ok {
		return nil
	}
	cp := *info
	return &cp
}

// Decider is a combat.Decider that plays the first planned move that is legal.
// When no planned move is legal it plays the first offered move.
type Decider struct {
	planner *Planner
	board   *Board
	logger  *zap.Logger
	// mu keeps Publish and Plan atomic for one decision.
	mu sync.Mutex
}

// NewDecider returns a bot decider.
//
// Precondition: planner and board must be non-nil.
func NewDecider(planner *Planner, board *Board, logger *zap.Logger) *Decider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decider{planner: planner, board: board, logger: logger}
}

// Inform logs the notification.
func (d *Decider) Inform(ctx context.Context, id combat.ID, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Debug("bot notified",
		zap.String("domain", d.planner.Domain().ID),
		zap.Stringer("combatant", id),
		zap.String("message", msg),
	)
	return nil
}

// ChooseMove plans against the snapshots and returns the index of the first
// planned move present in moves.
func (d *Decider) ChooseMove(ctx context.Context, moves []combat.Move, actor, opponent combat.Combatant) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ws := BuildWorldState(moves, actor, opponent)

	d.mu.Lock()
	d.board.Publish(ws)
	plan, err := d.planner.Plan(ws)
	d.mu.Unlock()
	if err != nil {
		return 0, err
	}

	for _, a := range plan {
		if idx := ws.IndexOf(a.Move); idx >= 0 {
			d.logger.Debug("bot move",
				zap.String("domain", d.planner.Domain().ID),
				zap.String("operator", a.Operator),
				zap.Stringer("move", a.Move),
			)
			return idx, nil
		}
	}
	return 0, nil
}
