// Package battlelog builds the post-match record handed to logging
// collaborators and persistence.
package battlelog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/game/match"
)

// Player is one side of a finished match.
type Player struct {
	CombatantID combat.ID
	Class       string
	Level       int
	// Resources is the final gem or power-up count.
	Resources int
	Won       bool
}

// Entry is the battle log record of one finished match.
//
// Invariant: Players holds both sides in arena order; at most one has Won set.
type Entry struct {
	ID        uuid.UUID
	MatchID   uuid.UUID
	Mode      string
	Outcome   string
	Draw      bool
	Rounds    int
	StartedAt time.Time
	EndedAt   time.Time
	Players   []Player
}

// FromResult builds an Entry from a completed match result.
//
// Precondition: res must be non-nil.
// Postcondition: Returns an Entry with a fresh ID and exactly two players.
func FromResult(res *match.Result) *Entry {
	e := &Entry{
		ID:        uuid.New(),
		MatchID:   res.MatchID,
		Mode:      res.Mode.String(),
		Outcome:   res.Outcome.String(),
		Draw:      res.Outcome.IsDraw(),
		Rounds:    res.Rounds,
		StartedAt: res.StartedAt,
		EndedAt:   res.EndedAt,
		Players:   make([]Player, 0, len(res.Combatants)),
	}
	for i, c := range res.Combatants {
		e.Players = append(e.Players, Player{
			CombatantID: c.ID,
			Class:       c.Class.Info().ID,
			Level:       c.Level,
			Resources:   res.Resources[i],
			Won:         res.Won(c.ID),
		})
	}
	return e
}

// Winner returns the winning player, or false for a draw.
func (e *Entry) Winner() (Player, bool) {
	for _, p := range e.Players {
		if p.Won {
			return p, true
		}
	}
	return Player{}, false
}

// Recorder receives finished battle log entries.
type Recorder interface {
	Save(ctx context.Context, e *Entry) error
}

// LogRecorder writes entries to a zap logger at Info level.
type LogRecorder struct {
	logger *zap.Logger
}

// NewLogRecorder returns a Recorder backed by logger.
//
// Precondition: logger must be non-nil.
func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Save logs e.
func (r *LogRecorder) Save(_ context.Context, e *Entry) error {
	fields := []zap.Field{
		zap.String("entry_id", e.ID.String()),
		zap.String("match_id", e.MatchID.String()),
		zap.String("mode", e.Mode),
		zap.String("outcome", e.Outcome),
		zap.Int("rounds", e.Rounds),
	}
	for i, p := range e.Players {
		fields = append(fields, zap.Object(sideKey(i), p))
	}
	r.logger.Info("battle log", fields...)
	return nil
}

func sideKey(i int) string {
	if i == 0 {
		return "side_a"
	}
	return "side_b"
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (p Player) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("combatant", p.CombatantID.String())
	enc.AddString("class", p.Class)
	enc.AddInt("level", p.Level)
	enc.AddInt("resources", p.Resources)
	enc.AddBool("won", p.Won)
	return nil
}

// Multi fans an entry out to several recorders, joining their errors.
type Multi []Recorder

// Save forwards e to every recorder in order.
func (m Multi) Save(ctx context.Context, e *Entry) error {
	var errs []error
	for _, r := range m {
		if err := r.Save(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
