package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/brawl/internal/battlelog"
	"github.com/cory-johannsen/brawl/internal/game/combat"
)

// ErrBattleLogExists is returned when a match already has a stored battle log.
var ErrBattleLogExists = errors.New("battle log already exists")

// ErrBattleLogNotFound is returned when a battle log lookup yields no results.
var ErrBattleLogNotFound = errors.New("battle log not found")

// BattleLogRepository persists battle log entries.
type BattleLogRepository struct {
	db *pgxpool.Pool
}

// NewBattleLogRepository creates a BattleLogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleLogRepository(db *pgxpool.Pool) *BattleLogRepository {
	return &BattleLogRepository{db: db}
}

// Save inserts e and its players in one transaction.
//
// Precondition: e must be non-nil with a non-nil MatchID.
// Postcondition: Returns ErrBattleLogExists if the entry or its match was already saved.
func (r *BattleLogRepository) Save(ctx context.Context, e *battlelog.Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning battle log transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO battle_logs (id, match_id, mode, outcome, draw, rounds, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.MatchID, e.Mode, e.Outcome, e.Draw, e.Rounds, e.StartedAt, e.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrBattleLogExists
		}
		return fmt.Errorf("inserting battle log: %w", err)
	}

	batch := &pgx.Batch{}
	for side, p := range e.Players {
		batch.Queue(`
			INSERT INTO battle_log_players (battle_log_id, side, combatant_id, class, level, resources, won)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, side, int64(p.CombatantID), p.Class, p.Level, p.Resources, p.Won,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting battle log players: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing battle log: %w", err)
	}
	return nil
}

const selectEntries = `
	SELECT l.id, l.match_id, l.mode, l.outcome, l.draw, l.rounds, l.started_at, l.ended_at,
	       p.combatant_id, p.class, p.level, p.resources, p.won
	FROM battle_logs l
	JOIN battle_log_players p ON p.battle_log_id = l.id`

// GetByMatchID returns the battle log of a match.
//
// Postcondition: Returns the Entry or ErrBattleLogNotFound.
func (r *BattleLogRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID) (*battlelog.Entry, error) {
	rows, err := r.db.Query(ctx, selectEntries+`
		WHERE l.match_id = $1
		ORDER BY p.side`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying battle log: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrBattleLogNotFound
	}
	return entries[0], nil
}

// ListByCombatant returns up to limit battle logs in which id took part,
// most recent first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *BattleLogRepository) ListByCombatant(ctx context.Context, id combat.ID, limit int) ([]*battlelog.Entry, error) {
	rows, err := r.db.Query(ctx, selectEntries+`
		WHERE l.id IN (
			SELECT battle_log_id FROM battle_log_players
			JOIN battle_logs ON battle_logs.id = battle_log_players.battle_log_id
			WHERE combatant_id = $1
			ORDER BY battle_logs.ended_at DESC
			LIMIT $2
		)
		ORDER BY l.ended_at DESC, l.id, p.side`,
		int64(id), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle logs: %w", err)
	}
	return scanEntries(rows)
}

// scanEntries folds joined log/player rows into entries, preserving row order.
func scanEntries(rows pgx.Rows) ([]*battlelog.Entry, error) {
	defer rows.Close()

	entries := make([]*battlelog.Entry, 0)
	var current *battlelog.Entry
	for rows.Next() {
		var (
			e           battlelog.Entry
			p           battlelog.Player
			combatantID int64
		)
		if err := rows.Scan(
			&e.ID, &e.MatchID, &e.Mode, &e.Outcome, &e.Draw, &e.Rounds, &e.StartedAt, &e.EndedAt,
			&combatantID, &p.Class, &p.Level, &p.Resources, &p.Won,
		); err != nil {
			return nil, fmt.Errorf("scanning battle log row: %w", err)
		}
		p.CombatantID = combat.ID(combatantID)
		if current == nil || current.ID != e.ID {
			current = &e
			entries = append(entries, current)
		}
		current.Players = append(current.Players, p)
	}
	return entries, rows.Err()
}

// SQLSTATE codes inspected by the repository.
const (
	sqlStateUniqueViolation = "23505"
	sqlStateUndefinedTable  = "42P01"
)

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	return hasSQLState(err, sqlStateUniqueViolation)
}

// hasSQLState reports whether err wraps a PostgreSQL error with code.
func hasSQLState(err error, code string) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == code
	}
	return false
}
