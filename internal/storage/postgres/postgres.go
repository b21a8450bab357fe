// Package postgres persists battle logs in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/brawl/internal/config"
)

// ApplicationName is reported to the server for every pooled connection.
const ApplicationName = "brawl"

// SchemaVersion is the migration version the battle log queries are written against.
const SchemaVersion = 1

// ErrSchemaOutdated is returned when the battle log migrations have not been applied.
var ErrSchemaOutdated = errors.New("battle log schema is not migrated")

// ErrSchemaDirty is returned when a migration failed part way.
var ErrSchemaDirty = errors.New("battle log schema is dirty")

// Pool is the battle log store's connection pool.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool opens a connection pool tagged with ApplicationName.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pool that answered a ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Ready reports whether the database answers within timeout and carries the
// battle log schema at SchemaVersion or later.
func (p *Pool) Ready(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return p.checkSchema(ctx)
}

// checkSchema reads the version row maintained by golang-migrate.
func (p *Pool) checkSchema(ctx context.Context) error {
	var (
		version int64
		dirty   bool
	)
	err := p.pool.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	switch {
	case errors.Is(err, pgx.ErrNoRows), hasSQLState(err, sqlStateUndefinedTable):
		return fmt.Errorf("%w: no migrations applied", ErrSchemaOutdated)
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrSchemaDirty, version)
	case version < SchemaVersion:
		return fmt.Errorf("%w: at version %d, need %d", ErrSchemaOutdated, version, SchemaVersion)
	}
	return nil
}

// BattleLogs returns a repository over the pool.
func (p *Pool) BattleLogs() *BattleLogRepository {
	return NewBattleLogRepository(p.pool)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
