package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/brawl/internal/battlelog"
	"github.com/cory-johannsen/brawl/internal/game/combat"
	"github.com/cory-johannsen/brawl/internal/storage/postgres"
	"github.com/cory-johannsen/brawl/internal/testutil"
)

func setupRepo(t *testing.T) (*postgres.BattleLogRepository, *testutil.PostgresContainer) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewBattleLogRepository(pc.RawPool), pc
}

func makeEntry(a, b combat.ID, ended time.Time) *battlelog.Entry {
	return &battlelog.Entry{
		ID:        uuid.New(),
		MatchID:   uuid.New(),
		Mode:      "gemgrab",
		Outcome:   a.String() + " defeats " + b.String(),
		Rounds:    19,
		StartedAt: ended.Add(-time.Second),
		EndedAt:   ended,
		Players: []battlelog.Player{
			{CombatantID: a, Class: "brute", Level: 5, Resources: 10, Won: true},
			{CombatantID: b, Class: "sniper", Level: 3, Resources: 9},
		},
	}
}

func TestBattleLogRepository_SaveAndGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	e := makeEntry(1, 2, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, repo.Save(ctx, e))

	got, err := repo.GetByMatchID(ctx, e.MatchID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "gemgrab", got.Mode)
	assert.Equal(t, 19, got.Rounds)
	assert.True(t, e.EndedAt.Equal(got.EndedAt))
	assert.Equal(t, e.Players, got.Players)
}

func TestBattleLogRepository_SaveDuplicate(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	e := makeEntry(1, 2, time.Now())
	require.NoError(t, repo.Save(ctx, e))
	assert.ErrorIs(t, repo.Save(ctx, e), postgres.ErrBattleLogExists)

	again := makeEntry(1, 2, time.Now())
	again.MatchID = e.MatchID
	assert.ErrorIs(t, repo.Save(ctx, again), postgres.ErrBattleLogExists)
}

func TestBattleLogRepository_GetByMatchID_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.GetByMatchID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postgres.ErrBattleLogNotFound)
}

func TestBattleLogRepository_ListByCombatant(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	base := time.Now().UTC()

	older := makeEntry(10, 20, base.Add(-time.Hour))
	newer := makeEntry(30, 10, base)
	other := makeEntry(30, 40, base)
	for _, e := range []*battlelog.Entry{older, newer, other} {
		require.NoError(t, repo.Save(ctx, e))
	}

	got, err := repo.ListByCombatant(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID, "most recent first")
	assert.Equal(t, older.ID, got[1].ID)
	for _, e := range got {
		assert.Len(t, e.Players, 2)
	}

	limited, err := repo.ListByCombatant(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.ID, limited[0].ID)

	none, err := repo.ListByCombatant(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProperty_BattleLogRepository_PlayersRoundTrip(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		e := makeEntry(
			combat.ID(rapid.Uint32Range(1, 1000).Draw(rt, "a")),
			combat.ID(rapid.Uint32Range(1001, 2000).Draw(rt, "b")),
			time.Now(),
		)
		for i := range e.Players {
			e.Players[i].Level = rapid.IntRange(1, 10).Draw(rt, "level")
			e.Players[i].Resources = rapid.IntRange(0, 20).Draw(rt, "resources")
		}
		if err := repo.Save(ctx, e); err != nil {
			rt.Fatalf("Save: %v", err)
		}
		got, err := repo.GetByMatchID(ctx, e.MatchID)
		if err != nil {
			rt.Fatalf("GetByMatchID: %v", err)
		}
		if len(got.Players) != 2 || got.Players[0] != e.Players[0] || got.Players[1] != e.Players[1] {
			rt.Fatalf("players mismatch: want %v got %v", e.Players, got.Players)
		}
	})
}

func TestMigrations_UpDown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	pc := testutil.NewPostgresContainer(t)

	m, err := migrate.New("file://"+testutil.MigrationsDir(t), pc.DSN())
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	_, _, err = m.Version()
	assert.ErrorIs(t, err, migrate.ErrNilVersion)
}

func TestPool_Ready(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	err := pc.Pool.Ready(ctx, 5*time.Second)
	assert.ErrorIs(t, err, postgres.ErrSchemaOutdated, "no schema_migrations table yet")

	m, err := migrate.New("file://"+testutil.MigrationsDir(t), pc.DSN())
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Up())
	assert.NoError(t, pc.Pool.Ready(ctx, 5*time.Second))

	_, err = pc.RawPool.Exec(ctx, `UPDATE schema_migrations SET dirty = true`)
	require.NoError(t, err)
	assert.ErrorIs(t, pc.Pool.Ready(ctx, 5*time.Second), postgres.ErrSchemaDirty)
}

func TestPool_ApplicationName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	pc := testutil.NewPostgresContainer(t)

	var name string
	err := pc.RawPool.QueryRow(context.Background(), `SELECT current_setting('application_name')`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, postgres.ApplicationName, name)
	assert.NotNil(t, pc.Pool.BattleLogs())
}
