package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
	"github.com/cory-johannsen/scoundrel/internal/storage/postgres"
	"github.com/cory-johannsen/scoundrel/internal/testutil"
)

func newRepo(t *testing.T) *postgres.ScoreRepository {
	t.Helper()
	testutil.SkipIfShort(t)
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewScoreRepository(pc.RawPool)
}

func TestScoreRepository_RecordAndTop(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	runID := uuid.NewString()
	pos, err := repo.Record(ctx, leaderboard.Entry{Name: "a", Score: 5, Timestamp: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = repo.Record(ctx, leaderboard.Entry{Name: "b", Score: 20, Won: true, Timestamp: 200, RunID: runID})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = repo.Record(ctx, leaderboard.Entry{Name: "c", Score: 5, Timestamp: 300})
	require.NoError(t, err)
	assert.Equal(t, 2, pos, "ties rank after earlier entries")

	top, err = repo.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, leaderboard.Entry{Name: "b", Score: 20, Won: true, Timestamp: 200, RunID: runID}, top[0])
	assert.Equal(t, "a", top[1].Name)
	assert.Empty(t, top[1].RunID)
}

func TestScoreRepository_NegativeScores(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for i, s := range []int{-40, -3, -188} {
		_, err := repo.Record(ctx, leaderboard.Entry{Name: "p", Score: s, Timestamp: int64(i)})
		require.NoError(t, err)
	}
	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int{-3, -40, -188}, []int{top[0].Score, top[1].Score, top[2].Score})
}

func TestMigrateUp_Idempotent(t *testing.T) {
	testutil.SkipIfShort(t)
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	require.NoError(t, postgres.MigrateUp(pc.DSN()))
}

func TestPool_HealthRequiresSchema(t *testing.T) {
	testutil.SkipIfShort(t)
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	err := pc.Pool.Health(ctx, time.Second)
	assert.ErrorIs(t, err, postgres.ErrSchemaMissing)

	pc.ApplyMigrations(t)
	assert.NoError(t, pc.Pool.Health(ctx, time.Second))

	var app string
	require.NoError(t, pc.RawPool.QueryRow(ctx, `SELECT current_setting('application_name')`).Scan(&app))
	assert.Equal(t, postgres.ApplicationName, app)

	closed, err := postgres.NewPool(ctx, pc.Config)
	require.NoError(t, err)
	closed.Close()
	assert.Error(t, closed.Health(ctx, time.Second))
	assert.NotErrorIs(t, closed.Health(ctx, time.Second), postgres.ErrSchemaMissing)
}

func TestPool_Scores(t *testing.T) {
	testutil.SkipIfShort(t)
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()

	_, err := pc.Pool.Scores().Record(ctx, leaderboard.Entry{Name: "pool", Score: 1, Timestamp: 1})
	require.NoError(t, err)
	top, err := postgres.NewScoreRepository(pc.RawPool).Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "pool", top[0].Name)
}
