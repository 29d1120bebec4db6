package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/config"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
	"github.com/cory-johannsen/scoundrel/internal/storage"
	"github.com/cory-johannsen/scoundrel/internal/storage/postgres"
	"github.com/cory-johannsen/scoundrel/internal/storage/sqlite"
	"github.com/cory-johannsen/scoundrel/internal/testutil"
)

func TestOpenLeaderboard_JSON(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Leaderboard.Path = filepath.Join(t.TempDir(), "scores.json")

	store, closeFn, err := storage.OpenLeaderboard(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	fs, ok := store.(*leaderboard.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.Leaderboard.Path, fs.Path())
}

func TestOpenLeaderboard_SQLite(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Leaderboard.Backend = config.BackendSQLite
	cfg.Leaderboard.SQLitePath = filepath.Join(t.TempDir(), "scores.db")

	ctx := context.Background()
	store, closeFn, err := storage.OpenLeaderboard(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &sqlite.Store{}, store)

	pos, err := store.Record(ctx, leaderboard.Entry{Name: "lite", Score: 9, Timestamp: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestOpenLeaderboard_Postgres(t *testing.T) {
	testutil.SkipIfShort(t)
	pc := testutil.NewPostgresContainer(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Leaderboard.Backend = config.BackendPostgres
	cfg.Database = pc.Config

	ctx := context.Background()
	store, closeFn, err := storage.OpenLeaderboard(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &postgres.ScoreRepository{}, store)

	pos, err := store.Record(ctx, leaderboard.Entry{Name: "pg", Score: 3, Timestamp: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}
