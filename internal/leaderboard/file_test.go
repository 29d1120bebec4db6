package leaderboard_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/deck"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
)

func newStore(t *testing.T) *leaderboard.FileStore {
	t.Helper()
	return leaderboard.NewFileStore(filepath.Join(t.TempDir(), "scores.json"), zap.NewNop())
}

func TestFileStore_EmptyWhenMissing(t *testing.T) {
	s := newStore(t)
	top, err := s.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestFileStore_RecordSortsAndRanks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	pos, err := s.Record(ctx, leaderboard.Entry{Name: "a", Score: 5, Timestamp: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = s.Record(ctx, leaderboard.Entry{Name: "b", Score: 20, Won: true, Timestamp: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = s.Record(ctx, leaderboard.Entry{Name: "c", Score: -30, Timestamp: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	pos, err = s.Record(ctx, leaderboard.Entry{Name: "d", Score: 5, Timestamp: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, pos, "ties rank after earlier entries")

	top, err := s.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Name)
	assert.Equal(t, "a", top[1].Name)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var onDisk []map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 4)
	assert.Equal(t, "b", onDisk[0]["name"])
	assert.Contains(t, onDisk[0], "ts")
}

func TestFileStore_Corrupt(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.Top(context.Background(), 10)
	assert.ErrorIs(t, err, leaderboard.ErrCorrupt)
	_, err = s.Record(context.Background(), leaderboard.Entry{Name: "x"})
	assert.ErrorIs(t, err, leaderboard.ErrCorrupt)

	raw, _ := os.ReadFile(s.Path())
	assert.Equal(t, "{not json", string(raw), "corrupt file is left alone")
}

func TestFileStore_Property_TopIsSortedPrefix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir, err := os.MkdirTemp("", "scores")
		require.NoError(rt, err)
		defer os.RemoveAll(dir)
		s := leaderboard.NewFileStore(filepath.Join(dir, "s.json"), zap.NewNop())

		scores := rapid.SliceOfN(rapid.IntRange(-200, 30), 1, 25).Draw(rt, "scores")
		for i, sc := range scores {
			_, err := s.Record(context.Background(), leaderboard.Entry{Name: "p", Score: sc, Timestamp: int64(i)})
			require.NoError(rt, err)
		}
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		top, err := s.Top(context.Background(), n)
		require.NoError(rt, err)
		assert.Equal(rt, min(n, len(scores)), len(top))
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(rt, top[i-1].Score, top[i].Score)
		}
	})
}

func TestFromRun(t *testing.T) {
	r := run.New(deck.New([]card.Card{card.New(6, card.Clubs)}))
	_, err := r.Take(0)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	e := leaderboard.FromRun("Rogue", r.View(), now)
	assert.Equal(t, leaderboard.Entry{Name: "Rogue", Score: 14, Won: true, Timestamp: 1700000000, RunID: r.ID().String()}, e)
	assert.Equal(t, now, e.Time())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Rogue", leaderboard.NormalizeName("  Rogue  ", "X"))
	assert.Equal(t, "X", leaderboard.NormalizeName("   ", "X"))
	assert.Equal(t, "abc", leaderboard.NormalizeName("a\tb\x00c", "X"))
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaa", leaderboard.NormalizeName("aaaaaaaaaaaaaaaaaaaaaaaaa", "X"))
	assert.Equal(t, "Ren", leaderboard.NormalizeName("Ren♠", "X"))
}

func TestAcceptsRune(t *testing.T) {
	assert.True(t, leaderboard.AcceptsRune('a'))
	assert.True(t, leaderboard.AcceptsRune(' '))
	assert.True(t, leaderboard.AcceptsRune('~'))
	assert.False(t, leaderboard.AcceptsRune('\n'))
	assert.False(t, leaderboard.AcceptsRune('é'))
}
