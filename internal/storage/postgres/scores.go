package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
)

// ScoreRepository stores leaderboard entries in the scores table.
// It satisfies leaderboard.Store.
type ScoreRepository struct {
	db *pgxpool.Pool
}

// NewScoreRepository creates a ScoreRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the schema migrated.
func NewScoreRepository(db *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{db: db}
}

var _ leaderboard.Store = (*ScoreRepository)(nil)

// Record inserts e and returns the number of entries ranked above it. Entries
// with an equal score rank by insertion order.
//
// Postcondition: Returns the 0-based position of e, or a non-nil error.
func (r *ScoreRepository) Record(ctx context.Context, e leaderboard.Entry) (int, error) {
	var pos int
	err := r.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO scores (name, score, won, run_id, recorded_at)
			VALUES ($1, $2, $3, NULLIF($4, '')::uuid, to_timestamp($5))
			RETURNING id, score
		)
		SELECT COUNT(s.id)
		FROM ins LEFT JOIN scores s
		  ON s.score > ins.score OR (s.score = ins.score AND s.id < ins.id)`,
		e.Name, e.Score, e.Won, e.RunID, e.Timestamp,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("inserting score: %w", err)
	}
	return pos, nil
}

// Top returns at most n entries ordered by descending score.
//
// Precondition: n >= 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ScoreRepository) Top(ctx context.Context, n int) ([]leaderboard.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, score, won, EXTRACT(EPOCH FROM recorded_at)::BIGINT, COALESCE(run_id::text, '')
		FROM scores
		ORDER BY score DESC, id ASC
		LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	defer rows.Close()

	var out []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.Won, &e.Timestamp, &e.RunID); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scores: %w", err)
	}
	return out, nil
}
