// Package leaderboard records finished runs and reports the best scores.
package leaderboard

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cory-johannsen/scoundrel/internal/game/run"
)

const (
	// DefaultSize is the number of rows shown on the leaderboard.
	DefaultSize = 10
	// MaxNameLen is the longest player name accepted.
	MaxNameLen = 20
	// DefaultName is used when the player leaves the name blank.
	DefaultName = "Scoundrel"
)

// Entry is one recorded run.
type Entry struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Won       bool   `json:"won"`
	Timestamp int64  `json:"ts"`
	RunID     string `json:"run_id,omitempty"`
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time { return time.Unix(e.Timestamp, 0) }

// Store persists entries.
type Store interface {
	// Record saves e and returns its 0-based position among all entries
	// ordered by descending score, ties keeping insertion order.
	Record(ctx context.Context, e Entry) (int, error)
	// Top returns at most n entries ordered by descending score.
	Top(ctx context.Context, n int) ([]Entry, error)
}

// FromRun builds the entry for a finished run.
//
// Precondition: v.Outcome is terminal.
func FromRun(name string, v run.View, now time.Time) Entry {
	return Entry{
		Name:      name,
		Score:     v.Score,
		Won:       v.Outcome == run.Won,
		Timestamp: now.Unix(),
		RunID:     v.ID.String(),
	}
}

// Sort orders entries by descending score, keeping insertion order for ties.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
}

// NormalizeName trims s, drops anything but printable ASCII, and truncates to
// MaxNameLen. A blank result yields fallback.
func NormalizeName(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r > unicode.MaxASCII || !(unicode.IsGraphic(r) || r == ' ') {
			continue
		}
		if b.Len() == MaxNameLen {
			break
		}
		b.WriteRune(r)
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		return fallback
	}
	return name
}

// AcceptsRune reports whether r may be typed into a name field.
func AcceptsRune(r rune) bool {
	return r == ' ' || (r <= unicode.MaxASCII && unicode.IsGraphic(r))
}
