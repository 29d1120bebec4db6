package autoplay

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/scoundrel/internal/game/run"
)

// RunReport is the per-run section of a Report.
type RunReport struct {
	ID        string `yaml:"id"`
	Outcome   string `yaml:"outcome"`
	Score     int    `yaml:"score"`
	HP        int    `yaml:"hp"`
	Rooms     int    `yaml:"rooms"`
	Steps     int    `yaml:"steps"`
	Fallbacks int    `yaml:"fallbacks"`
	// Rank is the 0-based leaderboard position when the run was recorded.
	Rank  *int   `yaml:"rank,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// Summary aggregates every run in a Report.
type Summary struct {
	Runs      int     `yaml:"runs"`
	Won       int     `yaml:"won"`
	Lost      int     `yaml:"lost"`
	Aborted   int     `yaml:"aborted"`
	BestScore int     `yaml:"best_score"`
	MeanScore float64 `yaml:"mean_score"`
}

// Report is the YAML document written after an autoplay session.
type Report struct {
	Strategy string      `yaml:"strategy"`
	Seed     *uint64     `yaml:"seed,omitempty"`
	Summary  Summary     `yaml:"summary"`
	Runs     []RunReport `yaml:"runs"`
}

// Add appends one run and updates the summary. rank < 0 means not recorded.
func (r *Report) Add(res Result, rank int, runErr error) {
	rr := RunReport{
		ID:        res.RunID.String(),
		Outcome:   res.Outcome.String(),
		Score:     res.Score,
		HP:        res.HP,
		Rooms:     res.Rooms,
		Steps:     len(res.Steps),
		Fallbacks: res.Fallbacks,
	}
	if rank >= 0 {
		rr.Rank = &rank
	}

	s := &r.Summary
	switch {
	case runErr != nil:
		rr.Error = runErr.Error()
		s.Aborted++
	case res.Outcome == run.Won:
		s.Won++
	default:
		s.Lost++
	}
	if runErr == nil {
		scored := s.Won + s.Lost
		if scored == 1 || res.Score > s.BestScore {
			s.BestScore = res.Score
		}
		s.MeanScore += (float64(res.Score) - s.MeanScore) / float64(scored)
	}
	s.Runs++
	r.Runs = append(r.Runs, rr)
}

// WriteYAML encodes the report to w.
//
// Postcondition: w holds a complete YAML document, or a non-nil error.
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}
