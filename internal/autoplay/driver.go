package autoplay

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/game/run"
)

// ErrStepLimit is returned when a run is still in progress after the
// configured number of actions.
var ErrStepLimit = errors.New("step limit reached")

// Step is one applied decision.
type Step struct {
	Decision Decision
	// Fallback is set when the primary chooser's decision was replaced.
	Fallback bool
}

// Result summarises one played run.
type Result struct {
	RunID     uuid.UUID
	Outcome   run.Outcome
	Score     int
	HP        int
	Rooms     int
	Steps     []Step
	Fallbacks int
	// Final is the view after the last action.
	Final run.View
}

// Driver plays a run to completion with a chooser, falling back to Greedy
// whenever the chooser fails or picks an illegal action.
type Driver struct {
	chooser  Chooser
	fallback Chooser
	maxSteps int
	logger   *zap.Logger
}

// NewDriver creates a Driver.
//
// Precondition: chooser and logger must be non-nil; maxSteps > 0.
func NewDriver(chooser Chooser, maxSteps int, logger *zap.Logger) *Driver {
	return &Driver{
		chooser:  chooser,
		fallback: Greedy{},
		maxSteps: maxSteps,
		logger:   logger,
	}
}

// Play drives r until it is Won or Lost.
//
// Precondition: r must not be shared with another caller.
// Postcondition: Returns the Result on a terminal run. On ctx cancellation or
// ErrStepLimit the partial Result is returned with the error.
func (d *Driver) Play(ctx context.Context, r *run.Run) (Result, error) {
	res := Result{RunID: r.ID()}
	v := r.View()
	for !v.Outcome.Terminal() {
		if err := ctx.Err(); err != nil {
			return d.finish(res, v), err
		}
		if len(res.Steps) >= d.maxSteps {
			return d.finish(res, v), fmt.Errorf("run %s: %w after %d actions", r.ID(), ErrStepLimit, d.maxSteps)
		}

		step, next, err := d.step(r, v)
		if err != nil {
			return d.finish(res, v), err
		}
		res.Steps = append(res.Steps, step)
		if step.Fallback {
			res.Fallbacks++
		}
		v = next
	}
	return d.finish(res, v), nil
}

func (d *Driver) step(r *run.Run, v run.View) (Step, run.View, error) {
	dec, err := d.chooser.Choose(v)
	if err == nil {
		next, err := Apply(r, dec)
		if err == nil {
			return Step{Decision: dec}, next, nil
		}
		if !run.IsActionError(err) && !errors.Is(err, ErrUnknownAction) {
			return Step{}, v, err
		}
		d.logger.Debug("illegal decision",
			zap.String("decision", dec.String()),
			zap.Error(err),
		)
	} else {
		d.logger.Warn("chooser failed", zap.Error(err))
	}

	dec, err = d.fallback.Choose(v)
	if err != nil {
		return Step{}, v, fmt.Errorf("fallback chooser: %w", err)
	}
	next, err := Apply(r, dec)
	if err != nil {
		return Step{}, v, fmt.Errorf("fallback decision %s: %w", dec, err)
	}
	return Step{Decision: dec, Fallback: true}, next, nil
}

func (d *Driver) finish(res Result, v run.View) Result {
	res.Outcome = v.Outcome
	res.Score = v.Score
	res.HP = v.HP
	res.Rooms = v.RoomNumber
	res.Final = v
	d.logger.Info("autoplay run finished",
		zap.String("run", res.RunID.String()),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("score", res.Score),
		zap.Int("steps", len(res.Steps)),
		zap.Int("fallbacks", res.Fallbacks),
	)
	return res
}
