// Package autoplay plays runs headless with a pluggable Chooser and reports
// the results.
package autoplay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/scoundrel/internal/game/run"
)

// ErrUnknownAction is returned by ParseAction for an unrecognised name.
var ErrUnknownAction = errors.New("unknown action")

// Action is one of the four run actions.
type Action int

const (
	ActionTake Action = iota
	ActionWeapon
	ActionBarehand
	ActionAvoid
)

// String returns the action name used by strategies and reports.
func (a Action) String() string {
	switch a {
	case ActionTake:
		return "take"
	case ActionWeapon:
		return "weapon"
	case ActionBarehand:
		return "barehand"
	case ActionAvoid:
		return "avoid"
	default:
		return "unknown"
	}
}

// ParseAction maps a case-insensitive action name to an Action.
//
// Postcondition: Returns ErrUnknownAction wrapped with the name on failure.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "take":
		return ActionTake, nil
	case "weapon":
		return ActionWeapon, nil
	case "barehand":
		return ActionBarehand, nil
	case "avoid":
		return ActionAvoid, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Decision is an action and the 0-based slot it targets. Slot is ignored for
// ActionAvoid.
type Decision struct {
	Action Action
	Slot   int
}

// String formats the decision with a 1-based slot, matching the quick-pick keys.
func (d Decision) String() string {
	if d.Action == ActionAvoid {
		return d.Action.String()
	}
	return fmt.Sprintf("%s %d", d.Action, d.Slot+1)
}

// Chooser picks the next decision for a run in progress.
type Chooser interface {
	Choose(v run.View) (Decision, error)
}

// Apply performs d on r.
//
// Postcondition: on error r is unchanged.
func Apply(r *run.Run, d Decision) (run.View, error) {
	switch d.Action {
	case ActionTake:
		return r.Take(d.Slot)
	case ActionWeapon:
		return r.ForceWeapon(d.Slot)
	case ActionBarehand:
		return r.ForceBarehand(d.Slot)
	case ActionAvoid:
		return r.Avoid()
	default:
		return r.View(), fmt.Errorf("%w: %d", ErrUnknownAction, int(d.Action))
	}
}
