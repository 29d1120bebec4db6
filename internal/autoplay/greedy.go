package autoplay

import (
	"errors"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
)

// ErrNoMove is returned when a view has no occupied slot to act on.
var ErrNoMove = errors.New("no move available")

// Greedy is the built-in chooser. It heals when hurt, upgrades its weapon,
// fights the cheapest monster, and avoids a room whose every monster would
// kill it.
type Greedy struct{}

// Choose implements Chooser.
//
// Precondition: v.Outcome is InProgress.
// Postcondition: the returned decision is legal for v, or ErrNoMove.
func (Greedy) Choose(v run.View) (Decision, error) {
	occupied := v.Occupied()
	if len(occupied) == 0 {
		return Decision{}, ErrNoMove
	}

	if v.HP < v.MaxHP {
		if i, ok := best(v, occupied, func(s run.SlotView) (int, bool) {
			return s.Projection.Heal, s.Card.Category() == card.Potion && s.Projection.Heal > 0
		}); ok {
			return Decision{Action: ActionTake, Slot: i}, nil
		}
	}

	if i, ok := best(v, occupied, func(s run.SlotView) (int, bool) {
		return int(s.Card.Rank), s.Card.Category() == card.Weapon && upgrade(v, s.Card.Rank)
	}); ok {
		return Decision{Action: ActionTake, Slot: i}, nil
	}

	monster, ok := best(v, occupied, func(s run.SlotView) (int, bool) {
		return -s.Projection.Damage, s.Card.Category() == card.Monster
	})
	if ok && v.Slots[monster].Projection.Damage >= v.HP && v.CanAvoid {
		return Decision{Action: ActionAvoid}, nil
	}
	if ok && v.Slots[monster].Projection.Damage < v.HP {
		return Decision{Action: ActionTake, Slot: monster}, nil
	}

	// Nothing useful: take the card that costs the least.
	cheapest, _ := best(v, occupied, func(s run.SlotView) (int, bool) {
		return -s.Projection.Damage, true
	})
	return Decision{Action: ActionTake, Slot: cheapest}, nil
}

// upgrade reports whether equipping w improves on the current weapon. A capped
// weapon loses to any weapon stronger than its cap.
func upgrade(v run.View, w card.Rank) bool {
	switch {
	case v.Weapon == 0, w > v.Weapon:
		return true
	default:
		return v.Cap != 0 && w > v.Cap
	}
}

// best returns the occupied slot with the highest score among those accepted
// by f. Ties go to the lowest slot.
func best(v run.View, occupied []int, f func(run.SlotView) (int, bool)) (int, bool) {
	idx, top, found := 0, 0, false
	for _, i := range occupied {
		score, ok := f(v.Slots[i])
		if !ok {
			continue
		}
		if !found || score > top {
			idx, top, found = i, score, true
		}
	}
	return idx, found
}
