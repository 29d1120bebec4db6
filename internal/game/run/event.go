package run

import (
	"fmt"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
)

// EventKind tags an Event.
type EventKind int

const (
	EventRoomStart EventKind = iota
	EventPotion
	EventPotionDiscarded
	EventEquip
	EventFight
	EventAvoid
)

// Event is one entry in a run's history.
type Event struct {
	Kind EventKind
	// Room is the room number, set on every event.
	Room     int
	Card     card.Card
	Weapon   card.Rank
	Damage   int
	HPBefore int
	HPAfter  int
}

// String renders the event as a line of narration.
func (e Event) String() string {
	switch e.Kind {
	case EventRoomStart:
		return fmt.Sprintf("Room %d", e.Room)
	case EventPotion:
		return fmt.Sprintf("You drink a potion (%d). HP %d→%d.", e.Card.Value(), e.HPBefore, e.HPAfter)
	case EventPotionDiscarded:
		return fmt.Sprintf("You already drank a potion this turn; %s is discarded.", e.Card)
	case EventEquip:
		return fmt.Sprintf("You equip a weapon (%d).", e.Card.Value())
	case EventFight:
		switch {
		case e.Weapon == 0:
			return fmt.Sprintf("You fight barehanded. Monster %d hits you (%d dmg). HP %d→%d.",
				e.Card.Value(), e.Damage, e.HPBefore, e.HPAfter)
		case e.Damage > 0:
			return fmt.Sprintf("You strike with %d. Monster %d hits back (%d dmg). HP %d→%d.",
				e.Weapon, e.Card.Value(), e.Damage, e.HPBefore, e.HPAfter)
		default:
			return fmt.Sprintf("You strike with %d. Monster %d falls.", e.Weapon, e.Card.Value())
		}
	case EventAvoid:
		return "You avoid the room, slipping past the dangers."
	default:
		return "Something stirs in the dark."
	}
}
