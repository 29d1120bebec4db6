package render

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
)

// CardColor returns the ANSI color for a card's category.
func CardColor(c card.Card) string {
	switch c.Category() {
	case card.Weapon:
		return Yellow
	case card.Potion:
		return BrightRed
	default:
		return BrightWhite
	}
}

// Card formats c with its category color.
func Card(c card.Card) string {
	return Colorize(CardColor(c), c.String())
}

// Weapon describes the equipped weapon and its cap, e.g. "7 (last kill 5)".
func Weapon(v run.View) string {
	if v.Weapon == 0 {
		return "none"
	}
	if v.Cap == 0 {
		return v.Weapon.Label()
	}
	return fmt.Sprintf("%s (last kill %s)", v.Weapon.Label(), v.Cap.Label())
}

// Status formats the one-line HP, weapon and deck summary.
func Status(v run.View) string {
	hp := Green
	switch {
	case v.HP <= 5:
		hp = Red
	case v.HP <= 10:
		hp = Yellow
	}
	return fmt.Sprintf("Room %d  HP %s  Weapon %s  Deck %d",
		v.RoomNumber, Colorf(hp, "%d/%d", v.HP, v.MaxHP), Weapon(v), v.DeckRemaining)
}

// Room formats the four slots with their quick-pick numbers.
func Room(v run.View) string {
	parts := make([]string, 0, len(v.Slots))
	for i, s := range v.Slots {
		if !s.Occupied {
			parts = append(parts, Colorf(Dim, "%d:--", i+1))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%s", i+1, Card(s.Card)))
	}
	return strings.Join(parts, "  ")
}

// Event formats a history event, colored by kind.
func Event(e run.Event) string {
	switch e.Kind {
	case run.EventRoomStart:
		return Colorize(Cyan, e.String())
	case run.EventPotion:
		return Colorize(Green, e.String())
	case run.EventFight:
		if e.Damage > 0 {
			return Colorize(Red, e.String())
		}
		return e.String()
	case run.EventEquip:
		return Colorize(Yellow, e.String())
	case run.EventAvoid, run.EventPotionDiscarded:
		return Colorize(Dim, e.String())
	default:
		return e.String()
	}
}

// Outcome formats the final line of a finished run.
func Outcome(v run.View) string {
	switch v.Outcome {
	case run.Won:
		return Colorf(Bold+Green, "Dungeon cleared! Score %d", v.Score)
	case run.Lost:
		return Colorf(Bold+Red, "You died in room %d. Score %d", v.RoomNumber, v.Score)
	default:
		return Colorf(Dim, "Run in progress")
	}
}
