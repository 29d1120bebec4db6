package run

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/combat"
	"github.com/cory-johannsen/scoundrel/internal/game/room"
)

// SlotView is one room slot as a renderer sees it.
type SlotView struct {
	Card     card.Card
	Occupied bool
	// Projection previews the default action on this card.
	Projection combat.Projection
	// WeaponUsable reports whether the card is a monster the weapon may fight.
	WeaponUsable bool
}

// View is a read-only snapshot of a run.
type View struct {
	ID            uuid.UUID
	HP            int
	MaxHP         int
	Weapon        card.Rank
	Cap           card.Rank
	DeckRemaining int
	Slots         [room.Size]SlotView
	Outcome       Outcome
	Score         int
	RoomNumber    int
	Picks         int
	PotionUsed    bool
	LastWasAvoid  bool
	CanAvoid      bool
	// LastCard is the most recently taken card, valid when HasLast is true.
	LastCard card.Card
	HasLast  bool
	History  []Event
}

// View returns a snapshot of the run.
//
// Postcondition: mutating the returned View never affects the Run.
func (r *Run) View() View {
	v := View{
		ID:            r.id,
		HP:            r.player.HP,
		MaxHP:         combat.MaxHP,
		Weapon:        r.mem.Weapon,
		Cap:           r.mem.Cap,
		DeckRemaining: r.deck.Remaining(),
		Outcome:       r.outcome,
		Score:         r.score,
		RoomNumber:    r.roomNumber,
		Picks:         r.picks,
		PotionUsed:    r.player.PotionUsed,
		LastWasAvoid:  r.lastWasAvoid,
		CanAvoid:      !r.outcome.Terminal() && !r.lastWasAvoid && r.room.Count() == room.Size,
		LastCard:      r.last,
		HasLast:       r.hasLast,
		History:       append([]Event(nil), r.history...),
	}
	for i, s := range r.room.Slots() {
		sv := SlotView{Card: s.Card, Occupied: s.Occupied}
		if s.Occupied {
			sv.Projection = combat.Project(r.mem, r.player, s.Card)
			sv.WeaponUsable = s.Card.Category() == card.Monster && r.mem.CanUseOn(s.Card.Rank)
		}
		v.Slots[i] = sv
	}
	return v
}

// Occupied returns the indices of occupied slots in order.
func (v View) Occupied() []int {
	var out []int
	for i, s := range v.Slots {
		if s.Occupied {
			out = append(out, i)
		}
	}
	return out
}

// RoomCards returns the occupied cards in slot order.
func (v View) RoomCards() []card.Card {
	var out []card.Card
	for _, s := range v.Slots {
		if s.Occupied {
			out = append(out, s.Card)
		}
	}
	return out
}
