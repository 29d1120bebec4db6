// Package room implements the four-card window a run is played through.
package room

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/deck"
)

// Size is the number of slots in a room.
const Size = 4

var (
	// ErrSlotEmpty is returned when a slot holds no card.
	ErrSlotEmpty = errors.New("slot is empty")
	// ErrIndexOutOfRange is returned for a slot index outside 0..3.
	ErrIndexOutOfRange = errors.New("slot index out of range")
	// ErrRepeatedAvoid is returned when avoiding right after another avoid.
	ErrRepeatedAvoid = errors.New("cannot avoid two rooms in a row")
	// ErrRoomNotFull is returned when avoiding a room that is not showing all four cards.
	ErrRoomNotFull = errors.New("may only avoid when four cards are showing")
)

// Slot is one position in the room. Occupied is false for an empty slot.
type Slot struct {
	Card     card.Card
	Occupied bool
}

// Room is a fixed array of slots. The zero value is an empty room.
//
// Invariant: slot indices are stable; taking a card never shifts the others.
type Room struct {
	slots [Size]Slot
}

// Refill draws from the front of d into the lowest empty slots until the room
// holds Size cards or d runs out.
//
// Postcondition: Count() == min(Size, previous Count() + d.Remaining() before the call).
// Returns the number of cards drawn.
func (r *Room) Refill(d *deck.Deck) int {
	drawn := 0
	for i := range r.slots {
		if r.slots[i].Occupied {
			continue
		}
		c, ok := d.DrawFront()
		if !ok {
			break
		}
		r.slots[i] = Slot{Card: c, Occupied: true}
		drawn++
	}
	return drawn
}

// Peek returns the card in slot i without removing it.
//
// Postcondition: returns ErrIndexOutOfRange or ErrSlotEmpty on failure; room unchanged.
func (r *Room) Peek(i int) (card.Card, error) {
	if i < 0 || i >= Size {
		return card.Card{}, fmt.Errorf("slot %d: %w", i+1, ErrIndexOutOfRange)
	}
	if !r.slots[i].Occupied {
		return card.Card{}, fmt.Errorf("slot %d: %w", i+1, ErrSlotEmpty)
	}
	return r.slots[i].Card, nil
}

// Take removes and returns the card in slot i. The slot stays empty until the
// next Refill.
func (r *Room) Take(i int) (card.Card, error) {
	c, err := r.Peek(i)
	if err != nil {
		return card.Card{}, err
	}
	r.slots[i] = Slot{}
	return c, nil
}

// Avoid sends every card in the room, in slot order, to the back of d and
// refills the room from the front.
//
// Precondition: lastWasAvoid reports whether the previous action was an avoid.
// Postcondition: on error the room and deck are unchanged. On success returns
// the cards that were sent to the back.
func (r *Room) Avoid(d *deck.Deck, lastWasAvoid bool) ([]card.Card, error) {
	if lastWasAvoid {
		return nil, ErrRepeatedAvoid
	}
	if r.Count() < Size {
		return nil, ErrRoomNotFull
	}
	avoided := r.Cards()
	r.slots = [Size]Slot{}
	d.ReturnToBack(avoided...)
	r.Refill(d)
	return avoided, nil
}

// Count returns the number of occupied slots.
func (r *Room) Count() int {
	n := 0
	for _, s := range r.slots {
		if s.Occupied {
			n++
		}
	}
	return n
}

// Empty reports whether every slot is empty.
func (r *Room) Empty() bool { return r.Count() == 0 }

// Slots returns a copy of all four slots.
func (r *Room) Slots() [Size]Slot { return r.slots }

// Cards returns the occupied cards in slot order.
func (r *Room) Cards() []card.Card {
	out := make([]card.Card, 0, Size)
	for _, s := range r.slots {
		if s.Occupied {
			out = append(out, s.Card)
		}
	}
	return out
}
