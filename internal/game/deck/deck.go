// Package deck holds the ordered draw pile of a run.
package deck

import (
	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
)

// Deck is an ordered pile of cards; index 0 is the next card drawn.
type Deck struct {
	cards []card.Card
}

// New returns a deck holding cards in the given order. The slice is copied.
func New(cards []card.Card) *Deck {
	d := &Deck{cards: make([]card.Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// NewShuffled builds the 44-card Scoundrel deck and permutes it with src.
// A *shuffle.Shuffler source logs the resulting order.
//
// Precondition: src must be non-nil.
// Postcondition: Remaining() == card.DeckSize.
func NewShuffled(src shuffle.Source) *Deck {
	cards := card.Full()
	if s, ok := src.(interface{ Shuffle([]card.Card) }); ok {
		s.Shuffle(cards)
	} else {
		shuffle.Cards(cards, src)
	}
	return &Deck{cards: cards}
}

// DrawFront removes and returns the front card. ok is false when the deck is empty.
func (d *Deck) DrawFront() (c card.Card, ok bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	c = d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// ReturnToBack appends cards to the tail, keeping their relative order.
func (d *Deck) ReturnToBack(cards ...card.Card) {
	d.cards = append(d.cards, cards...)
}

// Remaining returns the number of cards left to draw.
func (d *Deck) Remaining() int { return len(d.cards) }

// Empty reports whether no cards remain.
func (d *Deck) Empty() bool { return len(d.cards) == 0 }

// Cards returns a copy of the remaining cards, front first.
func (d *Deck) Cards() []card.Card {
	out := make([]card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}
