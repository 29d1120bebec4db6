// Package card defines the playing cards of a Scoundrel dungeon and the
// category each one takes on when it turns up in a room.
package card

import (
	"fmt"
	"strconv"
)

// Suit is one of the four French suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Symbol returns the unicode pip for the suit.
func (s Suit) Symbol() rune {
	switch s {
	case Clubs:
		return '♣'
	case Diamonds:
		return '♦'
	case Hearts:
		return '♥'
	case Spades:
		return '♠'
	default:
		return '?'
	}
}

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool { return s == Diamonds || s == Hearts }

// String returns the suit symbol.
func (s Suit) String() string { return string(s.Symbol()) }

// Rank is a card's face value, 2 through 14, where 11=J, 12=Q, 13=K and 14=A.
type Rank int

const (
	MinRank Rank = 2
	Jack    Rank = 11
	Queen   Rank = 12
	King    Rank = 13
	Ace     Rank = 14
	MaxRank      = Ace
)

// Label returns the short printed label: "2".."10", "J", "Q", "K", "A".
func (r Rank) Label() string {
	switch {
	case r >= MinRank && r <= 10:
		return strconv.Itoa(int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// String returns the rank label.
func (r Rank) String() string { return r.Label() }

// Category is the role a card plays in the dungeon, derived from its suit.
type Category int

const (
	Monster Category = iota
	Weapon
	Potion
)

// String returns a lowercase category name.
func (c Category) String() string {
	switch c {
	case Monster:
		return "monster"
	case Weapon:
		return "weapon"
	case Potion:
		return "potion"
	default:
		return "unknown"
	}
}

// Card is an immutable rank/suit pair.
type Card struct {
	Rank Rank
	Suit Suit
}

// New returns the card of the given rank and suit.
func New(r Rank, s Suit) Card { return Card{Rank: r, Suit: s} }

// Category maps the suit to the card's dungeon role.
//
// Postcondition: Clubs and Spades are Monster, Diamonds Weapon, Hearts Potion.
func (c Card) Category() Category {
	switch c.Suit {
	case Diamonds:
		return Weapon
	case Hearts:
		return Potion
	default:
		return Monster
	}
}

// Value returns the rank as a plain int for arithmetic.
func (c Card) Value() int { return int(c.Rank) }

// String renders the card as label followed by the suit pip, e.g. "10♦".
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank.Label(), c.Suit)
}

// Playable reports whether the card belongs in a Scoundrel deck: black cards
// of any rank, red cards 2 through 10 only.
func (c Card) Playable() bool {
	if c.Rank < MinRank || c.Rank > MaxRank {
		return false
	}
	if c.Suit.Red() {
		return c.Rank <= 10
	}
	return c.Suit == Clubs || c.Suit == Spades
}

// DeckSize is the number of cards left once jokers, red faces and red aces are removed.
const DeckSize = 44

// Full returns the 44 playable cards in a fixed order: clubs and spades
// 2..A, then diamonds 2..10, then hearts 2..10.
//
// Postcondition: len(result) == DeckSize and every card is Playable.
func Full() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, s := range []Suit{Clubs, Spades} {
		for r := MinRank; r <= MaxRank; r++ {
			cards = append(cards, New(r, s))
		}
	}
	for _, s := range []Suit{Diamonds, Hearts} {
		for r := MinRank; r <= 10; r++ {
			cards = append(cards, New(r, s))
		}
	}
	return cards
}
