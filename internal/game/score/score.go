// Package score computes the final score of a finished run.
package score

import (
	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/combat"
)

// Lost scores a death: hp minus the ranks of every monster still in the
// dungeon (deck and room).
//
// Postcondition: returns hp - sum(rank of each Monster in remaining).
func Lost(hp int, remaining []card.Card) int {
	s := hp
	for _, c := range remaining {
		if c.Category() == card.Monster {
			s -= c.Value()
		}
	}
	return s
}

// Won scores a cleared dungeon: final hp, plus the rank of the last card
// taken when it was a potion and hp is full.
//
// Precondition: hasLast reports whether last holds a card.
func Won(hp int, last card.Card, hasLast bool) int {
	s := hp
	if hp == combat.MaxHP && hasLast && last.Category() == card.Potion {
		s += last.Value()
	}
	return s
}
