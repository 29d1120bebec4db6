package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/deck"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/render"
)

func c(r int, s card.Suit) card.Card { return card.New(card.Rank(r), s) }

func TestStatusAndRoom(t *testing.T) {
	r := run.New(deck.New([]card.Card{c(5, card.Diamonds), c(4, card.Clubs), c(3, card.Hearts), c(2, card.Spades), c(9, card.Clubs)}))
	v := r.View()

	assert.Equal(t, "Room 1  HP 20/20  Weapon none  Deck 1", render.StripANSI(render.Status(v)))
	assert.Equal(t, "1:5♦  2:4♣  3:3♥  4:2♠", render.StripANSI(render.Room(v)))

	v, err := r.Take(0)
	assert.NoError(t, err)
	v, err = r.Take(1)
	assert.NoError(t, err)
	assert.Equal(t, "5 (last kill 4)", render.Weapon(v))
	assert.Equal(t, "1:--  2:--  3:3♥  4:2♠", render.StripANSI(render.Room(v)))
}

func TestOutcome(t *testing.T) {
	r := run.New(deck.New(nil))
	assert.Equal(t, "Dungeon cleared! Score 20", render.StripANSI(render.Outcome(r.View())))
}

func TestEvent_KeepsNarration(t *testing.T) {
	e := run.Event{Kind: run.EventEquip, Card: c(7, card.Diamonds)}
	assert.Equal(t, e.String(), render.StripANSI(render.Event(e)))
	assert.Contains(t, render.Event(e), render.Yellow)
}

func TestCardColor(t *testing.T) {
	assert.Equal(t, render.Yellow, render.CardColor(c(2, card.Diamonds)))
	assert.Equal(t, render.BrightRed, render.CardColor(c(2, card.Hearts)))
	assert.Equal(t, render.BrightWhite, render.CardColor(c(2, card.Spades)))
}
