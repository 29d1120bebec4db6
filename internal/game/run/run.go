// Package run is the turn state machine for a single Scoundrel run. A Run owns
// the deck, the room, the player and the weapon, and exposes the action API
// used by input layers and the View used by renderers.
//
// A Run is not safe for concurrent use; it is owned by one run loop.
package run

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/combat"
	"github.com/cory-johannsen/scoundrel/internal/game/deck"
	"github.com/cory-johannsen/scoundrel/internal/game/room"
	"github.com/cory-johannsen/scoundrel/internal/game/score"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
)

// PicksPerTurn is the number of cards taken before the room refills.
const PicksPerTurn = 3

// Outcome is the closed set of run states visible to callers.
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

// String returns a lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further actions are accepted.
func (o Outcome) Terminal() bool { return o == Won || o == Lost }

// Run is one play-through from the initial shuffle to Won or Lost.
type Run struct {
	id     uuid.UUID
	logger *zap.Logger

	deck   *deck.Deck
	room   room.Room
	mem    combat.Memory
	player combat.Player

	picks        int
	lastWasAvoid bool
	roomNumber   int

	last    card.Card
	hasLast bool

	outcome Outcome
	score   int
	history []Event
}

// Option configures a Run.
type Option func(*Run)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Run) { r.logger = l }
}

// WithID fixes the run identifier; the default is a random UUID.
func WithID(id uuid.UUID) Option {
	return func(r *Run) { r.id = id }
}

// New sets up a run over d: full health, no weapon, clear avoid history, and
// the first room dealt.
//
// Precondition: d must be non-nil and is owned by the Run from here on.
// Postcondition: Outcome() is InProgress unless d was empty.
func New(d *deck.Deck, opts ...Option) *Run {
	r := &Run{
		id:     uuid.New(),
		logger: zap.NewNop(),
		deck:   d,
		player: combat.NewPlayer(),
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = r.logger.With(zap.String("run", r.id.String()))

	r.room.Refill(r.deck)
	r.roomNumber = 1
	r.record(Event{Kind: EventRoomStart})
	r.logger.Debug("run started", zap.Int("deck", r.deck.Remaining()))
	r.checkCleared()
	return r
}

// NewShuffled sets up a run over a freshly shuffled 44-card deck.
func NewShuffled(src shuffle.Source, opts ...Option) *Run {
	return New(deck.NewShuffled(src), opts...)
}

// ID returns the run identifier.
func (r *Run) ID() uuid.UUID { return r.id }

// Outcome returns the current run state.
func (r *Run) Outcome() Outcome { return r.outcome }

// Score returns the final score; zero while the run is in progress.
func (r *Run) Score() int { return r.score }

// Take resolves the card in slot with the default action: monsters are
// fought with the weapon when it can be used, otherwise barehanded.
func (r *Run) Take(slot int) (View, error) {
	return r.pick(slot, combat.ModeAuto)
}

// ForceWeapon resolves the card in slot, fighting a monster with the weapon
// or failing with ErrNoWeaponEquipped / ErrWeaponCapExceeded.
func (r *Run) ForceWeapon(slot int) (View, error) {
	return r.pick(slot, combat.ModeWeapon)
}

// ForceBarehand resolves the card in slot, fighting a monster barehanded.
func (r *Run) ForceBarehand(slot int) (View, error) {
	return r.pick(slot, combat.ModeBarehand)
}

// pick leaves the run untouched on any error: Resolve validates before it
// mutates, and the card only leaves the room once resolution succeeded.
func (r *Run) pick(slot int, mode combat.Mode) (View, error) {
	if r.outcome.Terminal() {
		return r.View(), ErrActionAfterTerminal
	}
	c, err := r.room.Peek(slot)
	if err != nil {
		return r.View(), err
	}
	res, err := combat.Resolve(&r.mem, &r.player, c, mode)
	if err != nil {
		return r.View(), err
	}
	// Peek succeeded on an unchanged room, so Take cannot fail.
	_, _ = r.room.Take(slot)
	r.lastWasAvoid = false
	r.last, r.hasLast = c, true
	r.picks++
	r.recordResolution(res)

	r.logger.Debug("card taken",
		zap.Int("slot", slot+1),
		zap.String("card", c.String()),
		zap.String("mode", mode.String()),
		zap.Int("damage", res.Damage),
		zap.Int("healed", res.Healed),
		zap.Int("hp", r.player.HP),
	)

	if r.player.Dead() {
		r.finishLost()
		return r.View(), nil
	}
	if r.picks >= PicksPerTurn || r.room.Count() <= 1 {
		r.endTurn()
	}
	return r.View(), nil
}

// Avoid sends the whole room to the bottom of the deck and deals a new one.
// It ends the turn without taking a card and cannot be done twice in a row.
func (r *Run) Avoid() (View, error) {
	if r.outcome.Terminal() {
		return r.View(), ErrActionAfterTerminal
	}
	avoided, err := r.room.Avoid(r.deck, r.lastWasAvoid)
	if err != nil {
		return r.View(), err
	}
	r.lastWasAvoid = true
	r.picks = 0
	r.player.StartTurn()
	r.record(Event{Kind: EventAvoid})
	r.logger.Debug("room avoided", zap.Int("cards", len(avoided)))

	r.roomNumber++
	r.record(Event{Kind: EventRoomStart})
	return r.View(), nil
}

func (r *Run) endTurn() {
	r.picks = 0
	r.player.StartTurn()
	r.room.Refill(r.deck)
	if r.checkCleared() {
		return
	}
	r.roomNumber++
	r.record(Event{Kind: EventRoomStart})
	r.logger.Debug("turn ended", zap.Int("room", r.roomNumber), zap.Int("deck", r.deck.Remaining()))
}

// checkCleared moves the run to Won when the deck and room are both empty.
func (r *Run) checkCleared() bool {
	if !r.deck.Empty() || !r.room.Empty() {
		return false
	}
	r.outcome = Won
	r.score = score.Won(r.player.HP, r.last, r.hasLast)
	r.logger.Info("dungeon cleared", zap.Int("hp", r.player.HP), zap.Int("score", r.score))
	return true
}

func (r *Run) finishLost() {
	remaining := append(r.deck.Cards(), r.room.Cards()...)
	r.outcome = Lost
	r.score = score.Lost(r.player.HP, remaining)
	r.logger.Info("adventurer fell", zap.Int("room", r.roomNumber), zap.Int("score", r.score))
}

func (r *Run) record(e Event) {
	e.Room = r.roomNumber
	r.history = append(r.history, e)
}

func (r *Run) recordResolution(res combat.Resolution) {
	e := Event{Card: res.Card, HPBefore: res.HPBefore, HPAfter: res.HPAfter}
	switch res.Card.Category() {
	case card.Weapon:
		e.Kind = EventEquip
		e.Weapon = res.Weapon
	case card.Potion:
		e.Kind = EventPotion
		if res.Discarded {
			e.Kind = EventPotionDiscarded
		}
	default:
		e.Kind = EventFight
		e.Damage = res.Damage
		if res.WithWeapon {
			e.Weapon = res.Weapon
		}
	}
	r.record(e)
}

// IsActionError reports whether err is one of the recoverable action errors
// the input layer should surface and re-prompt on.
func IsActionError(err error) bool {
	for _, target := range []error{
		ErrActionAfterTerminal, ErrSlotEmpty, ErrIndexOutOfRange, ErrRepeatedAvoid,
		ErrRoomNotFull, ErrWeaponCapExceeded, ErrNoWeaponEquipped,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
