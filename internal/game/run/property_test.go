package run_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
)

const (
	actTake = iota
	actWeapon
	actBarehand
	actAvoid
)

// playRandom drives a seeded run with drawn actions and returns every
// attempted action alongside its error.
func playRandom(rt *rapid.T) (*run.Run, []int, []error) {
	r := run.NewShuffled(shuffle.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
	var acts []int
	var errs []error
	for i := 0; i < 120 && !r.Outcome().Terminal(); i++ {
		act := rapid.IntRange(actTake, actAvoid).Draw(rt, "action")
		slot := rapid.IntRange(0, 4).Draw(rt, "slot")
		var err error
		switch act {
		case actTake:
			_, err = r.Take(slot)
		case actWeapon:
			_, err = r.ForceWeapon(slot)
		case actBarehand:
			_, err = r.ForceBarehand(slot)
		case actAvoid:
			_, err = r.Avoid()
		}
		require.True(rt, err == nil || run.IsActionError(err), "unexpected error %v", err)
		acts = append(acts, act)
		errs = append(errs, err)
	}
	return r, acts, errs
}

func TestProperty_NoTwoConsecutiveAvoids(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		_, acts, errs := playRandom(rt)
		prevAvoid := false
		for i, a := range acts {
			if errs[i] != nil {
				continue
			}
			if a == actAvoid {
				assert.False(rt, prevAvoid, "two avoids succeeded back to back at step %d", i)
			}
			prevAvoid = a == actAvoid
		}
	})
}

func TestProperty_HPBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, _, _ := playRandom(rt)
		v := r.View()
		for _, e := range v.History {
			assert.GreaterOrEqual(rt, e.HPAfter, 0)
			assert.LessOrEqual(rt, e.HPAfter, 20)
		}
		if v.Outcome == run.Lost {
			assert.Equal(rt, 0, v.HP)
		} else {
			assert.Greater(rt, v.HP, 0)
		}
	})
}

func TestProperty_WeaponKillsNonIncreasing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, _, _ := playRandom(rt)
		var kills []card.Rank
		for _, e := range r.View().History {
			switch {
			case e.Kind == run.EventEquip:
				kills = nil
			case e.Kind == run.EventFight && e.Weapon != 0:
				if len(kills) > 0 {
					assert.LessOrEqual(rt, e.Card.Rank, kills[len(kills)-1])
				}
				kills = append(kills, e.Card.Rank)
			}
		}
	})
}

func TestProperty_OnePotionPerTurn(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, _, _ := playRandom(rt)
		healed := 0
		for _, e := range r.View().History {
			switch e.Kind {
			case run.EventRoomStart:
				healed = 0
			case run.EventPotion:
				healed++
				assert.LessOrEqual(rt, healed, 1)
			case run.EventPotionDiscarded:
				assert.Equal(rt, e.HPBefore, e.HPAfter)
			}
		}
	})
}

func TestProperty_FailedActionsDoNotMutate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := run.NewShuffled(shuffle.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		for i := 0; i < 60 && !r.Outcome().Terminal(); i++ {
			before := r.View()
			slot := rapid.IntRange(0, 4).Draw(rt, "slot")
			var err error
			switch rapid.IntRange(actTake, actAvoid).Draw(rt, "action") {
			case actTake:
				_, err = r.Take(slot)
			case actWeapon:
				_, err = r.ForceWeapon(slot)
			case actBarehand:
				_, err = r.ForceBarehand(slot)
			case actAvoid:
				_, err = r.Avoid()
			}
			if err != nil {
				assert.Equal(rt, before, r.View())
			}
		}
	})
}

func TestProperty_CardsConserved(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, _, _ := playRandom(rt)
		v := r.View()
		taken := 0
		for _, e := range v.History {
			switch e.Kind {
			case run.EventRoomStart, run.EventAvoid:
			default:
				taken++
			}
		}
		assert.Equal(rt, card.DeckSize, v.DeckRemaining+len(v.RoomCards())+taken)
	})
}

func TestProperty_TerminalScore(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, _, _ := playRandom(rt)
		v := r.View()
		switch v.Outcome {
		case run.Won:
			want := v.HP
			if v.HP == 20 && v.LastCard.Category() == card.Potion {
				want += v.LastCard.Value()
			}
			assert.Equal(rt, want, v.Score)
		case run.Lost:
			assert.LessOrEqual(rt, v.Score, 0)
			_, err := r.Take(0)
			assert.True(rt, errors.Is(err, run.ErrActionAfterTerminal))
		}
	})
}
