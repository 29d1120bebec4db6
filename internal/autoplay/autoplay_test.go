package autoplay_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/scoundrel/internal/autoplay"
	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/deck"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/game/shuffle"
)

type chooserFunc func(run.View) (autoplay.Decision, error)

func (f chooserFunc) Choose(v run.View) (autoplay.Decision, error) { return f(v) }

func c(r int, s card.Suit) card.Card { return card.New(card.Rank(r), s) }

func stacked(cards ...card.Card) *run.Run { return run.New(deck.New(cards)) }

func TestParseAction(t *testing.T) {
	for _, a := range []autoplay.Action{autoplay.ActionTake, autoplay.ActionWeapon, autoplay.ActionBarehand, autoplay.ActionAvoid} {
		got, err := autoplay.ParseAction(strings.ToUpper(a.String()))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := autoplay.ParseAction("flee")
	assert.ErrorIs(t, err, autoplay.ErrUnknownAction)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "take 3", autoplay.Decision{Action: autoplay.ActionTake, Slot: 2}.String())
	assert.Equal(t, "avoid", autoplay.Decision{Action: autoplay.ActionAvoid, Slot: 2}.String())
}

func TestGreedy_HealsWhenHurt(t *testing.T) {
	r := stacked(c(8, card.Spades), c(6, card.Hearts), c(3, card.Clubs), c(4, card.Clubs), c(9, card.Clubs))
	v, err := r.Take(0)
	require.NoError(t, err)
	require.Equal(t, 12, v.HP)

	d, err := autoplay.Greedy{}.Choose(v)
	require.NoError(t, err)
	assert.Equal(t, autoplay.Decision{Action: autoplay.ActionTake, Slot: 1}, d, "heals before anything else")
}

func TestGreedy_EquipsThenFightsCheapest(t *testing.T) {
	r := stacked(c(9, card.Spades), c(5, card.Diamonds), c(3, card.Clubs), c(12, card.Clubs), c(2, card.Clubs))
	d, err := autoplay.Greedy{}.Choose(r.View())
	require.NoError(t, err)
	assert.Equal(t, autoplay.Decision{Action: autoplay.ActionTake, Slot: 1}, d)

	v, err := r.Take(1)
	require.NoError(t, err)
	d, err = autoplay.Greedy{}.Choose(v)
	require.NoError(t, err)
	assert.Equal(t, autoplay.Decision{Action: autoplay.ActionTake, Slot: 2}, d, "3 with weapon 5 costs nothing")
}

func TestGreedy_AvoidsLethalRoom(t *testing.T) {
	r := stacked(c(13, card.Spades), c(2, card.Clubs), c(3, card.Clubs), c(4, card.Clubs),
		c(12, card.Spades), c(11, card.Clubs), c(14, card.Clubs))
	for i := 0; i < 3; i++ {
		_, err := r.Take(i)
		require.NoError(t, err)
	}
	v := r.View()
	require.Equal(t, 2, v.HP)
	require.True(t, v.CanAvoid)

	d, err := autoplay.Greedy{}.Choose(v)
	require.NoError(t, err)
	assert.Equal(t, autoplay.ActionAvoid, d.Action)

	v, err = autoplay.Apply(r, d)
	require.NoError(t, err)
	d, err = autoplay.Greedy{}.Choose(v)
	require.NoError(t, err)
	assert.Equal(t, autoplay.ActionTake, d.Action, "cannot avoid twice")
}

func TestGreedy_FullHPFightsBigRoom(t *testing.T) {
	r := stacked(c(14, card.Spades), c(13, card.Clubs), c(12, card.Spades), c(11, card.Clubs), c(2, card.Hearts))
	d, err := autoplay.Greedy{}.Choose(r.View())
	require.NoError(t, err)
	assert.Equal(t, autoplay.Decision{Action: autoplay.ActionTake, Slot: 3}, d)
}

func TestGreedy_NoMove(t *testing.T) {
	_, err := autoplay.Greedy{}.Choose(run.View{})
	assert.ErrorIs(t, err, autoplay.ErrNoMove)
}

func TestProperty_GreedyAlwaysLegalAndFinishes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		r := run.NewShuffled(shuffle.NewSeededSource(seed))
		v := r.View()
		for steps := 0; !v.Outcome.Terminal(); steps++ {
			if steps > 200 {
				rt.Fatalf("run not finished after %d steps", steps)
			}
			d, err := autoplay.Greedy{}.Choose(v)
			if err != nil {
				rt.Fatalf("Choose: %v", err)
			}
			if v, err = autoplay.Apply(r, d); err != nil {
				rt.Fatalf("Apply(%s): %v", d, err)
			}
		}
	})
}

func TestDriver_FallsBackOnIllegalDecision(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	bad := chooserFunc(func(run.View) (autoplay.Decision, error) {
		return autoplay.Decision{Action: autoplay.ActionWeapon, Slot: 0}, nil
	})
	d := autoplay.NewDriver(bad, 500, zap.New(core))

	res, err := d.Play(context.Background(), run.NewShuffled(shuffle.NewSeededSource(7)))
	require.NoError(t, err)
	assert.True(t, res.Outcome.Terminal())
	assert.Positive(t, res.Fallbacks)
	assert.Equal(t, res.Outcome, res.Final.Outcome)
	assert.NotEmpty(t, logs.FilterMessage("illegal decision").All())
	assert.Len(t, logs.FilterMessage("autoplay run finished").All(), 1)
}

func TestDriver_FallsBackOnChooserError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	failing := chooserFunc(func(run.View) (autoplay.Decision, error) {
		return autoplay.Decision{}, errors.New("boom")
	})
	res, err := autoplay.NewDriver(failing, 500, zap.New(core)).Play(context.Background(), run.NewShuffled(shuffle.NewSeededSource(1)))
	require.NoError(t, err)
	assert.Equal(t, len(res.Steps), res.Fallbacks)
	assert.NotEmpty(t, logs.FilterMessage("chooser failed").All())
}

func TestDriver_StepLimit(t *testing.T) {
	d := autoplay.NewDriver(autoplay.Greedy{}, 2, zap.NewNop())
	res, err := d.Play(context.Background(), run.NewShuffled(shuffle.NewSeededSource(3)))
	assert.ErrorIs(t, err, autoplay.ErrStepLimit)
	assert.Len(t, res.Steps, 2)
	assert.Equal(t, run.InProgress, res.Outcome)
}

func TestDriver_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := autoplay.NewDriver(autoplay.Greedy{}, 500, zap.NewNop()).Play(ctx, run.NewShuffled(shuffle.NewSeededSource(3)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_WriteYAML(t *testing.T) {
	seed := uint64(42)
	rep := autoplay.Report{Strategy: "greedy", Seed: &seed}
	d := autoplay.NewDriver(autoplay.Greedy{}, 500, zap.NewNop())
	res, err := d.Play(context.Background(), run.NewShuffled(shuffle.NewSeededSource(seed)))
	require.NoError(t, err)
	rep.Add(res, 0, nil)
	rep.Add(autoplay.Result{Outcome: run.InProgress}, -1, autoplay.ErrStepLimit)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteYAML(&buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "greedy", decoded["strategy"])
	assert.Equal(t, 42, decoded["seed"])
	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, 2, summary["runs"])
	assert.Equal(t, 1, summary["aborted"])
	assert.Equal(t, res.Score, summary["best_score"])
	runs := decoded["runs"].([]any)
	require.Len(t, runs, 2)
	assert.Equal(t, 0, runs[0].(map[string]any)["rank"])
	assert.NotContains(t, runs[1].(map[string]any), "rank")
	assert.Equal(t, "step limit reached", runs[1].(map[string]any)["error"])
}

func TestReport_Summary(t *testing.T) {
	var rep autoplay.Report
	rep.Add(autoplay.Result{Outcome: run.Lost, Score: -10}, -1, nil)
	rep.Add(autoplay.Result{Outcome: run.Won, Score: 20}, -1, nil)
	rep.Add(autoplay.Result{Outcome: run.Lost, Score: -4}, -1, nil)
	assert.Equal(t, autoplay.Summary{Runs: 3, Won: 1, Lost: 2, BestScore: 20, MeanScore: 2}, rep.Summary)
}

func TestTranscript_Plain(t *testing.T) {
	var buf bytes.Buffer
	tr := autoplay.NewTranscript(&buf, false)
	res, err := autoplay.NewDriver(autoplay.Greedy{}, 500, zap.NewNop()).Play(context.Background(), run.NewShuffled(shuffle.NewSeededSource(9)))
	require.NoError(t, err)
	tr.Run(1, res)
	require.NoError(t, tr.Err())

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "== Run 1 (")
	assert.Contains(t, out, "  1. ")
	assert.Contains(t, out, "Room 1")
}
