package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/game/room"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
)

var menuItems = []string{"New run", "Leaderboard", "Quit"}

func (a *App) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		a.quit = true
		return
	}
	if a.phase == PhaseNameEntry {
		a.nameKey(ev)
		return
	}
	if a.help {
		a.help = false
		return
	}
	if ev.Key() == tcell.KeyEscape {
		a.quit = true
		return
	}
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'q', 'Q':
			a.quit = true
			return
		case '?':
			a.help = true
			return
		}
	}

	switch a.phase {
	case PhaseMenu:
		a.menuKey(ev)
	case PhaseRunning:
		a.runningKey(ev)
	case PhaseGameOver:
		a.gameOverKey(ev)
	case PhaseLeaderboard:
		a.leaderboardKey(ev)
	}
}

func (a *App) menuKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		a.menuCursor = (a.menuCursor + len(menuItems) - 1) % len(menuItems)
	case tcell.KeyDown:
		a.menuCursor = (a.menuCursor + 1) % len(menuItems)
	case tcell.KeyEnter:
		switch a.menuCursor {
		case 0:
			a.beginNameEntry()
		case 1:
			a.showLeaderboard(-1)
		default:
			a.quit = true
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'n':
			a.beginNameEntry()
		case 'l':
			a.showLeaderboard(-1)
		}
	}
}

func (a *App) runningKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyLeft, tcell.KeyUp:
		a.moveSelection(-1)
	case tcell.KeyRight, tcell.KeyDown:
		a.moveSelection(1)
	case tcell.KeyEnter:
		a.act(a.run.Take(a.selected))
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r >= '1' && r < '1'+room.Size:
			a.selected = int(r - '1')
			a.act(a.run.Take(a.selected))
		case r == ' ':
			a.act(a.run.Take(a.selected))
		case r == 'w':
			a.act(a.run.ForceWeapon(a.selected))
		case r == 'b':
			a.act(a.run.ForceBarehand(a.selected))
		case r == 'v':
			a.act(a.run.Avoid())
		case r == 'n', r == 'r':
			a.startRun()
		case r == 'm':
			a.showMenu()
		case r == 'l':
			a.showLeaderboard(-1)
		}
	}
}

func (a *App) gameOverKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		if !a.recorded {
			a.record()
		}
		if a.recorded {
			a.showLeaderboard(a.rank)
		}
	case tcell.KeyUp:
		a.scrollBy(-1)
	case tcell.KeyDown:
		a.scrollBy(1)
	case tcell.KeyPgUp:
		a.scrollBy(-a.historyRows())
	case tcell.KeyPgDn:
		a.scrollBy(a.historyRows())
	case tcell.KeyHome:
		a.scroll = 0
	case tcell.KeyEnd:
		a.scrollBy(len(a.view.History))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'n':
			a.beginNameEntry()
		case 'r':
			a.startRun()
		case 'm':
			a.showMenu()
		case 'l':
			a.showLeaderboard(a.rank)
		}
	}
}

func (a *App) leaderboardKey(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case 'n':
		a.beginNameEntry()
	case 'r':
		a.startRun()
	case 'm':
		a.showMenu()
	}
}

func (a *App) nameKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.showMenu()
	case tcell.KeyEnter:
		a.player = leaderboard.NormalizeName(string(a.name), a.player)
		a.startRun()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.name) > 0 {
			a.name = a.name[:len(a.name)-1]
		}
	case tcell.KeyRune:
		if r := ev.Rune(); leaderboard.AcceptsRune(r) && len(a.name) < leaderboard.MaxNameLen {
			a.name = append(a.name, r)
		}
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	if !a.opts.Mouse {
		return
	}
	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		a.scrollBy(-3)
	case btn&tcell.WheelDown != 0:
		a.scrollBy(3)
	case btn&tcell.Button1 != 0 && a.phase == PhaseRunning:
		x, y := ev.Position()
		if slot, ok := slotAt(x, y); ok && a.view.Slots[slot].Occupied {
			a.selected = slot
		}
	}
}

func (a *App) showMenu() {
	a.phase = PhaseMenu
	a.menuCursor = 0
}

// beginNameEntry asks who plays the next run. The name is kept for later
// runs started with r.
func (a *App) beginNameEntry() {
	a.name = a.name[:0]
	a.phase = PhaseNameEntry
}

func (a *App) startRun() {
	a.run = a.newRun()
	a.view = a.run.View()
	a.phase = PhaseRunning
	a.recorded = false
	a.rank = -1
	a.highlight = -1
	a.scroll = 0
	a.message = ""
	a.selected = 0
	a.fixSelection()
	a.logger.Info("run started", zap.String("run", a.view.ID.String()), zap.String("player", a.player))
	if a.view.Outcome.Terminal() {
		a.finish()
	}
}

// act applies the result of a run action.
func (a *App) act(v run.View, err error) {
	a.view = v
	if err != nil {
		a.setError(err)
		a.fixSelection()
		return
	}
	a.message = ""
	if v.Outcome.Terminal() {
		a.finish()
		return
	}
	a.fixSelection()
}

// finish shows the game-over screen and records the run.
func (a *App) finish() {
	a.phase = PhaseGameOver
	a.scroll = 0
	a.record()
}

func (a *App) moveSelection(delta int) {
	occupied := a.view.Occupied()
	if len(occupied) == 0 {
		return
	}
	pos := 0
	for i, s := range occupied {
		if s == a.selected {
			pos = i
		}
	}
	pos = (pos + delta + len(occupied)) % len(occupied)
	a.selected = occupied[pos]
}

// fixSelection moves the cursor to the first occupied slot when the selected
// one was emptied.
func (a *App) fixSelection() {
	if a.selected >= 0 && a.selected < room.Size && a.view.Slots[a.selected].Occupied {
		return
	}
	if occupied := a.view.Occupied(); len(occupied) > 0 {
		a.selected = occupied[0]
	}
}

func (a *App) scrollBy(delta int) {
	var total int
	switch a.phase {
	case PhaseGameOver:
		total = len(a.view.History)
	case PhaseLeaderboard:
		total = len(a.entries)
	default:
		return
	}
	limit := max(total-a.historyRows(), 0)
	a.scroll = min(max(a.scroll+delta, 0), limit)
}

// record saves the finished run under the current player name. A failed
// save leaves recorded false so Enter on the game-over screen can retry.
func (a *App) record() {
	e := leaderboard.FromRun(a.player, a.view, a.opts.Now())
	pos, err := a.store.Record(a.ctx, e)
	if err != nil {
		a.setError(fmt.Errorf("saving score: %w", err))
		return
	}
	a.recorded = true
	a.rank = pos
	a.logger.Info("score saved", zap.String("name", a.player), zap.Int("score", e.Score), zap.Int("rank", pos+1))
	a.setMessage(fmt.Sprintf("%s placed #%d on the leaderboard.", a.player, pos+1))
}

func (a *App) showLeaderboard(highlight int) {
	entries, err := a.store.Top(a.ctx, a.opts.LeaderboardSize)
	a.phase = PhaseLeaderboard
	a.scroll = 0
	a.highlight = -1
	if highlight < a.opts.LeaderboardSize {
		a.highlight = highlight
	}
	if err != nil {
		a.entries = nil
		a.setError(fmt.Errorf("loading leaderboard: %w", err))
		return
	}
	a.entries = entries
}

// describe turns an error into the status line shown to the player.
func describe(err error) string {
	switch {
	case errors.Is(err, run.ErrSlotEmpty):
		return "That slot is empty."
	case errors.Is(err, run.ErrIndexOutOfRange):
		return "There is no such slot."
	case errors.Is(err, run.ErrRepeatedAvoid):
		return "You cannot avoid two rooms in a row."
	case errors.Is(err, run.ErrRoomNotFull):
		return "You can only avoid a full room."
	case errors.Is(err, run.ErrNoWeaponEquipped):
		return "You have no weapon."
	case errors.Is(err, run.ErrWeaponCapExceeded):
		return "Your weapon cannot fight a monster stronger than its last kill."
	case errors.Is(err, run.ErrActionAfterTerminal):
		return "The run is over."
	case errors.Is(err, leaderboard.ErrCorrupt):
		return "The score file is corrupt; it was left untouched."
	default:
		return err.Error()
	}
}
