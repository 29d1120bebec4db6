package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/cory-johannsen/scoundrel/internal/game/card"
	"github.com/cory-johannsen/scoundrel/internal/game/room"
	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
	"github.com/cory-johannsen/scoundrel/internal/render"
)

// Card box geometry in the running phase.
const (
	cardW   = 9
	cardH   = 5
	cardGap = 2
	cardsX  = 2
	cardsY  = 4
)

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleGood    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBad     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSelect  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHilite  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
	styleMonster = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePotion  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWeapon  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// slotAt maps a screen position to the card box under it.
func slotAt(x, y int) (int, bool) {
	if y < cardsY || y >= cardsY+cardH || x < cardsX {
		return 0, false
	}
	i := (x - cardsX) / (cardW + cardGap)
	if i >= room.Size || (x-cardsX)%(cardW+cardGap) >= cardW {
		return 0, false
	}
	return i, true
}

// put writes s at (x, y) clipped to the screen width and returns the next column.
func (a *App) put(x, y int, s string, style tcell.Style) int {
	w, _ := a.screen.Size()
	for _, r := range s {
		if x >= w {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func (a *App) center(y int, s string, style tcell.Style) {
	w, _ := a.screen.Size()
	a.put(max((w-runewidth.StringWidth(s))/2, 0), y, s, style)
}

func (a *App) footer(keys string) {
	_, h := a.screen.Size()
	a.put(1, h-1, keys, styleDim)
}

// Draw renders the current phase and shows it.
func (a *App) Draw() {
	a.screen.Clear()
	switch a.phase {
	case PhaseMenu:
		a.drawMenu()
	case PhaseRunning:
		a.drawRunning()
	case PhaseGameOver:
		a.drawGameOver()
	case PhaseNameEntry:
		a.drawNameEntry()
	case PhaseLeaderboard:
		a.drawLeaderboard()
	}
	if a.message != "" {
		_, h := a.screen.Size()
		style := styleText
		if a.messageErr {
			style = styleBad
		}
		a.put(1, h-3, a.message, style)
	}
	if a.help {
		a.drawHelp()
	}
	a.screen.Show()
}

func (a *App) drawMenu() {
	a.center(2, "S C O U N D R E L", styleTitle)
	a.center(3, "a single-player rogue-like card game", styleDim)
	for i, item := range menuItems {
		style, prefix := styleText, "  "
		if i == a.menuCursor {
			style, prefix = styleSelect, "> "
		}
		a.center(6+i*2, prefix+item+"  ", style)
	}
	a.footer("↑↓ select  Enter choose  n new run  l leaderboard  ? help  q quit")
}

func hpStyle(hp int) tcell.Style {
	switch {
	case hp <= 5:
		return styleBad
	case hp <= 10:
		return styleWarn
	default:
		return styleGood
	}
}

func cardStyle(c card.Card) tcell.Style {
	switch c.Category() {
	case card.Weapon:
		return styleWeapon
	case card.Potion:
		return stylePotion
	default:
		return styleMonster
	}
}

func (a *App) drawRunning() {
	v := a.view
	x := a.put(cardsX, 0, "SCOUNDREL", styleTitle)
	a.put(x+2, 0, fmt.Sprintf("Room %d", v.RoomNumber), styleText)

	x = a.put(cardsX, 1, "HP ", styleText)
	x = a.put(x, 1, fmt.Sprintf("%d/%d", v.HP, v.MaxHP), hpStyle(v.HP))
	x = a.put(x, 1, "  Weapon "+render.Weapon(v), styleWeapon)
	x = a.put(x, 1, fmt.Sprintf("  Deck %d  Picks %d/%d", v.DeckRemaining, v.Picks, run.PicksPerTurn), styleText)
	if v.PotionUsed {
		a.put(x, 1, "  potion used", styleDim)
	}
	bar := strings.Repeat("█", v.HP) + strings.Repeat("░", v.MaxHP-v.HP)
	a.put(cardsX, 2, bar, hpStyle(v.HP))

	for i, s := range v.Slots {
		a.drawCard(i, s, i == a.selected)
	}

	hist := v.History
	if n := len(hist); n > 5 {
		hist = hist[n-5:]
	}
	for i, e := range hist {
		a.put(cardsX, cardsY+cardH+4+i, e.String(), eventStyle(e))
	}

	avoid := "v avoid"
	if !v.CanAvoid {
		avoid = "v (no avoid)"
	}
	a.footer("←→ select  Enter take  1-4 pick  w weapon  b barehand  " + avoid + "  r restart  ? help  q quit")
}

func (a *App) drawCard(i int, s run.SlotView, selected bool) {
	x0 := cardsX + i*(cardW+cardGap)
	border := styleDim
	if selected {
		border = styleSelect
	}
	for y := cardsY; y < cardsY+cardH; y++ {
		for x := x0; x < x0+cardW; x++ {
			r := ' '
			switch {
			case y == cardsY && x == x0:
				r = '┌'
			case y == cardsY && x == x0+cardW-1:
				r = '┐'
			case y == cardsY+cardH-1 && x == x0:
				r = '└'
			case y == cardsY+cardH-1 && x == x0+cardW-1:
				r = '┘'
			case y == cardsY || y == cardsY+cardH-1:
				r = '─'
			case x == x0 || x == x0+cardW-1:
				r = '│'
			}
			a.screen.SetContent(x, y, r, nil, border)
		}
	}
	a.put(x0+cardW/2-1, cardsY+cardH, fmt.Sprintf("[%d]", i+1), border)
	if !s.Occupied {
		a.put(x0+2, cardsY+2, "empty", styleDim)
		return
	}
	style := cardStyle(s.Card)
	a.put(x0+2, cardsY+1, s.Card.Rank.Label(), style)
	a.put(x0+cardW/2, cardsY+2, s.Card.Suit.String(), style)
	a.put(x0+2, cardsY+3, s.Card.Category().String(), style)
	hint, hs := projection(s)
	a.put(x0+1, cardsY+cardH+1, hint, hs)
}

// projection summarises what taking the card would do.
func projection(s run.SlotView) (string, tcell.Style) {
	p := s.Projection
	switch s.Card.Category() {
	case card.Monster:
		if p.WithWeapon {
			return fmt.Sprintf("wpn -%d", p.Damage), styleWarn
		}
		return fmt.Sprintf("-%d HP", p.Damage), styleBad
	case card.Potion:
		if p.Heal == 0 {
			return "no heal", styleDim
		}
		return fmt.Sprintf("+%d HP", p.Heal), styleGood
	default:
		return "equip", styleWeapon
	}
}

func eventStyle(e run.Event) tcell.Style {
	switch e.Kind {
	case run.EventRoomStart:
		return styleSelect
	case run.EventPotion:
		return styleGood
	case run.EventEquip:
		return styleWeapon
	case run.EventFight:
		if e.Damage > 0 {
			return styleBad
		}
		return styleText
	default:
		return styleDim
	}
}

// historyRows is the number of list rows visible on the scrolling screens.
func (a *App) historyRows() int {
	_, h := a.screen.Size()
	return max(h-8, 1)
}

func (a *App) drawGameOver() {
	v := a.view
	if v.Outcome == run.Won {
		a.center(0, "DUNGEON CLEARED", styleGood.Bold(true))
	} else {
		a.center(0, "YOU DIED", styleBad.Bold(true))
	}
	a.center(1, fmt.Sprintf("Score %d   HP %d/%d   Rooms %d", v.Score, v.HP, v.MaxHP, v.RoomNumber), styleText)

	a.put(cardsX, 3, fmt.Sprintf("History (%d events)", len(v.History)), styleTitle)
	rows := a.historyRows()
	for i := 0; i < rows && a.scroll+i < len(v.History); i++ {
		e := v.History[a.scroll+i]
		a.put(cardsX, 4+i, e.String(), eventStyle(e))
	}

	save := "Enter leaderboard"
	if !a.recorded {
		save = "Enter retry save"
	}
	a.footer(save + "  ↑↓ PgUp PgDn scroll  n new run  r restart  l leaderboard  m menu  q quit")
}

func (a *App) drawNameEntry() {
	a.center(2, "Who enters the dungeon?", styleTitle)
	a.center(4, "Every finished run goes on the leaderboard under this name.", styleDim)
	x := a.put(cardsX+4, 7, fmt.Sprintf("Name (max %d): ", leaderboard.MaxNameLen), styleText)
	x = a.put(x, 7, string(a.name), styleSelect)
	a.put(x, 7, "_", styleSelect.Blink(true))
	a.put(cardsX+4, 9, "Leave blank for "+a.player+".", styleDim)
	a.footer("Enter start  Backspace delete  Esc menu")
}

func (a *App) drawLeaderboard() {
	a.center(0, "LEADERBOARD", styleTitle)
	a.put(cardsX, 2, fmt.Sprintf("%-4s %-20s %6s  %-5s  %s", "#", "Name", "Score", "", "Date"), styleDim)
	if len(a.entries) == 0 {
		a.put(cardsX, 4, "No scores yet.", styleDim)
	}
	for i := a.scroll; i < len(a.entries) && i-a.scroll < a.historyRows(); i++ {
		e := a.entries[i]
		result := "lost"
		if e.Won {
			result = "won"
		}
		style := styleText
		if i == a.highlight {
			style = styleHilite
		}
		line := fmt.Sprintf("%-4s %-20s %6d  %-5s  %s", fmt.Sprintf("%d.", i+1), e.Name, e.Score, result, e.Time().Format("2006-01-02"))
		a.put(cardsX, 3+i-a.scroll, line, style)
	}
	a.footer("n new run  r restart  m menu  q quit")
}

var helpLines = []string{
	"Scoundrel",
	"",
	"Clubs and spades are monsters, diamonds weapons, hearts potions.",
	"Take three of the four cards in a room; the fourth stays for the next.",
	"A weapon can only fight monsters no stronger than its last kill.",
	"One potion heals per turn. You may avoid a full room, not twice in a row.",
	"",
	"←→ ↑↓    move the selection",
	"Enter    take the selected card",
	"1-4      take a card by slot",
	"w / b    fight with weapon / barehanded",
	"v        avoid the room",
	"n        new run, asking for a name",
	"r        new run as the same player",
	"l / m    leaderboard / menu",
	"q / Esc  quit",
	"",
	"Press any key to close.",
}

func (a *App) drawHelp() {
	w, _ := a.screen.Size()
	width := 0
	for _, l := range helpLines {
		width = max(width, runewidth.StringWidth(l))
	}
	x0 := max((w-width-4)/2, 0)
	for i := -1; i <= len(helpLines); i++ {
		a.put(x0, 2+i, strings.Repeat(" ", width+4), styleHilite)
	}
	for i, l := range helpLines {
		a.put(x0+2, 2+i, l, styleHilite)
	}
}
