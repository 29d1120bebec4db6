// Package ui is the terminal front end: a tcell event loop over a menu, the
// running game, the game-over screen, name entry and the leaderboard.
package ui

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
)

// Phase is the screen the App is showing.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseNameEntry
	PhaseLeaderboard
	PhaseRunning
	PhaseGameOver
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseNameEntry:
		return "name entry"
	case PhaseLeaderboard:
		return "leaderboard"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// messageTTL is how long a status message stays on screen.
const messageTTL = 4 * time.Second

// stopTimeout bounds how long Stop waits for the event loop to return.
const stopTimeout = 2 * time.Second

type (
	stopSignal struct{}
	tickSignal struct{}
)

// Options configures an App.
type Options struct {
	// DefaultName is the player name until one is entered.
	DefaultName string
	// LeaderboardSize is the number of rows shown.
	LeaderboardSize int
	// Mouse enables wheel scrolling and click-to-select.
	Mouse bool
	// TickRate is the interval at which expired messages are cleared.
	TickRate time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// App owns the screen and the current run. HandleEvent and Draw must be
// called from a single goroutine; Stop may be called from any.
type App struct {
	screen tcell.Screen
	store  leaderboard.Store
	newRun func() *run.Run
	opts   Options
	logger *zap.Logger
	ctx    context.Context

	mu       sync.Mutex
	loopDone chan struct{}

	phase    Phase
	run      *run.Run
	view     run.View
	selected int
	help     bool
	quit     bool

	message    string
	messageErr bool
	messageAt  time.Time

	menuCursor int
	name       []rune
	player     string
	recorded   bool
	rank       int
	entries    []leaderboard.Entry
	highlight  int
	scroll     int
}

// New creates an App in the menu phase.
//
// Precondition: screen must be initialised; store, newRun and logger must be non-nil.
// Postcondition: Returns an App ready for Run or Start.
func New(screen tcell.Screen, store leaderboard.Store, newRun func() *run.Run, opts Options, logger *zap.Logger) *App {
	if opts.DefaultName == "" {
		opts.DefaultName = leaderboard.DefaultName
	}
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = leaderboard.DefaultSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &App{
		screen:    screen,
		store:     store,
		newRun:    newRun,
		opts:      opts,
		logger:    logger,
		ctx:       context.Background(),
		player:    opts.DefaultName,
		rank:      -1,
		highlight: -1,
	}
}

// Phase returns the current phase.
func (a *App) Phase() Phase { return a.phase }

// Message returns the status line text.
func (a *App) Message() string { return a.message }

// View returns the view of the current run.
func (a *App) View() run.View { return a.view }

// Start runs the event loop until the player quits or Stop is called. It
// satisfies server.Service.
func (a *App) Start() error {
	return a.Run(context.Background())
}

// Stop asks a running event loop to return and waits until it has, so the
// caller may Fini the screen afterwards. It returns at once when no loop is
// running.
func (a *App) Stop() {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(stopSignal{}))
	a.mu.Lock()
	done := a.loopDone
	a.mu.Unlock()
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(stopTimeout):
		a.logger.Warn("ui did not stop in time", zap.Duration("timeout", stopTimeout))
	}
}

// Run draws the screen and handles events until quit, Stop, or ctx is done.
//
// Postcondition: the screen is left initialised; the caller calls Fini.
func (a *App) Run(ctx context.Context) error {
	loopDone := make(chan struct{})
	a.mu.Lock()
	a.loopDone = loopDone
	a.mu.Unlock()
	defer close(loopDone)

	a.ctx = ctx
	if a.opts.Mouse {
		a.screen.EnableMouse()
	}
	done := make(chan struct{})
	defer close(done)
	go a.tick(ctx, done)

	a.logger.Info("ui started", zap.Bool("mouse", a.opts.Mouse))
	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.HandleEvent(ev) {
			a.logger.Info("ui stopped", zap.String("phase", a.phase.String()))
			return nil
		}
		a.Draw()
	}
}

func (a *App) tick(ctx context.Context, done <-chan struct{}) {
	if a.opts.TickRate <= 0 {
		<-done
		return
	}
	t := time.NewTicker(a.opts.TickRate)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(stopSignal{}))
			return
		case <-t.C:
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(tickSignal{}))
		}
	}
}

// HandleEvent applies one terminal event and reports whether the App should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		switch ev.Data().(type) {
		case stopSignal:
			a.quit = true
		case tickSignal:
			if a.message != "" && a.opts.Now().Sub(a.messageAt) > messageTTL {
				a.message = ""
			}
		}
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return a.quit
}

func (a *App) setMessage(msg string) {
	a.message, a.messageErr, a.messageAt = msg, false, a.opts.Now()
}

func (a *App) setError(err error) {
	a.message, a.messageErr, a.messageAt = describe(err), true, a.opts.Now()
	if !run.IsActionError(err) {
		a.logger.Error("ui action failed", zap.String("phase", a.phase.String()), zap.Error(err))
	}
}
