package autoplay

import (
	"fmt"
	"io"

	"github.com/cory-johannsen/scoundrel/internal/game/run"
	"github.com/cory-johannsen/scoundrel/internal/render"
)

// Transcript writes a colored, human-readable log of autoplay runs.
type Transcript struct {
	w     io.Writer
	color bool
	err   error
}

// NewTranscript returns a Transcript writing to w. With color false all ANSI
// sequences are stripped.
func NewTranscript(w io.Writer, color bool) *Transcript {
	return &Transcript{w: w, color: color}
}

// Err returns the first write error, if any.
func (t *Transcript) Err() error { return t.err }

func (t *Transcript) line(s string) {
	if t.err != nil {
		return
	}
	if !t.color {
		s = render.StripANSI(s)
	}
	_, t.err = fmt.Fprintln(t.w, s)
}

// Run writes the header, decisions and history of one finished run.
func (t *Transcript) Run(n int, res Result) {
	t.line(render.Colorf(render.Bold, "== Run %d (%s) ==", n, res.RunID))
	for i, s := range res.Steps {
		suffix := ""
		if s.Fallback {
			suffix = render.Colorize(render.Magenta, " (fallback)")
		}
		t.line(fmt.Sprintf("%3d. %s%s", i+1, s.Decision, suffix))
	}
	t.History(res.Final)
}

// History writes the status, the event log and the outcome of v.
func (t *Transcript) History(v run.View) {
	for _, e := range v.History {
		t.line("  " + render.Event(e))
	}
	t.line(render.Status(v))
	t.line(render.Outcome(v))
}
