package observ

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Phase is one timed step of a compile session (load, order, compile ...).
type Phase struct {
	Name    string
	Started time.Time
	Took    time.Duration
	Note    string
	done    bool
}

// Timer records session phases in the order they begin. A phase may be
// begun more than once (prelude, then sources); each run is its own entry.
// Used from the session goroutine only.
type Timer struct {
	now    func() time.Time
	phases []Phase
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin opens a phase and returns the handle End and Elapsed take.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Started: t.now()})
	return len(t.phases) - 1
}

// End closes a phase. Unknown handles and second calls are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) || t.phases[idx].done {
		return
	}
	p := &t.phases[idx]
	p.Took = t.now().Sub(p.Started)
	p.Note = note
	p.done = true
}

// Elapsed is the duration of a closed phase or the running time of an
// open one.
func (t *Timer) Elapsed(idx int) time.Duration {
	if idx < 0 || idx >= len(t.phases) {
		return 0
	}
	p := t.phases[idx]
	if !p.done {
		return t.now().Sub(p.Started)
	}
	return p.Took
}

// PhaseReport is a closed phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report summarises a session. Phases still open are left out.
type Report struct {
	Files   int           `json:"files"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		if !p.done {
			continue
		}
		total += p.Took
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Took), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// WriteText renders r as an aligned table, one phase per line.
func (r Report) WriteText(w io.Writer) error {
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, len(p.Name))
	}
	if _, err := fmt.Fprintf(w, "timings (%d files):\n", r.Files); err != nil {
		return err
	}
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-*s %9.2f ms", width, p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  " + p.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-*s %9.2f ms\n", width, "total", r.TotalMS)
	return err
}

// WriteJSON writes r as a single JSON line.
func (r Report) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
