// Package observ measures the wall time of emission phases.
package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase is one measured step of an emission run.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects phases in the order they were started.
type Timer struct {
	now    func() time.Time
	starts []time.Time
	phases []Phase
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Begin starts a phase and returns the function that ends it.
func (t *Timer) Begin(name string) func(note string) {
	idx := len(t.phases)
	t.phases = append(t.phases, Phase{Name: name})
	t.starts = append(t.starts, t.now())
	return func(note string) {
		p := &t.phases[idx]
		p.Dur = t.now().Sub(t.starts[idx])
		p.Note = note
	}
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	return append([]Phase(nil), t.phases...)
}

// Total is the sum of all phase durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// WriteSummary prints one aligned line per phase followed by the total.
func (t *Timer) WriteSummary(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, p := range t.phases {
		line := fmt.Sprintf("  %-12s %8.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			line += "  (" + p.Note + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-12s %8.2f ms\n", "total", millis(t.Total()))
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
