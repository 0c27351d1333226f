package trace

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var seq atomic.Uint64

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// stream writes every admitted event as soon as it is emitted.
type stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func (s *stream) Emit(ev *Event) {
	if !s.level.allows(ev.Scope) {
		return
	}
	ev.Seq = seq.Add(1)
	data := s.format.encode(ev)
	s.mu.Lock()
	_, _ = s.w.Write(data) // tracing never fails emission
	s.mu.Unlock()
}

func (s *stream) Flush() error {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (s *stream) Close() error {
	err := s.Flush()
	if c, ok := s.w.(io.Closer); ok && s.w != os.Stderr && s.w != os.Stdout {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (s *stream) Level() Level  { return s.level }
func (s *stream) Enabled() bool { return s.level > LevelOff }

// ring keeps the most recent events for a dump after a failure. At
// LevelError it keeps every scope.
type ring struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	full  bool
	level Level
}

func newRing(size int, level Level) *ring {
	if size <= 0 {
		size = defaultRingSize
	}
	return &ring{buf: make([]Event, size), level: level}
}

func (r *ring) Emit(ev *Event) {
	if r.level != LevelError && !r.level.allows(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = seq.Add(1)
	r.mu.Lock()
	r.buf[r.next] = stored
	r.next = (r.next + 1) % len(r.buf)
	r.full = r.full || r.next == 0
	r.mu.Unlock()
}

// snapshot returns the kept events oldest first.
func (r *ring) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	return append(append([]Event(nil), r.buf[r.next:]...), r.buf[:r.next]...)
}

func (r *ring) Flush() error  { return nil }
func (r *ring) Close() error  { return nil }
func (r *ring) Level() Level  { return r.level }
func (r *ring) Enabled() bool { return r.level > LevelOff }

// fanout sends a copy of each event to a stream and a ring.
type fanout struct {
	sinks []Tracer
	level Level
}

func (f *fanout) Emit(ev *Event) {
	for _, s := range f.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

func (f *fanout) Flush() error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level  { return f.level }
func (f *fanout) Enabled() bool { return f.level > LevelOff }

func ringOf(t Tracer) *ring {
	switch t := t.(type) {
	case *ring:
		return t
	case *fanout:
		for _, s := range t.sinks {
			if r, ok := s.(*ring); ok {
				return r
			}
		}
	}
	return nil
}

// DumpRing writes the events kept by t's ring buffer to w as text. It
// reports false when t keeps no ring.
func DumpRing(t Tracer, w io.Writer) (bool, error) {
	r := ringOf(t)
	if r == nil {
		return false, nil
	}
	for _, ev := range r.snapshot() {
		if _, err := w.Write(FormatText.encode(&ev)); err != nil {
			return true, err
		}
	}
	return true, nil
}
