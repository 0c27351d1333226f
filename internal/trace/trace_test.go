package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelAdmitsScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeFunction, true},
		{LevelPhase, ScopeBranch, false},
		{LevelDetail, ScopeBranch, true},
		{LevelDetail, ScopeValue, false},
		{LevelDebug, ScopeValue, true},
	}
	for _, tt := range tests {
		if got := tt.level.allows(tt.scope); got != tt.want {
			t.Errorf("%s.allows(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseNames(t *testing.T) {
	if l, err := ParseLevel("Detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	span := Begin(tr, ScopeFunction, "emit:main", 0)
	Point(tr, ScopeValue, "tuple.alloc", "size=16", span.ID())
	span.WithExtra("blocks", "3").End("ok")

	out := buf.String()
	for _, want := range []string{"begin emit:main", "point   tuple.alloc (size=16)", "end   emit:main (ok) blocks=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStreamNDJSONFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeDriver, "scenario", "record", 0)
	Point(tr, ScopeValue, "hidden", "", 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one event, got %d:\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["name"] != "scenario" || ev["scope"] != "driver" || ev["kind"] != "point" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := newRing(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeValue, name, "", 0)
	}
	snap := r.snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestErrorLevelRingKeepsEverything(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeRing, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeFunction, "emit:f", 0).End("")
	Point(tr, ScopeValue, "cache.reload", "", 0)

	var buf bytes.Buffer
	ok, err := DumpRing(tr, &buf)
	if !ok || err != nil {
		t.Fatalf("DumpRing = %v, %v", ok, err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Fatalf("dumped %d events, want 3:\n%s", n, buf.String())
	}
	if ok, _ := DumpRing(Nop, &buf); ok {
		t.Fatalf("Nop keeps no ring")
	}
}

func TestBothModeFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeValue, "x", "", 0)
	r := ringOf(tr)
	if r == nil || len(r.snapshot()) != 1 || buf.Len() == 0 {
		t.Fatalf("event not fanned out")
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	r := newRing(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
	if off, _ := New(Config{Level: LevelOff}); off.Enabled() {
		t.Fatalf("off level must produce a disabled tracer")
	}
}
