package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerRecordsPhasesInOrder(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	endConfig := tm.Begin("config")
	endConfig("")
	endLower := tm.Begin("lower")
	endLower("3 scenarios")

	phases := tm.Phases()
	if len(phases) != 2 || phases[0].Name != "config" || phases[1].Name != "lower" {
		t.Fatalf("phases = %+v", phases)
	}
	for _, p := range phases {
		if p.Dur != 2*time.Millisecond {
			t.Fatalf("%s took %v", p.Name, p.Dur)
		}
	}
	if tm.Total() != 4*time.Millisecond {
		t.Fatalf("total = %v", tm.Total())
	}

	var buf bytes.Buffer
	if err := tm.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"timings:", "lower            2.00 ms  (3 scenarios)", "total            4.00 ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary lacks %q:\n%s", want, out)
		}
	}
}

func TestNestedPhasesEndIndependently(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	outer := tm.Begin("emit")
	inner := tm.Begin("write")
	inner("")
	outer("")
	phases := tm.Phases()
	if phases[0].Dur != 3*time.Millisecond || phases[1].Dur != time.Millisecond {
		t.Fatalf("phases = %+v", phases)
	}
}
