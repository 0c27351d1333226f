package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of the emitter is traced. Each level includes the
// scopes of the levels below it.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // ring buffer only, dumped when emission fails
	LevelPhase               // driver and function spans
	LevelDetail              // plus branch regions
	LevelDebug               // plus per-value events
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String; empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (want %s)", s, strings.Join(levelNames[:], "|"))
}

// widest is the finest scope a level lets through.
func (l Level) widest() Scope {
	switch l {
	case LevelPhase:
		return ScopeFunction
	case LevelDetail:
		return ScopeBranch
	case LevelDebug:
		return ScopeValue
	default:
		return 0
	}
}

func (l Level) allows(s Scope) bool {
	return s != 0 && s <= l.widest()
}
