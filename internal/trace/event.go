package trace

import "time"

// Kind tells spans from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver   Scope = iota + 1 // CLI and scenario orchestration
	ScopeFunction                  // one emitted IR function
	ScopeBranch                    // conditional arms and loop bodies
	ScopeValue                     // allocations, casts, reloads, scope updates
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeFunction: "function", ScopeBranch: "branch", ScopeValue: "value"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Seq is assigned by the sink that keeps it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points
	ParentID uint64 // enclosing span, 0 at top level
	Name     string // "emit:<func>", "tuple.alloc", "cache.reload", ...
	Detail   string
	Extra    map[string]string // end events only
}
