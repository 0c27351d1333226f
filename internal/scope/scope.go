// Package scope tracks ownership of heap values during lowering and emits
// the runtime reference-count updates that ownership changes imply.
//
// Values registered in a scope are released when the scope closes unless
// they are the scope's survivor, whose ownership passes to whatever the
// survivor was stored into. Retaining a value emits an increment right away.
package scope

import (
	"fmt"

	"github.com/llir/llvm/ir/value"

	"qir/internal/gen"
	"qir/internal/trace"
	"qir/internal/types"
	"qir/internal/values"
)

// Op is the kind of a recorded ownership event.
type Op uint8

const (
	OpRegister Op = iota + 1
	OpRetain
	OpRelease
	OpOpen
	OpClose
)

func (op Op) String() string {
	switch op {
	case OpRegister:
		return "register"
	case OpRetain:
		return "retain"
	case OpRelease:
		return "release"
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is one recorded ownership change.
type Event struct {
	Op    Op
	Depth int
	Type  string // semantic type label, empty for open and close
}

// Manager is a scope manager for one function at a time.
type Manager struct {
	gen    *gen.Context
	scopes [][]values.Value
	events []Event
}

// New returns a manager with the function-level scope open.
func New(g *gen.Context) *Manager {
	return &Manager{gen: g, scopes: make([][]values.Value, 1, 4)}
}

// RegisterValue implements values.ScopeManager.
func (m *Manager) RegisterValue(v values.Value) {
	top := len(m.scopes) - 1
	m.scopes[top] = append(m.scopes[top], v)
	m.record(OpRegister, v)
}

// IncreaseReferenceCount implements values.ScopeManager.
func (m *Manager) IncreaseReferenceCount(v values.Value) {
	if m.update(v, 1) {
		m.record(OpRetain, v)
	}
}

// OpenScope implements values.ScopeManager.
func (m *Manager) OpenScope() {
	m.scopes = append(m.scopes, nil)
	m.events = append(m.events, Event{Op: OpOpen, Depth: m.Depth()})
}

// CloseScope implements values.ScopeManager. A survivor that was not
// registered in the closing scope is retained, since its new owner keeps a
// reference in addition to the existing ones.
func (m *Manager) CloseScope(survivor values.Value) {
	if len(m.scopes) == 1 {
		panic(fmt.Errorf("scope: close without matching open"))
	}
	top := m.scopes[len(m.scopes)-1]
	m.scopes = m.scopes[:len(m.scopes)-1]

	found := m.releaseAll(top, survivor)
	if survivor != nil && !found {
		m.IncreaseReferenceCount(survivor)
	}
	m.events = append(m.events, Event{Op: OpClose, Depth: m.Depth() + 1})
}

// ExitFunction releases everything still owned by the function except
// returned, which may be nil, and resets the manager for the next function.
func (m *Manager) ExitFunction(returned values.Value) {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		m.releaseAll(m.scopes[i], returned)
	}
	m.scopes = m.scopes[:1]
	m.scopes[0] = nil
}

func (m *Manager) releaseAll(owned []values.Value, survivor values.Value) bool {
	found := false
	for i := len(owned) - 1; i >= 0; i-- {
		v := owned[i]
		if survivor != nil && v == survivor {
			found = true
			continue
		}
		if m.update(v, -1) {
			m.record(OpRelease, v)
		}
	}
	return found
}

// update emits a reference-count change for v. It reports false for values
// that are not counted heap objects.
func (m *Manager) update(v values.Value, change int64) bool {
	handle, kind, ok := heapObject(m.gen.Types, v)
	if !ok {
		return false
	}
	sym, ok := gen.UpdateSymbol(kind, false)
	if !ok {
		return false
	}
	m.gen.Block().NewCall(m.gen.RuntimeFunction(sym), handle, m.gen.Int32(change))
	return true
}

// heapObject returns the counted handle of v and the kind of runtime object
// behind it. Aggregates are classified by representation, not by semantic
// type: an empty record is still a heap tuple.
func heapObject(in *types.Interner, v values.Value) (value.Value, types.Kind, bool) {
	switch v := v.(type) {
	case *values.Tuple:
		if v.IsInline() {
			return nil, 0, false
		}
		return v.OpaquePointer(), types.KindTuple, true
	case *values.Array:
		if v.IsInline() {
			return nil, 0, false
		}
		return v.OpaquePointer(), types.KindArray, true
	case *values.Callable:
		return v.Handle(), types.KindCallable, true
	case *values.Scalar:
		if gen.IsNullConstant(v.Handle()) {
			return nil, 0, false
		}
		return v.Handle(), in.KindOf(v.SemanticType()), true
	default:
		return nil, 0, false
	}
}

func (m *Manager) record(op Op, v values.Value) {
	label := types.Label(m.gen.Types, v.SemanticType())
	m.events = append(m.events, Event{Op: op, Depth: m.Depth(), Type: label})
	m.gen.Trace(trace.ScopeValue, "scope."+op.String(), label)
}

// Depth returns the number of open scopes below the function scope.
func (m *Manager) Depth() int {
	return len(m.scopes) - 1
}

// Events returns the recorded ownership changes in order.
func (m *Manager) Events() []Event {
	return append([]Event(nil), m.events...)
}

// Count returns how many events of op were recorded.
func (m *Manager) Count(op Op) int {
	n := 0
	for _, e := range m.events {
		if e.Op == op {
			n++
		}
	}
	return n
}
