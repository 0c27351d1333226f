package scope

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/gen"
	"qir/internal/rtlib"
	"qir/internal/types"
	"qir/internal/values"
)

func newTestContext(t *testing.T) (*values.Context, *Manager) {
	t.Helper()
	g := gen.New(gen.Config{})
	g.BeginFunction("test", irtypes.Void)
	m := New(g)
	return values.NewContext(g, m, nil), m
}

func updates(c *values.Context, sym rtlib.Symbol) []int64 {
	var out []int64
	for _, b := range c.Func().Blocks {
		for _, inst := range b.Insts {
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}
			if f, ok := call.Callee.(*ir.Func); ok && f.Name() == sym.Name() {
				out = append(out, call.Args[1].(*constant.Int).X.Int64())
			}
		}
	}
	return out
}

func TestCloseScopeReleasesRegisteredValues(t *testing.T) {
	c, m := newTestContext(t)
	b := c.Types.Builtins()

	m.OpenScope()
	values.NewTuple(c, []types.TypeID{b.Int}, values.AllocOptions{})
	values.NewTuple(c, []types.TypeID{b.Bool}, values.AllocOptions{})
	m.CloseScope(nil)

	got := updates(c, rtlib.TupleUpdateReferenceCount)
	if len(got) != 2 || got[0] != -1 || got[1] != -1 {
		t.Fatalf("updates = %v, want two releases", got)
	}
	if m.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", m.Depth())
	}
}

func TestSurvivorOwnershipMoves(t *testing.T) {
	c, m := newTestContext(t)
	b := c.Types.Builtins()

	outer := values.NewTuple(c, []types.TypeID{b.Int}, values.AllocOptions{})
	m.OpenScope()
	m.CloseScope(outer)
	if got := updates(c, rtlib.TupleUpdateReferenceCount); len(got) != 1 || got[0] != 1 {
		t.Fatalf("a survivor from an outer scope gains a reference, updates = %v", got)
	}

	m.OpenScope()
	inner := values.NewTuple(c, []types.TypeID{b.Int}, values.AllocOptions{})
	m.CloseScope(inner)
	if got := updates(c, rtlib.TupleUpdateReferenceCount); len(got) != 1 {
		t.Fatalf("a survivor registered in the scope is handed over as is, updates = %v", got)
	}
}

func TestGeneratedArrayOfRecords(t *testing.T) {
	c, m := newTestContext(t)
	b := c.Types.Builtins()
	pair := c.Types.RegisterTuple([]types.TypeID{b.Int, b.Int})

	values.NewArrayGenerated(c, pair, c.Int(4), func(i value.Value) values.Value {
		return values.NewTupleFromValues(c, types.NoTypeID, []values.Value{
			values.NewScalar(c, i, b.Int),
			values.NewScalar(c, i, b.Int),
		}, values.AllocOptions{})
	}, values.AllocOptions{})

	if got := updates(c, rtlib.TupleUpdateReferenceCount); len(got) != 0 {
		t.Fatalf("produced records move into the array, updates = %v", got)
	}
	if m.Count(OpRegister) != 2 {
		t.Fatalf("registrations = %d, want the array and the record", m.Count(OpRegister))
	}
	if m.Count(OpOpen) != 1 || m.Count(OpClose) != 1 {
		t.Fatalf("scopes = %d/%d, want 1/1", m.Count(OpOpen), m.Count(OpClose))
	}
}

func TestScalarsAreNotCounted(t *testing.T) {
	c, m := newTestContext(t)
	b := c.Types.Builtins()

	values.NewTupleFromValues(c, types.NoTypeID, []values.Value{
		values.NewScalar(c, c.Int(1), b.Int),
		values.NewScalar(c, c.Double(2), b.Double),
	}, values.AllocOptions{})
	if m.Count(OpRetain) != 0 {
		t.Fatalf("scalars must not be retained")
	}
}

func TestExitFunctionReleasesAllButReturned(t *testing.T) {
	c, m := newTestContext(t)
	b := c.Types.Builtins()

	kept := values.NewArray(c, b.Int, c.Int(2), values.AllocOptions{})
	values.NewArray(c, b.Int, c.Int(3), values.AllocOptions{})
	m.OpenScope()
	values.NewArray(c, b.Int, c.Int(4), values.AllocOptions{})
	m.ExitFunction(kept)

	got := updates(c, rtlib.ArrayUpdateReferenceCount)
	if len(got) != 2 {
		t.Fatalf("updates = %v, want two releases", got)
	}
	if m.Depth() != 0 {
		t.Fatalf("ExitFunction must reset the scope stack")
	}
}

func TestCloseWithoutOpenPanics(t *testing.T) {
	_, m := newTestContext(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	m.CloseScope(nil)
}

func TestEmptyRecordIsCounted(t *testing.T) {
	c, m := newTestContext(t)

	empty := values.NewTuple(c, nil, values.AllocOptions{})
	m.IncreaseReferenceCount(empty)
	m.ExitFunction(nil)

	got := updates(c, rtlib.TupleUpdateReferenceCount)
	if len(got) != 2 || got[0] != 1 || got[1] != -1 {
		t.Fatalf("updates = %v, want one retain and one release", got)
	}
	if m.Count(OpRegister) != 1 || m.Count(OpRelease) != 1 {
		t.Fatalf("register=%d release=%d, want 1 each", m.Count(OpRegister), m.Count(OpRelease))
	}
}
