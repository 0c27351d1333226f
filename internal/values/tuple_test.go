package values

import (
	"reflect"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/branch"
	"qir/internal/ice"
	"qir/internal/rtlib"
	"qir/internal/types"
)

func TestHeapRecordRoundTrip(t *testing.T) {
	c, rec, _ := newTestContext(t)
	b := c.Types.Builtins()
	seven := c.intValue(7)
	yes := NewScalar(c, c.Bool(true), b.Bool)

	tup := NewTupleFromValues(c, types.NoTypeID, []Value{seven, yes}, AllocOptions{})
	if tup.Field(0) != Value(seven) || tup.Field(1) != Value(yes) {
		t.Fatalf("fields must be the stored values")
	}

	blocks := c.Func().Blocks
	creates := callsTo(blocks, rtlib.TupleCreate)
	if len(creates) != 1 {
		t.Fatalf("tuple_create calls = %d, want 1", len(creates))
	}
	if size := creates[0].Args[0].(*constant.Int); size.X.Int64() != 16 {
		t.Fatalf("tuple size = %s, want 16", size.X)
	}
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"bitcast", count[*ir.InstBitCast](blocks), 1},
		{"getelementptr", count[*ir.InstGetElementPtr](blocks), 2},
		{"store", count[*ir.InstStore](blocks), 2},
		{"load", count[*ir.InstLoad](blocks), 0},
	}
	for _, tc := range checks {
		if tc.got != tc.want {
			t.Errorf("%s count = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
	if len(rec.registered) != 1 || rec.registered[0] != Value(tup) {
		t.Fatalf("registered = %v, want the record only", rec.registered)
	}
	if len(rec.retained) != 2 {
		t.Fatalf("retained %d items, want 2", len(rec.retained))
	}
}

func TestRecordPointerDuality(t *testing.T) {
	pair := func(c *Context) types.TypeID {
		b := c.Types.Builtins()
		return c.Types.RegisterTuple([]types.TypeID{b.Int, b.Int})
	}
	t.Run("typed root", func(t *testing.T) {
		c, _, _ := newTestContext(t)
		typ := pair(c)
		param := ir.NewParam("p", irtypes.NewPointer(c.TypedTuple(c.Types.Items(typ))))
		c.BeginFunction("typed", irtypes.Void, param)

		tup := WrapTuple(c, typ, param)
		opaque := tup.OpaquePointer()
		if _, ok := opaque.(*ir.InstBitCast); !ok {
			t.Fatalf("opaque view = %T, want a bitcast", opaque)
		}
		if tup.TypedPointer() != value.Value(param) {
			t.Fatalf("typed view must be the original handle")
		}
		if tup.OpaquePointer() != opaque {
			t.Fatalf("opaque view must be cached")
		}
		if n := count[*ir.InstBitCast](c.Func().Blocks); n != 1 {
			t.Fatalf("bitcasts = %d, want 1", n)
		}
	})
	t.Run("opaque root", func(t *testing.T) {
		c, _, _ := newTestContext(t)
		param := ir.NewParam("p", c.IR.Tuple)
		c.BeginFunction("opaque", irtypes.Void, param)

		tup := WrapTuple(c, pair(c), param)
		if tup.OpaquePointer() != value.Value(param) {
			t.Fatalf("opaque view must be the original handle")
		}
		typed := tup.TypedPointer()
		if !c.IR.IsTypedTuple(typed.Type()) {
			t.Fatalf("typed view has type %s", typed.Type())
		}
		if tup.Handle() != typed {
			t.Fatalf("heap record handle is the typed view")
		}
	})
}

func TestUnresolvedRecordPointer(t *testing.T) {
	c, _, _ := newTestContext(t)
	b := c.Types.Builtins()
	pair := c.Types.RegisterTuple([]types.TypeID{b.Int, b.Bool})
	tup := WrapTuple(c, pair, c.Unit())

	expectICE(t, ice.UnresolvedDuality, func() { tup.OpaquePointer() })
	expectICE(t, ice.UnresolvedDuality, func() { tup.TypedPointer() })
	expectICE(t, ice.UnresolvedDuality, func() { tup.Field(0) })
}

func TestInlineRecord(t *testing.T) {
	c, rec, _ := newTestContext(t)
	b := c.Types.Builtins()
	one, yes := c.intValue(1), NewScalar(c, c.Bool(true), b.Bool)

	tup := NewTupleFromValues(c, types.NoTypeID, []Value{one, yes}, AllocOptions{Inline: true})
	if !tup.IsInline() {
		t.Fatalf("record must be in registers")
	}
	if c.Runtime.Declared(rtlib.TupleCreate) {
		t.Fatalf("in-register records must not allocate")
	}
	if len(rec.registered) != 0 {
		t.Fatalf("in-register records are not registered")
	}
	if _, ok := tup.LLVMType().(*irtypes.StructType); !ok {
		t.Fatalf("LLVMType = %s, want a struct", tup.LLVMType())
	}

	before := tup.Handle()
	five := c.intValue(5)
	tup.FieldPointer(0).StoreValue(five)
	if tup.Handle() == before {
		t.Fatalf("storing a field must produce a new aggregate")
	}
	if tup.Field(0) != Value(five) || tup.Field(1) != Value(yes) {
		t.Fatalf("fields must reflect the latest stores")
	}
	blocks := c.Func().Blocks
	if n := count[*ir.InstInsertValue](blocks); n != 3 {
		t.Fatalf("insertvalue count = %d, want 3", n)
	}
	if n := count[*ir.InstExtractValue](blocks); n != 0 {
		t.Fatalf("extractvalue count = %d, want 0", n)
	}
	expectICE(t, ice.RepresentationMismatch, func() { tup.OpaquePointer() })
}

func TestTupleFromExprs(t *testing.T) {
	c, rec, low := newTestContext(t)
	exprs := []Expr{intLit(c, 1, 10), intLit(c, 2, 20)}
	tup := NewTupleFromExprs(c, types.NoTypeID, exprs, AllocOptions{})

	if !reflect.DeepEqual(low.seen, []int{1, 2}) {
		t.Fatalf("lowering order = %v, want [1 2]", low.seen)
	}
	if len(rec.retained) != 2 {
		t.Fatalf("retained %d items, want 2", len(rec.retained))
	}
	b := c.Types.Builtins()
	if want := c.Types.RegisterTuple([]types.TypeID{b.Int, b.Int}); tup.SemanticType() != want {
		t.Fatalf("semantic type = %d, want %d", tup.SemanticType(), want)
	}
}

func TestUnscopedTupleIsNotRegistered(t *testing.T) {
	c, rec, _ := newTestContext(t)
	b := c.Types.Builtins()
	NewTuple(c, []types.TypeID{b.Int}, AllocOptions{Unscoped: true})
	if len(rec.registered) != 0 || len(rec.retained) != 0 {
		t.Fatalf("unscoped allocation must not touch the scope manager")
	}
	if n := len(callsTo(c.Func().Blocks, rtlib.TupleCreate)); n != 1 {
		t.Fatalf("tuple_create calls = %d, want 1", n)
	}
}

func TestUserDefinedRecord(t *testing.T) {
	c, _, _ := newTestContext(t)
	b := c.Types.Builtins()
	name := types.QualifiedName{Namespace: "Demo", Name: "Pair"}
	udt := c.Types.RegisterUDT(name, []types.TypeID{b.Int, b.Bool})

	expectICE(t, ice.ArityMismatch, func() {
		NewTupleFromValues(c, udt, []Value{c.intValue(1)}, AllocOptions{})
	})

	tup := NewTupleFromValues(c, udt, []Value{c.intValue(1), NewScalar(c, c.Bool(false), b.Bool)}, AllocOptions{})
	if tup.SemanticType() != udt {
		t.Fatalf("semantic type = %d, want %d", tup.SemanticType(), udt)
	}
	got, ok := tup.TypeName()
	if !ok || got != name {
		t.Fatalf("TypeName = %v, %v", got, ok)
	}
	if _, ok := NewTuple(c, []types.TypeID{b.Int}, AllocOptions{}).TypeName(); ok {
		t.Fatalf("anonymous tuples have no name")
	}
}

func TestFieldPointersCachedPerRegion(t *testing.T) {
	c, _, _ := newTestContext(t)
	b := c.Types.Builtins()
	tup := NewTuple(c, []types.TypeID{b.Int}, AllocOptions{})

	c.EnterBranch(branch.KindConditional)
	first := tup.FieldPointer(0)
	if tup.FieldPointer(0) != first {
		t.Fatalf("field pointer must be cached within its region")
	}
	c.ExitBranch()

	c.EnterBranch(branch.KindConditional)
	second := tup.FieldPointer(0)
	c.ExitBranch()
	if second == first {
		t.Fatalf("field pointer from a sibling region must be recomputed")
	}
	if n := count[*ir.InstGetElementPtr](c.Func().Blocks); n != 2 {
		t.Fatalf("getelementptr count = %d, want 2", n)
	}
	expectICE(t, ice.ArityMismatch, func() { tup.FieldPointer(1) })
}
