package values

import (
	"fortio.org/safecast"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/gen"
	"qir/internal/ice"
	"qir/internal/rtlib"
	"qir/internal/trace"
	"qir/internal/types"
)

// Array is a one-dimensional sequence. A heap array is an opaque %Array*
// managed by the runtime; an in-register array is a [N x T] value whose
// length must be a compile-time constant.
type Array struct {
	ctx      *Context
	elemType types.TypeID
	elemLLVM irtypes.Type
	inline   bool

	// handle is the %Array* or the current [N x T] aggregate.
	handle value.Value

	count    uint32
	hasCount bool
	length   *Cached[value.Value]
}

// NewArray creates an array of length uninitialized elements.
func NewArray(c *Context, elemType types.TypeID, length value.Value, opts AllocOptions) *Array {
	a := &Array{ctx: c, elemType: elemType, inline: opts.Inline}
	a.length = NewCached(c, a.queryLength, nil)
	a.count, a.hasCount = gen.AsConstant(length)

	if opts.Inline {
		if !a.hasCount {
			ice.Raise(ice.NonConstant, "in-register arrays need a constant length")
		}
		a.elemLLVM = c.LLVMType(elemType, true)
		a.handle = c.Zero(irtypes.NewArray(uint64(a.count), a.elemLLVM))
		return a
	}

	a.elemLLVM = c.LLVMType(elemType, false)
	size := c.ComputeSize(a.elemLLVM, irtypes.I32)
	c.Trace(trace.ScopeValue, "array.alloc", types.Label(c.Types, elemType))
	a.handle = c.Block().NewCall(c.RuntimeFunction(rtlib.ArrayCreate1d), size, length)
	a.length.Seed(length)
	if !opts.Unscoped {
		c.Scope.RegisterValue(a)
	}
	return a
}

// NewArrayGenerated creates an array of length elements and fills it by
// calling produce for each index in ascending order. Every produce call runs
// in its own scope out of which only the produced element survives. Heap
// arrays are filled by an emitted loop; in-register arrays are unrolled.
func NewArrayGenerated(c *Context, elemType types.TypeID, length value.Value, produce func(index value.Value) Value, opts AllocOptions) *Array {
	a := NewArray(c, elemType, length, opts)
	if a.hasCount && a.count == 0 {
		return a
	}
	fill := func(index value.Value) {
		c.Scope.OpenScope()
		item := produce(index)
		a.ElementPointer(index).StoreValue(item)
		c.Scope.CloseScope(item)
	}
	if a.inline {
		for i := uint32(0); i < a.count; i++ {
			fill(c.Int(int64(i)))
		}
		return a
	}
	var end value.Value
	if a.hasCount {
		end = c.Int(int64(a.count) - 1)
	} else {
		end = c.Block().NewSub(length, c.Int(1))
	}
	c.IterateRange(c.Int(0), nil, end, fill)
	return a
}

// NewArrayFromValues creates an array holding items. Every item gains an
// owner.
func NewArrayFromValues(c *Context, elemType types.TypeID, items []Value, opts AllocOptions) *Array {
	a := newArrayOf(c, elemType, items, opts)
	for _, item := range items {
		c.Scope.IncreaseReferenceCount(item)
	}
	return a
}

// NewArrayFromExprs lowers exprs in order and creates an array holding the
// results. The freshly lowered items are not retained again.
func NewArrayFromExprs(c *Context, elemType types.TypeID, exprs []Expr, opts AllocOptions) *Array {
	return newArrayOf(c, elemType, c.buildSubitems(exprs), opts)
}

func newArrayOf(c *Context, elemType types.TypeID, items []Value, opts AllocOptions) *Array {
	a := NewArray(c, elemType, c.Int(int64(len(items))), opts)
	for i, p := range a.ElementPointers() {
		p.StoreValue(items[i])
	}
	return a
}

// WrapArray observes an existing array handle: either an opaque %Array* or
// an in-register [N x T] aggregate.
func WrapArray(c *Context, handle value.Value, elemType types.TypeID) *Array {
	a := &Array{ctx: c, elemType: elemType, handle: handle}
	a.length = NewCached(c, a.queryLength, nil)
	if at, ok := handle.Type().(*irtypes.ArrayType); ok {
		n, err := safecast.Conv[uint32](at.Len)
		if err != nil {
			ice.Raise(ice.NonConstant, "array length %d out of range", at.Len)
		}
		a.inline = true
		a.elemLLVM = at.ElemType
		a.count, a.hasCount = n, true
		return a
	}
	if !c.IR.IsArray(handle.Type()) {
		ice.Raise(ice.RepresentationMismatch, "expecting an array, got %s", handle.Type())
	}
	a.elemLLVM = c.LLVMType(elemType, false)
	return a
}

func (a *Array) queryLength() value.Value {
	c := a.ctx
	c.Trace(trace.ScopeValue, "array.length", "runtime query")
	return c.Block().NewCall(c.RuntimeFunction(rtlib.ArrayGetSize1d), a.OpaquePointer())
}

// Length returns the i64 element count. A runtime query is emitted only
// when the length is neither constant nor cached for the current region.
func (a *Array) Length() value.Value {
	if a.hasCount {
		return a.ctx.Int(int64(a.count))
	}
	return a.length.Load()
}

// Count returns the element count when it is known at compile time.
func (a *Array) Count() (uint32, bool) {
	return a.count, a.hasCount
}

// OpaquePointer returns the %Array* of a heap array.
func (a *Array) OpaquePointer() value.Value {
	if a.inline {
		ice.Raise(ice.RepresentationMismatch, "in-register %s has no heap address",
			types.Label(a.ctx.Types, a.SemanticType()))
	}
	return a.handle
}

// ElementPointer returns the storage cell of the element at index. Cells are
// not cached; every call addresses the element anew. In-register arrays need
// a constant index.
func (a *Array) ElementPointer(index value.Value) *Pointer {
	c := a.ctx
	if !a.inline {
		raw := c.Block().NewCall(c.RuntimeFunction(rtlib.ArrayGetElementPtr1d), a.handle, index)
		typed := c.Block().NewBitCast(raw, irtypes.NewPointer(a.elemLLVM))
		return NewPointer(c, typed, a.elemType, a.elemLLVM)
	}
	i, ok := gen.AsConstant(index)
	if !ok {
		ice.Raise(ice.NonConstant, "in-register array index must be a constant")
	}
	if i >= a.count {
		ice.Raise(ice.ArityMismatch, "index %d out of range for %d elements", i, a.count)
	}
	idx := uint64(i)
	return NewAccessor(c, a.elemType, a.elemLLVM,
		func() Value { return c.From(c.Block().NewExtractValue(a.handle, idx), a.elemType) },
		func(v Value) { a.handle = c.Block().NewInsertValue(a.handle, a.slotValue(v), idx) },
	)
}

// slotValue returns v in the representation of an in-register slot. A heap
// record is copied into the slot by loading its typed pointer.
func (a *Array) slotValue(v Value) value.Value {
	h := v.Handle()
	if h.Type().Equal(a.elemLLVM) {
		return h
	}
	if t, ok := v.(*Tuple); ok && !t.IsInline() && t.StructType().Equal(a.elemLLVM) {
		return a.ctx.Block().NewLoad(a.elemLLVM, t.TypedPointer())
	}
	ice.Raise(ice.RepresentationMismatch, "in-register slot of type %s cannot hold a %s", a.elemLLVM, h.Type())
	return nil
}

// Element returns the current value at index.
func (a *Array) Element(index value.Value) Value {
	return a.ElementPointer(index).LoadValue()
}

// ElementPointers returns the cells at the given constant indices, or at
// every index when none are given. The latter needs a compile-time count.
func (a *Array) ElementPointers(indices ...int64) []*Pointer {
	idx := a.indexList(indices)
	out := make([]*Pointer, len(idx))
	for i, n := range idx {
		out[i] = a.ElementPointer(n)
	}
	return out
}

// Elements returns the current values at the given constant indices, or at
// every index when none are given.
func (a *Array) Elements(indices ...int64) []Value {
	ptrs := a.ElementPointers(indices...)
	out := make([]Value, len(ptrs))
	for i, p := range ptrs {
		out[i] = p.LoadValue()
	}
	return out
}

func (a *Array) indexList(indices []int64) []*constant.Int {
	if len(indices) == 0 {
		if !a.hasCount {
			ice.Raise(ice.NonConstant, "array length is not known at compile time")
		}
		indices = make([]int64, a.count)
		for i := range indices {
			indices[i] = int64(i)
		}
	}
	out := make([]*constant.Int, len(indices))
	for i, n := range indices {
		out[i] = a.ctx.Int(n)
	}
	return out
}

// ElementType returns the semantic element type.
func (a *Array) ElementType() types.TypeID {
	return a.elemType
}

// IsInline reports whether the array lives in registers.
func (a *Array) IsInline() bool {
	return a.inline
}

func (a *Array) Handle() value.Value    { return a.handle }
func (a *Array) LLVMType() irtypes.Type { return a.handle.Type() }
func (a *Array) isValue()               {}

func (a *Array) SemanticType() types.TypeID {
	return a.ctx.Types.Array(a.elemType)
}

func (a *Array) RegisterName(name string) {
	a.ctx.NameValue(a.handle, name)
}
