package values

import (
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/gen"
	"qir/internal/ice"
	"qir/internal/rtlib"
	"qir/internal/trace"
	"qir/internal/types"
)

// Tuple is a record: an anonymous tuple or a user-defined type.
//
// A heap record is reachable through two views of the same address, the
// opaque %Tuple* the runtime traffics in and a pointer to its struct layout
// used for field access. Both are derived from the handle the record was
// created from; the derived casts are cached per region. A record created
// from a null handle has no address and every access to it is an invariant
// violation.
//
// An in-register record holds its current struct value instead and has no
// address at all.
type Tuple struct {
	ctx       *Context
	semType   types.TypeID
	udt       types.TypeID
	itemTypes []types.TypeID
	st        *irtypes.StructType

	native value.Value
	root   value.Value
	opaque *Cached[value.Value]
	typed  *Cached[value.Value]
	fields []*Cached[*Pointer]
}

// NewTuple creates a record with uninitialized items.
func NewTuple(c *Context, itemTypes []types.TypeID, opts AllocOptions) *Tuple {
	fieldTypes := make([]irtypes.Type, len(itemTypes))
	for i, item := range itemTypes {
		fieldTypes[i] = c.LLVMType(item, false)
	}
	return newTuple(c, types.NoTypeID, itemTypes, fieldTypes, opts, nil)
}

// NewTupleFromValues creates a record holding items. udt may be
// types.NoTypeID for an anonymous tuple. Every item gains an owner.
func NewTupleFromValues(c *Context, udt types.TypeID, items []Value, opts AllocOptions) *Tuple {
	t := newTupleOf(c, udt, items, opts)
	for _, item := range items {
		c.Scope.IncreaseReferenceCount(item)
	}
	return t
}

// NewTupleFromExprs lowers exprs in order and creates a record holding the
// results. Like NewTupleFromValues every item gains an owner.
func NewTupleFromExprs(c *Context, udt types.TypeID, exprs []Expr, opts AllocOptions) *Tuple {
	return NewTupleFromValues(c, udt, c.buildSubitems(exprs), opts)
}

// WrapTuple observes an existing record handle of type typ, which must be a
// tuple or user-defined type. The handle may be an opaque or typed pointer,
// or an in-register struct.
func WrapTuple(c *Context, typ types.TypeID, handle value.Value) *Tuple {
	udt := types.NoTypeID
	if c.Types.KindOf(typ) == types.KindUDT {
		udt = typ
	}
	itemTypes := c.Types.Items(typ)
	var fieldTypes []irtypes.Type
	switch ht := handle.Type().(type) {
	case *irtypes.StructType:
		fieldTypes = ht.Fields
	case *irtypes.PointerType:
		if st, ok := ht.ElemType.(*irtypes.StructType); ok && c.IR.IsTypedTuple(ht) {
			fieldTypes = st.Fields
		}
	}
	if fieldTypes == nil {
		fieldTypes = make([]irtypes.Type, len(itemTypes))
		for i, item := range itemTypes {
			fieldTypes[i] = c.LLVMType(item, false)
		}
	}
	if len(fieldTypes) != len(itemTypes) {
		ice.Raise(ice.ArityMismatch, "%s has %d items, handle has %d fields",
			types.Label(c.Types, typ), len(itemTypes), len(fieldTypes))
	}
	return newTuple(c, udt, itemTypes, fieldTypes, AllocOptions{}, func(*Tuple) value.Value { return handle })
}

func newTupleOf(c *Context, udt types.TypeID, items []Value, opts AllocOptions) *Tuple {
	itemTypes := semanticTypes(items)
	if udt != types.NoTypeID {
		declared := c.Types.Items(udt)
		if len(declared) != len(items) {
			ice.Raise(ice.ArityMismatch, "%s has %d items, got %d",
				types.Label(c.Types, udt), len(declared), len(items))
		}
		itemTypes = declared
	}
	fieldTypes := make([]irtypes.Type, len(items))
	for i, item := range items {
		fieldTypes[i] = item.LLVMType()
	}
	t := newTuple(c, udt, itemTypes, fieldTypes, opts, nil)
	ptrs := t.FieldPointers()
	for i, item := range items {
		ptrs[i].StoreValue(item)
	}
	return t
}

// newTuple builds the record. A nil create allocates according to opts;
// registration with the scope manager happens once the record is usable.
func newTuple(c *Context, udt types.TypeID, itemTypes []types.TypeID, fieldTypes []irtypes.Type, opts AllocOptions, create func(*Tuple) value.Value) *Tuple {
	t := &Tuple{
		ctx:       c,
		udt:       udt,
		itemTypes: itemTypes,
		st:        c.IR.TypedTuple(fieldTypes),
	}
	if udt != types.NoTypeID {
		t.semType = udt
	} else {
		t.semType = c.Types.RegisterTuple(itemTypes)
	}

	register := false
	if create == nil {
		if opts.Inline {
			create = func(t *Tuple) value.Value { return c.Zero(t.st) }
		} else {
			create = (*Tuple).allocate
			register = !opts.Unscoped
		}
	}
	t.bind(create(t))

	t.fields = make([]*Cached[*Pointer], len(itemTypes))
	for i := range t.fields {
		t.fields[i] = NewCached(c, t.fieldLoader(i), nil)
	}
	if register {
		c.Scope.RegisterValue(t)
	}
	return t
}

func (t *Tuple) allocate() value.Value {
	c := t.ctx
	size := c.ComputeSize(t.st, nil)
	c.Trace(trace.ScopeValue, "tuple.alloc", types.Label(c.Types, t.semType))
	return c.Block().NewCall(c.RuntimeFunction(rtlib.TupleCreate), size)
}

func (t *Tuple) bind(handle value.Value) {
	c := t.ctx
	t.opaque = NewCached(c, t.deriveOpaque, nil)
	t.typed = NewCached(c, t.deriveTyped, nil)
	switch ht := handle.Type().(type) {
	case *irtypes.StructType:
		t.native = handle
		return
	case *irtypes.PointerType:
		if !c.IR.IsTuple(ht) && !c.IR.IsTypedTuple(ht) {
			break
		}
		if gen.IsNullConstant(handle) {
			return
		}
		t.root = handle
		if c.IR.IsTuple(ht) {
			t.opaque.Seed(handle)
		} else {
			t.typed.Seed(handle)
		}
		return
	}
	ice.Raise(ice.RepresentationMismatch, "%s cannot hold a %s", types.Label(c.Types, t.semType), handle.Type())
}

func (t *Tuple) checkAddress(view string) {
	if t.native != nil {
		ice.Raise(ice.RepresentationMismatch, "in-register %s has no %s pointer", types.Label(t.ctx.Types, t.semType), view)
	}
	if t.root == nil {
		ice.Raise(ice.UnresolvedDuality, "tuple pointer is undefined")
	}
}

func (t *Tuple) deriveOpaque() value.Value {
	t.checkAddress("opaque")
	if t.ctx.IR.IsTuple(t.root.Type()) {
		return t.root
	}
	t.ctx.Trace(trace.ScopeValue, "tuple.cast", "opaque")
	return t.ctx.Block().NewBitCast(t.root, t.ctx.IR.Tuple)
}

func (t *Tuple) deriveTyped() value.Value {
	t.checkAddress("typed")
	if !t.ctx.IR.IsTuple(t.root.Type()) {
		return t.root
	}
	t.ctx.Trace(trace.ScopeValue, "tuple.cast", "typed")
	return t.ctx.Block().NewBitCast(t.root, irtypes.NewPointer(t.st))
}

func (t *Tuple) fieldLoader(i int) func() *Pointer {
	return func() *Pointer {
		c := t.ctx
		item, fieldType := t.itemTypes[i], t.st.Fields[i]
		if t.native == nil {
			gep := c.Block().NewGetElementPtr(t.st, t.TypedPointer(), c.Int32(0), c.Int32(int64(i)))
			return NewPointer(c, gep, item, fieldType)
		}
		idx := uint64(i)
		return NewAccessor(c, item, fieldType,
			func() Value { return c.From(c.Block().NewExtractValue(t.native, idx), item) },
			func(v Value) { t.native = c.Block().NewInsertValue(t.native, v.Handle(), idx) },
		)
	}
}

// OpaquePointer returns the %Tuple* view, emitting a cast if needed.
func (t *Tuple) OpaquePointer() value.Value {
	return t.opaque.Load()
}

// TypedPointer returns the pointer to the struct layout, emitting a cast if
// needed.
func (t *Tuple) TypedPointer() value.Value {
	return t.typed.Load()
}

// FieldPointer returns the storage cell of item i.
func (t *Tuple) FieldPointer(i int) *Pointer {
	if i < 0 || i >= len(t.fields) {
		ice.Raise(ice.ArityMismatch, "item %d out of range for %s", i, types.Label(t.ctx.Types, t.semType))
	}
	return t.fields[i].Load()
}

// FieldPointers returns the storage cells of all items.
func (t *Tuple) FieldPointers() []*Pointer {
	out := make([]*Pointer, len(t.fields))
	for i := range t.fields {
		out[i] = t.FieldPointer(i)
	}
	return out
}

// Field returns the current value of item i.
func (t *Tuple) Field(i int) Value {
	return t.FieldPointer(i).LoadValue()
}

// Fields returns the current values of all items.
func (t *Tuple) Fields() []Value {
	out := make([]Value, len(t.fields))
	for i := range t.fields {
		out[i] = t.Field(i)
	}
	return out
}

// ElementTypes returns the semantic item types in declaration order.
func (t *Tuple) ElementTypes() []types.TypeID {
	return append([]types.TypeID(nil), t.itemTypes...)
}

// TypeName returns the name of a user-defined record.
func (t *Tuple) TypeName() (types.QualifiedName, bool) {
	if t.udt == types.NoTypeID {
		return types.QualifiedName{}, false
	}
	info, ok := t.ctx.Types.UDTInfo(t.udt)
	if !ok {
		return types.QualifiedName{}, false
	}
	return info.Name, true
}

// StructType returns the struct layout of the record.
func (t *Tuple) StructType() *irtypes.StructType {
	return t.st
}

// IsInline reports whether the record lives in registers.
func (t *Tuple) IsInline() bool {
	return t.native != nil
}

func (t *Tuple) Handle() value.Value {
	if t.native != nil {
		return t.native
	}
	return t.TypedPointer()
}

func (t *Tuple) LLVMType() irtypes.Type {
	if t.native != nil {
		return t.st
	}
	return irtypes.NewPointer(t.st)
}

func (t *Tuple) SemanticType() types.TypeID { return t.semType }
func (t *Tuple) isValue()                   {}

func (t *Tuple) RegisterName(name string) {
	switch {
	case t.native != nil:
		t.ctx.NameValue(t.native, name)
	case t.root != nil:
		t.ctx.NameValue(t.root, name)
	}
}
