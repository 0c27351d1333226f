package values

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/ice"
	"qir/internal/rtlib"
	"qir/internal/trace"
	"qir/internal/types"
)

// Callable is a runtime callable object: a dispatch table plus an optional
// capture record.
type Callable struct {
	ctx     *Context
	typ     types.TypeID
	handle  value.Value
	capture *Tuple
}

// NewCallable lowers captured and creates a callable over table. The capture
// record is owned by the callable and is not registered separately; the
// callable itself is.
func NewCallable(c *Context, typ types.TypeID, table *ir.Global, captured []Expr) *Callable {
	var capture *Tuple
	if len(captured) > 0 {
		capture = NewTupleFromExprs(c, types.NoTypeID, captured, AllocOptions{Unscoped: true})
	}
	return newCallable(c, typ, table, capture)
}

// NewCallableFromValues is NewCallable for already lowered captures.
func NewCallableFromValues(c *Context, typ types.TypeID, table *ir.Global, captured []Value) *Callable {
	var capture *Tuple
	if len(captured) > 0 {
		capture = NewTupleFromValues(c, types.NoTypeID, captured, AllocOptions{Unscoped: true})
	}
	return newCallable(c, typ, table, capture)
}

func newCallable(c *Context, typ types.TypeID, table *ir.Global, capture *Tuple) *Callable {
	var (
		items []types.TypeID
		arg   value.Value = c.Unit()
	)
	if capture != nil {
		items = capture.ElementTypes()
		arg = capture.OpaquePointer()
	}
	memTable := c.CallableMemoryManagementTable(items)
	c.Trace(trace.ScopeValue, "callable.create", table.Name())
	h := c.Block().NewCall(c.RuntimeFunction(rtlib.CallableCreate), table, memTable, arg)
	v := &Callable{ctx: c, typ: typ, handle: h, capture: capture}
	c.Scope.RegisterValue(v)
	return v
}

// WrapCallable observes an existing %Callable* handle.
func WrapCallable(c *Context, handle value.Value, typ types.TypeID) *Callable {
	if !handle.Type().Equal(c.IR.Callable) {
		ice.Raise(ice.RepresentationMismatch, "expecting a callable, got %s", handle.Type())
	}
	return &Callable{ctx: c, typ: typ, handle: handle}
}

// Capture returns the capture record the callable was created with.
func (v *Callable) Capture() (*Tuple, bool) {
	return v.capture, v.capture != nil
}

func (v *Callable) Handle() value.Value        { return v.handle }
func (v *Callable) LLVMType() irtypes.Type     { return v.handle.Type() }
func (v *Callable) SemanticType() types.TypeID { return v.typ }
func (v *Callable) isValue()                   {}

func (v *Callable) RegisterName(name string) {
	v.ctx.NameValue(v.handle, name)
}
