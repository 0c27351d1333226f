package gen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/ice"
	"qir/internal/rtlib"
	"qir/internal/trace"
	"qir/internal/types"
)

// Specialization indexes a callable dispatch table.
type Specialization int

const (
	SpecBody Specialization = iota
	SpecAdjoint
	SpecControlled
	SpecControlledAdjoint
)

var specSuffix = [...]string{"body", "adj", "ctl", "ctladj"}

// DeclareSpecialization defines an entry point with the dispatch signature
// void(%Tuple* capture, %Tuple* args, %Tuple* result) and an empty body.
// The cursor is not moved.
func (c *Context) DeclareSpecialization(callable string, spec Specialization) *ir.Func {
	f := c.Module.NewFunc(
		fmt.Sprintf("%s__%s__wrapper", callable, specSuffix[spec]),
		irtypes.Void,
		ir.NewParam("capture-tuple", c.IR.Tuple),
		ir.NewParam("arg-tuple", c.IR.Tuple),
		ir.NewParam("result-tuple", c.IR.Tuple),
	)
	f.NewBlock("entry").NewRet(nil)
	return f
}

// CallableTable returns the dispatch table of a callable, defining it on
// first use. Missing specializations are null.
func (c *Context) CallableTable(callable string, specs [4]*ir.Func) *ir.Global {
	if g, ok := c.callableTables[callable]; ok {
		return g
	}
	entryType := irtypes.NewPointer(c.IR.FunctionSignature)
	elems := make([]constant.Constant, len(specs))
	for i, f := range specs {
		if f == nil {
			elems[i] = constant.NewNull(entryType)
			continue
		}
		elems[i] = f
	}
	g := c.Module.NewGlobalDef(callable+"__FunctionTable", constant.NewArray(c.IR.CallableTable, elems...))
	g.Immutable = true
	c.callableTables[callable] = g
	return g
}

// CallableMemoryManagementTable returns the pair of functions that update the
// reference and alias counts of a capture tuple with the given items. Shapes
// are cached per module. Without captures the table is a null pointer.
func (c *Context) CallableMemoryManagementTable(items []types.TypeID) value.Value {
	tableType := irtypes.NewPointer(c.IR.CallableMemoryManagementTable)
	if len(items) == 0 {
		return constant.NewNull(tableType)
	}
	key := types.Label(c.Types, c.Types.RegisterTuple(items))
	if g, ok := c.memTables[key]; ok {
		return g
	}
	name := fmt.Sprintf("MemoryManagement__%d", len(c.memTables))
	refCount := c.captureCountFunc(name+"__RefCount", items, false)
	aliasCount := c.captureCountFunc(name+"__AliasCount", items, true)
	g := c.Module.NewGlobalDef(name, constant.NewArray(c.IR.CallableMemoryManagementTable, refCount, aliasCount))
	g.Immutable = true
	c.memTables[key] = g
	c.Trace(trace.ScopeValue, "memtable.define", name+" "+strings.TrimSpace(key))
	return g
}

// captureCountFunc builds void(%Tuple* capture, i32 change) that applies the
// change to every counted item and then to the capture tuple itself.
func (c *Context) captureCountFunc(name string, items []types.TypeID, alias bool) *ir.Func {
	capture := ir.NewParam("capture-tuple", c.IR.Tuple)
	change := ir.NewParam("count-change", irtypes.I32)
	f := c.Module.NewFunc(name, irtypes.Void, capture, change)
	entry := f.NewBlock("entry")

	st := c.TypedTuple(items)
	typed := entry.NewBitCast(capture, irtypes.NewPointer(st))
	for i, item := range items {
		kind := c.Types.KindOf(item)
		sym, ok := UpdateSymbol(kind, alias)
		if !ok {
			continue
		}
		ptr := entry.NewGetElementPtr(st, typed, c.Int32(0), c.Int32(int64(i)))
		var loaded value.Value = entry.NewLoad(st.Fields[i], ptr)
		if kind.IsAggregate() {
			loaded = entry.NewBitCast(loaded, c.IR.Tuple)
		}
		entry.NewCall(c.mustRuntime(sym), loaded, change)
	}
	self := rtlib.TupleUpdateReferenceCount
	if alias {
		self = rtlib.TupleUpdateAliasCount
	}
	entry.NewCall(c.mustRuntime(self), capture, change)
	entry.NewRet(nil)
	return f
}

// UpdateSymbol returns the runtime function that changes the reference count
// (or alias count) of values of kind. Kinds that are not heap objects, and
// kinds without alias tracking, report false.
func UpdateSymbol(kind types.Kind, alias bool) (rtlib.Symbol, bool) {
	switch kind {
	case types.KindTuple, types.KindUDT:
		if alias {
			return rtlib.TupleUpdateAliasCount, true
		}
		return rtlib.TupleUpdateReferenceCount, true
	case types.KindArray:
		if alias {
			return rtlib.ArrayUpdateAliasCount, true
		}
		return rtlib.ArrayUpdateReferenceCount, true
	case types.KindCallable:
		if alias {
			return rtlib.CallableUpdateAliasCount, true
		}
		return rtlib.CallableUpdateReferenceCount, true
	case types.KindString:
		return rtlib.StringUpdateReferenceCount, !alias
	case types.KindResult:
		return rtlib.ResultUpdateReferenceCount, !alias
	default:
		return 0, false
	}
}

// RuntimeFunction resolves a runtime symbol to its declaration.
func (c *Context) RuntimeFunction(sym rtlib.Symbol) *ir.Func {
	return c.mustRuntime(sym)
}

func (c *Context) mustRuntime(sym rtlib.Symbol) *ir.Func {
	declared := c.Runtime.Declared(sym)
	f, err := c.Runtime.Get(sym)
	if err != nil {
		ice.Raise(ice.UnsupportedType, "%v", err)
	}
	if !declared {
		c.Trace(trace.ScopeValue, "runtime.declare", sym.Name())
	}
	return f
}
