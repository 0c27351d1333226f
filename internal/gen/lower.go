package gen

import (
	irtypes "github.com/llir/llvm/ir/types"

	"qir/internal/ice"
	"qir/internal/types"
)

// LLVMType lowers a semantic type. With native set, records lower to their
// in-register struct instead of a pointer to it; arrays always lower to the
// opaque array pointer since a fixed-size array needs a count the type does
// not carry.
func (c *Context) LLVMType(id types.TypeID, native bool) irtypes.Type {
	tt, ok := c.Types.Lookup(id)
	if !ok {
		ice.Raise(ice.UnsupportedType, "unknown type id %d", id)
	}
	switch tt.Kind {
	case types.KindUnit:
		return c.IR.Tuple
	case types.KindBool:
		return irtypes.I1
	case types.KindInt:
		return irtypes.I64
	case types.KindDouble:
		return irtypes.Double
	case types.KindPauli:
		return c.IR.Pauli
	case types.KindResult:
		return c.IR.Result
	case types.KindQubit:
		return c.IR.Qubit
	case types.KindString:
		return c.IR.String
	case types.KindRange:
		return c.IR.Range
	case types.KindTuple, types.KindUDT:
		st := c.TypedTuple(c.Types.Items(id))
		if native {
			return st
		}
		return irtypes.NewPointer(st)
	case types.KindArray:
		return c.IR.Array
	case types.KindCallable:
		return c.IR.Callable
	default:
		ice.Raise(ice.UnsupportedType, "no lowering for %s", types.Label(c.Types, id))
		return nil
	}
}

// TypedTuple returns the struct laying out record items in declaration order.
func (c *Context) TypedTuple(items []types.TypeID) *irtypes.StructType {
	fields := make([]irtypes.Type, len(items))
	for i, item := range items {
		fields[i] = c.LLVMType(item, false)
	}
	return c.IR.TypedTuple(fields)
}
