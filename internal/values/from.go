package values

import (
	"github.com/llir/llvm/ir/value"

	"qir/internal/ice"
	"qir/internal/types"
)

// From wraps an existing IR value as the representation its semantic type
// calls for. It emits nothing.
func (c *Context) From(handle value.Value, typ types.TypeID) Value {
	switch c.Types.KindOf(typ) {
	case types.KindTuple, types.KindUDT:
		return WrapTuple(c, typ, handle)
	case types.KindArray:
		return WrapArray(c, handle, c.Types.MustLookup(typ).Elem)
	case types.KindCallable:
		return WrapCallable(c, handle, typ)
	case types.KindInvalid:
		ice.Raise(ice.UnsupportedType, "cannot wrap a value of unknown type id %d", typ)
		return nil
	default:
		return NewScalar(c, handle, typ)
	}
}
