package gen

import (
	"math"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Int returns an i64 constant.
func (c *Context) Int(v int64) *constant.Int {
	return constant.NewInt(irtypes.I64, v)
}

// Int32 returns an i32 constant.
func (c *Context) Int32(v int64) *constant.Int {
	return constant.NewInt(irtypes.I32, v)
}

// Bool returns an i1 constant.
func (c *Context) Bool(v bool) *constant.Int {
	return constant.NewBool(v)
}

// Double returns a double constant.
func (c *Context) Double(v float64) *constant.Float {
	return constant.NewFloat(irtypes.Double, v)
}

// Pauli returns the i2 encoding of a Pauli operator (I=0, X=1, Z=2, Y=3).
func (c *Context) Pauli(v int64) *constant.Int {
	return constant.NewInt(c.IR.Pauli, v)
}

// Unit returns the null tuple pointer that represents the unit value and the
// absence of captures.
func (c *Context) Unit() constant.Constant {
	return constant.NewNull(c.IR.Tuple)
}

// Null returns the null pointer of t.
func (c *Context) Null(t *irtypes.PointerType) constant.Constant {
	return constant.NewNull(t)
}

// Zero returns the zero value of an in-register aggregate or scalar type.
func (c *Context) Zero(t irtypes.Type) constant.Constant {
	return constant.NewZeroInitializer(t)
}

// AsConstant returns the value of a non-negative integer constant that fits
// in an int32, the range usable as a static count or index.
func AsConstant(v value.Value) (uint32, bool) {
	ci, ok := v.(*constant.Int)
	if !ok || ci.X == nil || !ci.X.IsInt64() {
		return 0, false
	}
	n := ci.X.Int64()
	if n < 0 || n >= math.MaxInt32 {
		return 0, false
	}
	u, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, false
	}
	return u, true
}

// IsNullConstant reports whether v is a null pointer constant.
func IsNullConstant(v value.Value) bool {
	_, ok := v.(*constant.Null)
	return ok
}
