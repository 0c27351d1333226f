package gen

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"qir/internal/ice"
)

// ComputeSize returns the byte size of t as a constant of intType.
// Sizes come from the target layout so they fold into the allocation call.
func (c *Context) ComputeSize(t irtypes.Type, intType *irtypes.IntType) *constant.Int {
	size, err := c.Layout.SizeOf(t)
	if err != nil {
		ice.Raise(ice.UnsupportedType, "size of %s: %v", t, err)
	}
	if intType == nil {
		intType = irtypes.I64
	}
	return constant.NewInt(intType, int64(size))
}
