package values

import (
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/types"
)

// Scalar is a value whose IR representation needs no special handling,
// such as Int, Double, Bool, Qubit or Result.
type Scalar struct {
	ctx    *Context
	handle value.Value
	typ    types.TypeID
}

// NewScalar wraps handle. It emits nothing.
func NewScalar(c *Context, handle value.Value, typ types.TypeID) *Scalar {
	return &Scalar{ctx: c, handle: handle, typ: typ}
}

func (s *Scalar) Handle() value.Value        { return s.handle }
func (s *Scalar) LLVMType() irtypes.Type     { return s.handle.Type() }
func (s *Scalar) SemanticType() types.TypeID { return s.typ }
func (s *Scalar) isValue()                   {}

func (s *Scalar) RegisterName(name string) {
	s.ctx.NameValue(s.handle, name)
}
