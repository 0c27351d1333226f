package scenario

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"

	"qir/internal/ice"
	"qir/internal/types"
	"qir/internal/values"
)

// Lowerer turns expressions into values. Only the outermost aggregate of a
// Lower call honors Inline; nested aggregates always live on the heap. An
// in-register array copies such a record into its slot with a load.
type Lowerer struct {
	Inline bool
}

// Lower lowers a top-level expression.
func (l *Lowerer) Lower(c *values.Context, e values.Expr) values.Value {
	return l.lower(c, e, values.AllocOptions{Inline: l.Inline})
}

// BuildSubitem implements values.ExprLowerer.
func (l *Lowerer) BuildSubitem(c *values.Context, e values.Expr) values.Value {
	return l.lower(c, e, values.AllocOptions{})
}

func (l *Lowerer) lower(c *values.Context, e values.Expr, opts values.AllocOptions) values.Value {
	switch e := e.(type) {
	case *Lit:
		return values.NewScalar(c, l.constant(c, e), e.typ)
	case *TupleLit:
		return values.NewTupleFromExprs(c, e.udt, e.Items, opts)
	case *ArrayLit:
		return values.NewArrayFromExprs(c, e.elem, e.Items, opts)
	case *Ref:
		return e.Value
	default:
		panic(fmt.Errorf("scenario: unsupported expression %T", e))
	}
}

func (l *Lowerer) constant(c *values.Context, e *Lit) constant.Constant {
	switch c.Types.KindOf(e.typ) {
	case types.KindInt:
		return c.Int(e.Int)
	case types.KindBool:
		return c.Bool(e.Bool)
	case types.KindDouble:
		return c.Double(e.Float)
	case types.KindPauli:
		return c.Pauli(e.Int)
	default:
		ice.Raise(ice.UnsupportedType, "no literal of type %s", types.Label(c.Types, e.typ))
		return nil
	}
}
