package values

import (
	"testing"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"qir/internal/gen"
	"qir/internal/ice"
	"qir/internal/rtlib"
	"qir/internal/types"
)

type recorder struct {
	registered []Value
	retained   []Value
	opened     int
	closed     int
	survivors  []Value
}

func (r *recorder) RegisterValue(v Value)          { r.registered = append(r.registered, v) }
func (r *recorder) IncreaseReferenceCount(v Value) { r.retained = append(r.retained, v) }
func (r *recorder) OpenScope()                     { r.opened++ }

func (r *recorder) CloseScope(survivor Value) {
	r.closed++
	r.survivors = append(r.survivors, survivor)
}

type literal struct {
	tag   int
	typ   types.TypeID
	build func(c *Context) Value
}

func (l literal) SemanticType() types.TypeID { return l.typ }

type lowerer struct {
	seen []int
}

func (l *lowerer) BuildSubitem(c *Context, e Expr) Value {
	lit := e.(literal)
	l.seen = append(l.seen, lit.tag)
	return lit.build(c)
}

func intLit(c *Context, tag int, v int64) literal {
	typ := c.Types.Builtins().Int
	return literal{tag: tag, typ: typ, build: func(c *Context) Value {
		return NewScalar(c, c.Int(v), typ)
	}}
}

func newTestContext(t *testing.T, params ...*ir.Param) (*Context, *recorder, *lowerer) {
	t.Helper()
	g := gen.New(gen.Config{})
	g.BeginFunction("test", irtypes.Void, params...)
	rec, low := &recorder{}, &lowerer{}
	return NewContext(g, rec, low), rec, low
}

func (c *Context) intValue(v int64) *Scalar {
	return NewScalar(c, c.Int(v), c.Types.Builtins().Int)
}

func count[T ir.Instruction](blocks []*ir.Block) int {
	n := 0
	for _, b := range blocks {
		for _, inst := range b.Insts {
			if _, ok := inst.(T); ok {
				n++
			}
		}
	}
	return n
}

func callsTo(blocks []*ir.Block, sym rtlib.Symbol) []*ir.InstCall {
	var out []*ir.InstCall
	for _, b := range blocks {
		for _, inst := range b.Insts {
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}
			if f, ok := call.Callee.(*ir.Func); ok && f.Name() == sym.Name() {
				out = append(out, call)
			}
		}
	}
	return out
}

func expectICE(t *testing.T, code ice.Code, fn func()) {
	t.Helper()
	err := ice.Guard(func() error {
		fn()
		return nil
	})
	e, ok := ice.As(err)
	if !ok {
		t.Fatalf("expected %s, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code, e.Code, e.Message)
	}
}
