package gen

import (
	"strconv"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"qir/internal/trace"
)

// BeginFunction starts emitting a new function and places the cursor in its
// entry block. Branch tracking restarts at a fresh root, so nothing cached
// in an earlier function is reused.
func (c *Context) BeginFunction(name string, ret irtypes.Type, params ...*ir.Param) *ir.Func {
	c.fn = c.Module.NewFunc(name, ret, params...)
	c.block = c.fn.NewBlock("entry")
	c.branches.Restart()
	c.span = trace.Begin(c.tracer, trace.ScopeFunction, "emit:"+name, 0)
	return c.fn
}

// EndFunction terminates the current block with a return of ret (nil for
// void) unless it is already terminated.
func (c *Context) EndFunction(ret value.Value) {
	if c.block != nil && c.block.Term == nil {
		c.block.NewRet(ret)
	}
	if c.span != nil {
		blocks := 0
		if c.fn != nil {
			blocks = len(c.fn.Blocks)
		}
		c.span.WithExtra("blocks", strconv.Itoa(blocks)).End("")
	}
	c.fn, c.block, c.span = nil, nil, nil
}
