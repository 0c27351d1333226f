package gen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"qir/internal/branch"
)

// If emits a conditional. Each arm runs inside its own conditional region
// and both rejoin in a continuation block where the cursor is left.
// els may be nil.
func (c *Context) If(cond value.Value, then, els func()) {
	thenBlock := c.NewBlock("then")
	contBlock := c.NewBlock("continue")
	elseBlock := contBlock
	if els != nil {
		elseBlock = c.NewBlock("else")
	}
	c.Block().NewCondBr(cond, thenBlock, elseBlock)

	c.emitArm(thenBlock, contBlock, then)
	if els != nil {
		c.emitArm(elseBlock, contBlock, els)
	}
	c.block = contBlock
}

func (c *Context) emitArm(start, cont *ir.Block, body func()) {
	c.block = start
	c.EnterBranch(branch.KindConditional)
	body()
	c.ExitBranch()
	if c.block.Term == nil {
		c.block.NewBr(cont)
	}
}

// IterateRange emits a counting loop over start..end inclusive. step may be
// nil for 1. The body receives the i64 induction variable and runs inside a
// loop region; the cursor is left in the exit block.
func (c *Context) IterateRange(start, step, end value.Value, body func(index value.Value)) {
	if step == nil {
		step = c.Int(1)
	}
	pre := c.Block()
	header := c.NewBlock("header")
	bodyBlock := c.NewBlock("body")
	exit := c.NewBlock("exit")
	pre.NewBr(header)

	c.block = header
	index := header.NewPhi(ir.NewIncoming(start, pre))
	header.NewCondBr(c.continueCondition(index, step, end), bodyBlock, exit)

	c.block = bodyBlock
	c.EnterBranch(branch.KindLoop)
	body(index)
	c.ExitBranch()
	next := c.block.NewAdd(index, step)
	index.Incs = append(index.Incs, ir.NewIncoming(next, c.block))
	c.block.NewBr(header)

	c.block = exit
}

// continueCondition is index <= end for ascending ranges and index >= end
// for descending ones; a non-constant step selects at run time.
func (c *Context) continueCondition(index, step, end value.Value) value.Value {
	b := c.Block()
	if s, ok := step.(*constant.Int); ok && s.X != nil {
		if s.X.Sign() < 0 {
			return b.NewICmp(enum.IPredSGE, index, end)
		}
		return b.NewICmp(enum.IPredSLE, index, end)
	}
	ascending := b.NewICmp(enum.IPredSGT, step, c.Int(0))
	up := b.NewICmp(enum.IPredSLE, index, end)
	down := b.NewICmp(enum.IPredSGE, index, end)
	return b.NewSelect(ascending, up, down)
}
