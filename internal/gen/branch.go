package gen

import (
	"strconv"

	"qir/internal/branch"
	"qir/internal/trace"
)

// CurrentBranch returns the region being emitted into.
func (c *Context) CurrentBranch() branch.ID {
	return c.branches.Current()
}

// IsOpenBranch reports whether id dominates the current emission point.
func (c *Context) IsOpenBranch(id branch.ID) bool {
	return c.branches.IsOpen(id)
}

// IsWithinLoop reports whether the cursor is inside a loop body.
func (c *Context) IsWithinLoop() bool {
	return c.branches.WithinLoop()
}

// IsWithinCurrentLoop reports whether id lies in the innermost open loop body.
func (c *Context) IsWithinCurrentLoop(id branch.ID) bool {
	return c.branches.WithinCurrentLoop(id)
}

// Branches exposes the region scaffold of the current function.
func (c *Context) Branches() *branch.Tree {
	return c.branches
}

// EnterBranch opens a region; every instruction emitted until the matching
// ExitBranch belongs to it.
func (c *Context) EnterBranch(kind branch.Kind) branch.ID {
	id := c.branches.Enter(kind)
	c.Trace(trace.ScopeBranch, "branch.enter", kind.String()+" #"+strconv.Itoa(int(id)))
	return id
}

// ExitBranch closes the current region.
func (c *Context) ExitBranch() {
	id := c.branches.Current()
	c.branches.Exit()
	c.Trace(trace.ScopeBranch, "branch.exit", "#"+strconv.Itoa(int(id)))
}
